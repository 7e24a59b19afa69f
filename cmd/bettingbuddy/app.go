package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/config"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/metrics"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/oddsapi"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/recommend"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/refresh"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/repository"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/value"
)

// app holds the long-lived services shared by the subcommands
type app struct {
	store    repository.Store
	provider *oddsapi.Client
	log      *logrus.Logger
}

// openApp connects the store and, when needProvider is set, the odds API client
func openApp(ctx context.Context, c *config.Config, log *logrus.Logger, needProvider bool) (*app, error) {
	store, err := repository.Open(ctx, &c.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", c.Database.Driver, err)
	}
	a := &app{store: store, log: log}

	if needProvider {
		provider, err := oddsapi.NewClient(oddsAPIConfig(c.OddsAPI), log)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to create odds API client: %w", err)
		}
		a.provider = provider
	}
	return a, nil
}

func (a *app) close() {
	if a.provider != nil {
		a.provider.Close()
	}
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Error("Failed to close store")
	}
}

func (a *app) refreshScheduler(c *config.Config) *refresh.Scheduler {
	limiter := refresh.NewRateLimiter(
		c.Refresh.SportIntervals(),
		time.Duration(c.Refresh.DefaultMinIntervalMins)*time.Minute,
	)
	opts := []refresh.Option{
		refresh.WithConfig(refreshConfig(c.Refresh)),
		refresh.WithRateLimiter(limiter),
		refresh.WithLogger(a.log),
	}

	var provider refresh.OddsProvider
	if a.provider != nil {
		provider = a.provider
	}
	return refresh.NewScheduler(a.store, provider, opts...)
}

func oddsAPIConfig(c config.OddsAPIConfig) oddsapi.Config {
	out := oddsapi.DefaultConfig()
	if c.BaseURL != "" {
		out.BaseURL = c.BaseURL
	}
	out.APIKey = c.APIKey
	if c.Regions != "" {
		out.Regions = c.Regions
	}
	if c.Markets != "" {
		out.Markets = c.Markets
	}
	if c.TimeoutSeconds > 0 {
		out.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	out.MaxRetries = c.MaxRetries
	out.RateLimit = c.RateLimit
	out.CircuitBreakerMax = c.CircuitBreakerFailures
	out.CircuitBreakerCooldown = time.Duration(c.CircuitBreakerSeconds) * time.Second
	out.SportsCacheTTL = time.Duration(c.SportsCacheTTLSeconds) * time.Second
	out.OddsCacheTTL = time.Duration(c.OddsCacheTTLSeconds) * time.Second
	return out
}

func refreshConfig(c config.RefreshConfig) refresh.Config {
	return refresh.Config{
		Interval:     c.Interval(),
		ErrorBackoff: time.Duration(c.ErrorBackoffSeconds) * time.Second,
		StopTimeout:  time.Duration(c.StopTimeoutSeconds) * time.Second,
	}
}

func newEngine(c config.RecommendConfig) *recommend.Engine {
	return recommend.NewEngine(
		recommend.WithMaxCandidates(c.MaxCandidates),
		recommend.WithEvaluationHook(func(profile recommend.ProfileName, evaluated, accepted int) {
			metrics.RecordProfileEvaluation(string(profile), evaluated, accepted)
		}),
	)
}

func newStrategy(c config.ValueConfig) *value.Strategy {
	analyzer := value.NewAnalyzer()
	analyzer.SetParams(c.ConfidenceThreshold, c.MinEdge)

	strategy := value.NewStrategy(analyzer)
	strategy.SetBankrollStrategy(value.BankrollStrategy(c.BankrollStrategy), c.StakePercentage, c.KellyFraction)
	if c.ParlayMaxLegs > 0 {
		strategy.SetParlayLegs(c.ParlayMaxLegs)
	}
	return strategy
}
