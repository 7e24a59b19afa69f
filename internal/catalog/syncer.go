// Package catalog imports sports, teams and moneyline bets from the odds provider.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/logger"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/odds"
)

// Store is the subset of the record store the import writes to
type Store interface {
	UpsertSport(ctx context.Context, sport *models.Sport) error
	UpsertTeam(ctx context.Context, team *models.Team) (bool, error)
	GetActiveBetByTeam(ctx context.Context, teamID int64) (*models.BetRecord, error)
	CreateBet(ctx context.Context, bet *models.BetRecord) error
}

// Provider lists sports and their current odds
type Provider interface {
	Sports(ctx context.Context) ([]models.ProviderSport, error)
	FetchOdds(ctx context.Context, sportKey string) ([]models.Event, error)
}

// Result summarizes one import
type Result struct {
	SportsUpserted int `json:"sports_upserted"`
	SportsFailed   int `json:"sports_failed"`
	EventsSkipped  int `json:"events_skipped"`
	TeamsCreated   int `json:"teams_created"`
	BetsCreated    int `json:"bets_created"`
}

// Syncer imports the provider catalog into the store
type Syncer struct {
	store    Store
	provider Provider
	only     map[string]bool
	log      *logrus.Entry
	audit    *logger.AuditLogger
}

// NewSyncer creates a syncer. With sportKeys set, only those sports get odds imported.
func NewSyncer(store Store, provider Provider, log *logrus.Logger, sportKeys ...string) *Syncer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	var only map[string]bool
	if len(sportKeys) > 0 {
		only = make(map[string]bool, len(sportKeys))
		for _, key := range sportKeys {
			only[strings.TrimSpace(key)] = true
		}
	}
	return &Syncer{
		store:    store,
		provider: provider,
		only:     only,
		log:      log.WithField("component", "catalog"),
		audit:    logger.NewAuditLogger(log),
	}
}

// Sync upserts every provider sport, then creates teams and pending bets from
// each selected active sport's head-to-head prices. Failures below the sport
// list are logged and skipped.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	var result Result

	sports, err := s.provider.Sports(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to fetch sports: %w", err)
	}

	for _, ps := range sports {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		sport := &models.Sport{Name: ps.Title, APIKey: ps.Key, Active: ps.Active}
		if err := s.store.UpsertSport(ctx, sport); err != nil {
			return result, err
		}
		result.SportsUpserted++

		if !ps.Active || (s.only != nil && !s.only[ps.Key]) {
			continue
		}

		events, err := s.provider.FetchOdds(ctx, ps.Key)
		if err != nil {
			result.SportsFailed++
			s.log.WithError(err).WithField("sport", ps.Key).Warn("Failed to fetch odds for sport")
			continue
		}

		teams, bets := 0, 0
		for i := range events {
			t, b, err := s.importEvent(ctx, sport, &events[i])
			teams += t
			bets += b
			if err != nil {
				result.EventsSkipped++
				s.log.WithError(err).WithFields(logrus.Fields{
					"sport":    ps.Key,
					"event_id": events[i].ID,
				}).Warn("Skipping event")
			}
		}
		result.TeamsCreated += teams
		result.BetsCreated += bets
		s.audit.LogCatalogImport(sport.Name, teams, bets)
	}

	return result, nil
}

var errIncompleteEvent = errors.New("event is missing teams or start time")

// importEvent creates teams and bets for one event, returning how many of each were created
func (s *Syncer) importEvent(ctx context.Context, sport *models.Sport, event *models.Event) (int, int, error) {
	if event.ID == "" || event.HomeTeam == "" || event.AwayTeam == "" || event.CommenceTime.IsZero() {
		return 0, 0, errIncompleteEvent
	}
	market, ok := event.HeadToHead()
	if !ok {
		return 0, 0, fmt.Errorf("no %s market", models.MarketHeadToHead)
	}

	teams, bets := 0, 0
	for _, outcome := range market.Outcomes {
		if outcome.Name == "" {
			continue
		}
		american, err := odds.ToAmerican(outcome.Price)
		if err != nil {
			continue
		}

		team := &models.Team{Name: outcome.Name, SportID: sport.ID, APIID: event.ID + "_" + outcome.Name}
		created, err := s.store.UpsertTeam(ctx, team)
		if err != nil {
			return teams, bets, err
		}
		if created {
			teams++
		}

		_, err = s.store.GetActiveBetByTeam(ctx, team.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return teams, bets, err
		}

		opponent := event.AwayTeam
		if outcome.Name == event.AwayTeam {
			opponent = event.HomeTeam
		}
		commence := event.CommenceTime
		bet := &models.BetRecord{
			TeamID:       team.ID,
			Odds:         american,
			Description:  outcome.Name + " vs " + opponent,
			EventDate:    &commence,
			CommenceTime: &commence,
			Status:       models.BetStatusPending,
			Active:       true,
			SportName:    sport.Name,
		}
		if err := s.store.CreateBet(ctx, bet); err != nil {
			return teams, bets, err
		}
		bets++
	}
	return teams, bets, nil
}
