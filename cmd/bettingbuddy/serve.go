package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/catalog"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/metrics"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/notify"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/scheduler"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/server"
)

const catalogJobTimeout = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the odds refresh loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"driver":      cfg.Database.Driver,
		"version":     Version,
	}).Info("BettingBuddy starting")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	a, err := openApp(ctx, cfg, appLog, cfg.OddsAPI.APIKey != "")
	if err != nil {
		return err
	}
	defer a.close()
	if a.provider == nil {
		appLog.Warn("No odds API key configured; refresh and catalog sync are disabled")
	}

	refresher := a.refreshScheduler(cfg)

	hub := notify.NewHub(appLog, cfg.Server.AllowedOrigins)
	defer hub.Close()
	refresher.Observers().Register("websocket", hub.Observer())
	if cfg.Metrics.Enabled {
		refresher.Observers().Register("metrics", notify.MetricsObserver())
	}

	if cfg.Redis.Enabled {
		client, err := notify.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher := notify.NewStreamPublisher(client, cfg.Redis.Stream, cfg.Redis.MaxLength)
		refresher.Observers().Register("redis", publisher.Observer())
	}

	jobs := scheduler.NewScheduler(appLog)
	if cfg.Catalog.Enabled && a.provider != nil {
		syncer := catalog.NewSyncer(a.store, a.provider, appLog, cfg.Catalog.Sports...)
		err := jobs.Schedule("catalog_sync", cfg.Catalog.Schedule, catalogJobTimeout, func(ctx context.Context) error {
			_, err := syncer.Sync(ctx)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to schedule catalog sync: %w", err)
		}
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	srv := server.New(server.Config{
		ServiceName:    cfg.App.Name,
		Version:        Version,
		Address:        cfg.Server.Address,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsPath:    metricsPath,
	}, server.Dependencies{
		Store:     a.store,
		Engine:    newEngine(cfg.Recommend),
		Strategy:  newStrategy(cfg.Value),
		Refresher: refresher,
		Websocket: hub,
	}, appLog)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})

	if cfg.Refresh.Enabled && a.provider != nil {
		refresher.Start(cfg.Refresh.Interval())
		g.Go(func() error {
			<-gctx.Done()
			refresher.Stop()
			return nil
		})
	}

	if err := jobs.Start(); err == nil {
		g.Go(func() error {
			<-gctx.Done()
			jobs.Stop()
			return nil
		})
	}

	srv.SetReady(true)
	err = g.Wait()
	appLog.Info("BettingBuddy stopped")
	return err
}
