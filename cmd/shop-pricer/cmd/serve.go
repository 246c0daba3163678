package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/rwxiao/shop-pricer/internal/api/handlers"
	"github.com/rwxiao/shop-pricer/internal/api/middleware"
	"github.com/rwxiao/shop-pricer/internal/metrics"
	"github.com/rwxiao/shop-pricer/internal/notify"
	"github.com/rwxiao/shop-pricer/internal/store"
	"github.com/rwxiao/shop-pricer/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and retention scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	s, err := store.NewSQLiteStore(ctx, cfg.Database.Path, cfg.History.Cap)
	cancel()
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error("closing history store", "error", err)
		}
	}()

	if n, err := s.CountRecords(context.Background()); err == nil {
		metrics.HistorySize.Set(float64(n))
	}

	var notifier notify.Notifier
	if cfg.Notifications.Discord.Enabled {
		notifier = notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
		log.Info("discord loss alerts enabled")
	} else {
		notifier = notify.NewNoOpNotifier(log)
	}

	retention, err := store.NewRetention(s, cfg.History.RetentionInterval, log,
		store.WithPruneCallback(func(evicted, remaining int) {
			metrics.HistoryEvictionsTotal.Add(float64(evicted))
			metrics.HistorySize.Set(float64(remaining))
		}))
	if err != nil {
		return fmt.Errorf("creating retention scheduler: %w", err)
	}
	retention.Start()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())
	e.Use(middleware.RateLimit(cfg.Server.RateLimit.PerSecond, cfg.Server.RateLimit.Burst))

	health := handlers.NewHealthHandler(s)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	humaCfg := huma.DefaultConfig("shop-pricer", Version)
	humaCfg.Info.Description = "Pricing calculators, batch parsing and " +
		"calculation history for Pinduoduo and Douyin sellers."
	api := humaecho.New(e, humaCfg)

	handlers.RegisterCalcRoutes(api, handlers.NewCalcHandler(s, notifier, log))
	handlers.RegisterBatchRoutes(api, handlers.NewBatchHandler(log))
	handlers.RegisterHistoryRoutes(api, handlers.NewHistoryHandler(s))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "db", cfg.Database.Path, "history_cap", cfg.History.Cap)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	// Wait for an in-flight prune run to finish before the store closes.
	<-retention.Stop().Done()

	log.Info("server stopped")
	return nil
}
