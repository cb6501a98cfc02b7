package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/finplan/advisor-service/internal/auth"
	"github.com/finplan/advisor-service/internal/catalog"
	"github.com/finplan/advisor-service/internal/config"
	"github.com/finplan/advisor-service/internal/handler"
	"github.com/finplan/advisor-service/internal/handoff"
	"github.com/finplan/advisor-service/internal/planner"
	"github.com/finplan/advisor-service/internal/profile"
	"github.com/finplan/advisor-service/internal/report"
	"github.com/finplan/advisor-service/internal/service"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load the persona catalog
	cat, err := catalog.Load()
	if err != nil {
		logger.Fatalf("Failed to load persona catalog: %v", err)
	}

	// Initialize layers
	drafts := profile.NewStore(profile.DefaultIdleTTL, logger)
	plans := handoff.NewStore(handoff.DefaultGrace, handoff.DefaultTTL, logger)
	engine := planner.NewClient(cfg, logger)
	provider := auth.NewClient(cfg, logger)
	mailer := report.NewMailer(cfg, logger)

	svc := service.NewService(drafts, plans, engine, cat, mailer, logger)
	h := handler.NewHandler(svc, provider, cfg, logger)

	// Background eviction for idle drafts and unconsumed plans
	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@every 5m", func() {
		drafts.Sweep()
		plans.Sweep()
	}); err != nil {
		logger.Fatalf("Failed to schedule sweeps: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
