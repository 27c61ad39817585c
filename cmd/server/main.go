package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/foresight/internal/clients/yahoo"
	"github.com/aristath/foresight/internal/config"
	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/modules/aggregation"
	"github.com/aristath/foresight/internal/modules/aggregation/models"
	"github.com/aristath/foresight/internal/modules/economic"
	"github.com/aristath/foresight/internal/modules/indicators"
	"github.com/aristath/foresight/internal/modules/rebalancing"
	"github.com/aristath/foresight/internal/modules/risk"
	"github.com/aristath/foresight/internal/modules/snapshots"
	"github.com/aristath/foresight/internal/scheduler"
	"github.com/aristath/foresight/internal/server"
	"github.com/aristath/foresight/pkg/logger"
)

func main() {
	// Load configuration first so the log level is honored from startup
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true, Service: "foresight"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.DevMode,
		Service: "foresight",
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Foresight")

	// Snapshot database for the scheduled analytics captures
	snapshotsDB, err := database.New(database.Config{
		Path:    cfg.DataDir + "/snapshots.db",
		Profile: database.ProfileArchive,
		Name:    "snapshots",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshots database")
	}
	defer snapshotsDB.Close()

	snapshotRepo, err := snapshots.NewRepository(snapshotsDB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshot repository")
	}

	// Analytics modules
	riskCalc := risk.NewCalculator(cfg.RiskFreeRate, log)
	indicatorCalc := indicators.NewCalculator(log)

	analyzer, err := economic.NewAnalyzer(economic.DefaultConfig(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize economic analyzer")
	}

	engine := rebalancing.NewEngine(0, 0, 0, log)

	// Prediction models from configuration
	weighted := make([]aggregation.WeightedModel, 0, len(cfg.Models))
	for _, mw := range cfg.Models {
		weighted = append(weighted, aggregation.WeightedModel{
			Model:  models.New(mw.Name, indicatorCalc, log),
			Weight: mw.Weight,
		})
	}

	aggregator, err := aggregation.NewAggregator(weighted, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid model weight configuration")
	}

	// Background snapshot job
	yahooClient := yahoo.NewClient(0, log)
	sched := scheduler.New(log)
	snapshotJob := scheduler.NewSnapshotJob(
		cfg.Symbols,
		cfg.HistoryPeriod,
		yahooClient,
		riskCalc,
		indicatorCalc,
		analyzer,
		nil,
		snapshotRepo,
		log,
	)

	if err := sched.AddJob(cfg.SnapshotCron, snapshotJob); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.SnapshotCron).Msg("Failed to register snapshot job")
	}

	maintenanceJob := scheduler.NewMaintenanceJob(cfg.RetentionDays, snapshotRepo, snapshotsDB, log)
	if err := sched.AddJob(cfg.MaintenanceCron, maintenanceJob); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.MaintenanceCron).Msg("Failed to register maintenance job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:         log,
		Port:        cfg.Port,
		DevMode:     cfg.DevMode,
		SnapshotsDB: snapshotsDB,

		RiskCalculator:      riskCalc,
		IndicatorCalculator: indicatorCalc,
		EconomicAnalyzer:    analyzer,
		RebalancingEngine:   engine,
		Aggregator:          aggregator,
		SnapshotRepo:        snapshotRepo,

		Scheduler:   sched,
		SnapshotJob: snapshotJob,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
