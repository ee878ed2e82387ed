package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"example.com/freightdesk/services/forwarding/config"
	"example.com/freightdesk/services/forwarding/internal/database"
	"example.com/freightdesk/services/forwarding/internal/metrics"
	"example.com/freightdesk/services/forwarding/internal/repositories"
	"example.com/freightdesk/services/forwarding/internal/search"
	"example.com/freightdesk/services/forwarding/internal/tracing"
	"example.com/freightdesk/services/forwarding/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that reindexes shipments into Elasticsearch and reconciles accounting entry totals`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	// Configure logging
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Create an error group to manage goroutines
	g, ctx := errgroup.WithContext(ctx)

	// Initialize database connections
	db, readOnlyDB, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}

	// Initialize tracer
	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	}
	defer tracer.Close()

	// Initialize Elasticsearch client
	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search functionality")
	}

	// Initialize metrics
	metricsCollector := metrics.NewMetrics()

	// Initialize the reconciler over the repositories
	reconciler := worker.NewReconciler(
		repositories.NewJobRepository(db, readOnlyDB),
		repositories.NewHouseRepository(db, readOnlyDB),
		repositories.NewAccountingEntryRepository(db, readOnlyDB),
		elasticClient,
		metricsCollector,
	)

	// Run the scheduled jobs until the context is cancelled
	g.Go(func() error {
		log.Info().Msg("Starting background scheduler")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		// Reindex recently updated shipments into Elasticsearch
		_, err = scheduler.NewJob(
			gocron.DurationJob(2*time.Minute),
			gocron.NewTask(func() {
				if err := reconciler.ReindexShipments(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to reindex shipments")
				}
			}),
		)
		if err != nil {
			return err
		}

		// Recompute accounting entry totals from their charge lines
		_, err = scheduler.NewJob(
			gocron.DurationJob(10*time.Minute),
			gocron.NewTask(func() {
				if err := reconciler.ReconcileEntryTotals(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to reconcile entry totals")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
