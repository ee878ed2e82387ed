package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/freightdesk/services/forwarding/config"
	"example.com/freightdesk/services/forwarding/internal/api"
	"example.com/freightdesk/services/forwarding/internal/cache"
	"example.com/freightdesk/services/forwarding/internal/database"
	"example.com/freightdesk/services/forwarding/internal/inflight"
	"example.com/freightdesk/services/forwarding/internal/messaging"
	"example.com/freightdesk/services/forwarding/internal/metrics"
	"example.com/freightdesk/services/forwarding/internal/repositories"
	"example.com/freightdesk/services/forwarding/internal/search"
	"example.com/freightdesk/services/forwarding/internal/services"
	"example.com/freightdesk/services/forwarding/internal/tracing"
	"example.com/freightdesk/services/forwarding/internal/transfer"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for jobs, house bills, arrival notices and accounting entries`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
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

	// Initialize database connections
	db, readOnlyDB, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}

	// Initialize cache
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	// Initialize tracer
	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	}

	// Initialize Elasticsearch client
	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search functionality")
	}

	// Initialize event publisher; a nil publisher is a valid no-op
	publisher, err := messaging.NewServiceBusPublisher(cfg.Azure)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Service Bus publisher, continuing without events")
	}
	defer publisher.Close()

	// Initialize metrics and shared state
	metricsCollector := metrics.NewMetrics()
	guard := inflight.NewGuard()
	slots := transfer.NewStore(redisCache)

	// Initialize repositories and services
	pageSize := cfg.Listing.DefaultPageSize
	jobRepo := repositories.NewJobRepository(db, readOnlyDB)
	houseRepo := repositories.NewHouseRepository(db, readOnlyDB)
	noticeRepo := repositories.NewArrivalNoticeRepository(db, readOnlyDB)
	entryRepo := repositories.NewAccountingEntryRepository(db, readOnlyDB)

	svcs := api.Services{
		Jobs:    services.NewJobService(jobRepo, guard, slots, redisCache, publisher, metricsCollector, pageSize),
		Houses:  services.NewHouseService(houseRepo, guard, slots, publisher, metricsCollector, pageSize),
		Notices: services.NewArrivalNoticeService(noticeRepo, guard, slots, publisher, metricsCollector, pageSize),
		Entries: services.NewAccountingEntryService(entryRepo, guard, slots, publisher, metricsCollector, pageSize),
	}

	// Initialize and start the server
	server := api.NewServer(cfg, svcs, elasticClient, metricsCollector, tracer)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	// Shutdown the server
	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}
