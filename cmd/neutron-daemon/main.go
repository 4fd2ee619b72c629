package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/api"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/clipboard"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/coriolis"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/edsm"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/github"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/grpc"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/journal"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/metrics"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/persistence"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/spansh"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/mediator"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/routecalc"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/tracker"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/config"
	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/database"
	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/pidfile"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	configFlag := flag.String("config", "", "Path to a config file (default: search standard locations)")
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	flag.Parse()

	fmt.Printf("Neutron Assistant Daemon %s\n", Version)
	fmt.Println("==============================")

	cfg := config.MustLoadConfig(*configFlag)
	if _, err := config.EnsureDataDir(); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		if !*forceFlag {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
		fmt.Println("Force mode enabled - stopping the existing daemon...")
		if killErr := pf.KillExisting(); killErr != nil {
			log.Fatalf("Failed to kill existing daemon: %v", killErr)
		}
		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
		}
	}
	runErr := run(cfg)
	if err := pf.Release(); err != nil {
		log.Printf("Warning: failed to release PID file: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Fatal error: %v", runErr)
	}
}

func run(cfg *config.Config) error {
	logger, logCloser, err := logging.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database ready", "type", cfg.Database.Type)

	clock := shared.NewRealClock()
	med := mediator.NewMediator()

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		commandMetrics, err := metrics.Setup()
		if err != nil {
			return fmt.Errorf("failed to set up metrics: %w", err)
		}
		med.Use(metrics.PrometheusMiddleware(commandMetrics))
		metricsHandler = metrics.Handler()
		logger.Info("metrics enabled", "path", cfg.Metrics.Path)
	}

	store, activity, err := restoreState(ctx, db, clock, logger)
	if err != nil {
		return err
	}
	if err := applyStartupPreferences(ctx, store); err != nil {
		logger.Warn("failed to apply saved preferences", "error", err)
	}

	services := cfg.Services
	spanshClient := spansh.NewClient(spansh.Config{
		BaseURL:            services.Spansh.BaseURL,
		UserAgent:          services.UserAgent,
		SimplePollInterval: services.Spansh.SimplePollInterval,
		ExactPollInterval:  services.Spansh.ExactPollInterval,
		MaxPolls:           services.Spansh.MaxPolls,
		SearchCacheTTL:     services.Spansh.SearchCacheTTL,
		Clock:              clock,
	})
	edsmClient := edsm.NewClient(edsm.Config{
		BaseURL:   services.EDSM.BaseURL,
		UserAgent: services.UserAgent,
		CacheTTL:  services.EDSM.CacheTTL,
		Clock:     clock,
	})
	coriolisClient := coriolis.NewClient(coriolis.Config{
		ConvertURL: services.Coriolis.ConvertURL,
		FSDDataURL: services.Coriolis.FSDDataURL,
		UserAgent:  services.UserAgent,
		Clock:      clock,
	})
	githubClient := github.NewClient(github.Config{
		BaseURL:   services.GitHub.BaseURL,
		Repo:      services.GitHub.Repo,
		UserAgent: services.UserAgent,
	})

	journalDir := cfg.Journal.Directory
	if journalDir == "" {
		journalDir = journal.DefaultDirectory()
	}
	logger.Info("reading game logs", "directory", journalDir)

	var clip tracker.Clipboard = clipboard.System{}
	if !(clipboard.System{}).Available() {
		logger.Warn("no clipboard utility found; copied systems are only logged")
		clip = clipboard.NewRecorder()
	}

	calculator := routecalc.NewCalculator(store, persistence.NewGormRouteCacheRepository(db, clock), activity, clock)
	if err := routecalc.RegisterHandlers(med, routecalc.Dependencies{
		Store:         store,
		Calculator:    calculator,
		SimplePlanner: spanshClient,
		ExactPlanner:  spanshClient,
		FSDCatalog:    coriolisClient,
		Searcher:      spanshClient,
		LogReader:     activity,
		Linker:        coriolis.Linker{},
		Logger:        activity,
	}); err != nil {
		return err
	}

	poller := tracker.NewPoller(
		journal.NewReader(journalDir),
		tracker.NewTicker(edsmClient, coriolisClient),
		store,
		clip,
		activity,
		clock,
		cfg.Poller.Interval,
	)

	server := api.NewServer(med, githubClient, api.ServerConfig{
		Address:         cfg.Daemon.Address,
		Version:         Version,
		MetricsPath:     cfg.Metrics.Path,
		MetricsHandler:  metricsHandler,
		ShutdownTimeout: cfg.Daemon.ShutdownTimeout,
	}, logger)

	health, err := grpc.NewHealthServer(cfg.Daemon.SocketPath, poller, clock, logger)
	if err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("stop requested, finishing current poll")
		store.SetExiting()
		return nil
	})
	group.Go(func() error {
		poller.Run(context.WithoutCancel(groupCtx))
		return nil
	})
	group.Go(func() error {
		return server.ListenAndServe(groupCtx)
	})
	group.Go(func() error {
		return health.Serve(groupCtx)
	})

	logger.Info("daemon started", "version", Version, "address", cfg.Daemon.Address, "health_socket", cfg.Daemon.SocketPath)
	err = group.Wait()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	if shutdownErr := calculator.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("abandoning route calculation", "error", shutdownErr)
	}
	if persistErr := store.Persist(context.Background()); persistErr != nil {
		logger.Error("failed to persist state", "error", persistErr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// restoreState loads the last saved assistant state with auto copy switched off
func restoreState(ctx context.Context, db *gorm.DB, clock shared.Clock, logger *slog.Logger) (*tracker.Store, *persistence.GormActivityLogRepository, error) {
	stateRepo := persistence.NewGormAssistantStateRepository(db, clock, logger)
	state, err := stateRepo.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load assistant state: %w", err)
	}
	state.Restore()
	return tracker.NewStore(state, stateRepo), persistence.NewGormActivityLogRepository(db, clock, logger), nil
}

func applyStartupPreferences(ctx context.Context, store *tracker.Store) error {
	handler, err := config.NewUserConfigHandler("")
	if err != nil {
		return err
	}
	prefs, err := handler.Load()
	if err != nil {
		return err
	}
	snapshot := store.Snapshot()
	if !prefs.AutoCopyOnStart || !snapshot.HasRoute() {
		return nil
	}
	_, err = store.Update(ctx, func(state *assistant.State) error {
		state.SetRunning(true)
		return nil
	})
	return err
}
