package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/paperiq/paperiq-api/internal/analyzer"
	"github.com/paperiq/paperiq-api/internal/config"
	"github.com/paperiq/paperiq-api/internal/platform/filedoc"
	"github.com/paperiq/paperiq-api/internal/platform/logger"
	"github.com/paperiq/paperiq-api/internal/service"
	"github.com/paperiq/paperiq-api/internal/service/auth"
	"github.com/paperiq/paperiq-api/internal/store"
)

// application holds the initialized components and dependencies of the server.
// It is the composition root: everything is wired here and handed to the
// router and HTTP server.
type application struct {
	config *config.Config
	logger *slog.Logger

	accountStore store.AccountStore
	historyStore store.HistoryStore

	jwtService      auth.JWTService
	analysisService service.AnalysisService
}

// newApplication loads configuration, sets up logging and wires the stores
// and services together. Returns an error if any component fails to
// initialize; nothing is half-started.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_dir", cfg.Storage.Dir)

	docs, err := filedoc.New(
		cfg.Storage.Dir,
		time.Duration(cfg.Storage.LockTimeoutSeconds)*time.Second,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	verifier := auth.NewBcryptVerifier()

	accountStore := filedoc.NewAccountStore(docs, hasher, verifier)
	historyStore := filedoc.NewHistoryStore(docs)

	engine := analyzer.NewHTTPClient(cfg.Analyzer)
	analysisService := service.NewAnalysisService(engine, historyStore)

	return &application{
		config:          cfg,
		logger:          log,
		accountStore:    accountStore,
		historyStore:    historyStore,
		jwtService:      jwtService,
		analysisService: analysisService,
	}, nil
}
