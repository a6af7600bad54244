package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andy/billbook/internal/config"
	"github.com/andy/billbook/internal/crypto"
	"github.com/andy/billbook/internal/db"
	"github.com/andy/billbook/internal/export"
	"github.com/andy/billbook/internal/logging"
	"github.com/andy/billbook/internal/repository"
	"github.com/andy/billbook/internal/service"
	"github.com/andy/billbook/internal/storage"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Logger *zap.Logger

	// Backend handles; only the one selected by store.backend is set
	DB    *db.DB
	Redis *redis.Client
	Store storage.Store

	// Repositories
	InvoiceRepo repository.InvoiceRepository
	CompanyRepo repository.CompanyRepository

	// Services
	InvoiceService service.InvoiceService
	SummaryService service.SummaryService
	Exporter       *export.Exporter
}

// New loads the default config and builds the App from it
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing).
// It handles:
// 1. Creating directories and the logger
// 2. Opening the configured store (asking for a password on first SQLite run)
// 3. Creating repositories and services
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &App{Config: cfg, Logger: logger}
	if err := a.openStore(ctx); err != nil {
		_ = logger.Sync()
		return nil, err
	}

	a.wire()
	logger.Debug("app ready", zap.String("backend", cfg.Store.Backend))
	return a, nil
}

// NewWithStore builds an App over an existing store, skipping backend setup
func NewWithStore(cfg *config.Config, store storage.Store, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Store: store}
	a.wire()
	return a
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config

	switch cfg.Store.Backend {
	case config.BackendSQLite:
		password, err := encryptionKey()
		if err != nil {
			return err
		}
		database, err := db.Open(ctx, cfg.Database.Path, password, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		a.DB = database
		a.Store = storage.NewSQLiteStore(database)

	case config.BackendRedis:
		client, err := storage.ConnectRedis(ctx, cfg.Store.RedisAddr)
		if err != nil {
			return err
		}
		a.Redis = client
		a.Store = storage.NewRedisStore(client, cfg.Store.RedisPrefix)

	case config.BackendMemory:
		a.Logger.Warn("using in-memory store, nothing will be kept after exit")
		a.Store = storage.NewMemoryStore()

	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	return nil
}

func (a *App) wire() {
	cfg := a.Config

	a.InvoiceRepo = repository.NewInvoiceRepo(a.Store, a.Logger.Named("invoices"))
	a.CompanyRepo = repository.NewCompanyRepo(a.Store, a.Logger.Named("company"))

	a.InvoiceService = service.NewInvoiceService(a.InvoiceRepo, service.Defaults{
		NumberPrefix: cfg.Invoice.NumberPrefix,
		TaxRate:      decimal.NewFromFloat(cfg.Invoice.DefaultTaxRate),
	}, a.Logger.Named("service"))
	a.SummaryService = service.NewSummaryService(a.InvoiceRepo)
	a.Exporter = export.NewExporter(
		a.InvoiceRepo,
		a.CompanyRepo,
		export.NewPDFRenderer(cfg.Invoice.Currency),
		cfg.Invoice.OutputDir,
		cfg.Invoice.Currency,
		a.Logger.Named("export"),
	)
}

// encryptionKey returns the stored database key, prompting for a new one on
// first run
func encryptionKey() (string, error) {
	keyring := crypto.NewKeyring()

	password, err := keyring.GetKey()
	if err == nil {
		return password, nil
	}

	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}

	if err := keyring.SetKey(password); err != nil {
		return "", fmt.Errorf("failed to store encryption key: %w", err)
	}
	return password, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.Logger != nil {
		// syncing stdout/stderr fails on some platforms; nothing to do about it
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
