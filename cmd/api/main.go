package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moneytrail/ledger/internal/domain/port/core"
	"github.com/moneytrail/ledger/internal/domain/port/persistence"
	"github.com/moneytrail/ledger/internal/domain/usecase/importer"
	"github.com/moneytrail/ledger/internal/domain/usecase/ledger"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/api/handler"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/api/routes"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/database"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/feed"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/logger"
	"github.com/moneytrail/ledger/internal/infrastructure/adapter/repository"
	timeProvider "github.com/moneytrail/ledger/internal/infrastructure/adapter/time"
	"github.com/moneytrail/ledger/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	appLogger.SetLevel(parseLogLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	loc, err := time.LoadLocation(cfg.Ledger.Timezone)
	if err != nil {
		appLogger.Error("Invalid ledger timezone", map[string]any{
			"timezone": cfg.Ledger.Timezone,
			"error":    err.Error(),
		})
		os.Exit(1)
	}

	tp := timeProvider.NewRealTimeProvider()

	// Select the storage driver
	var repo persistence.TransactionRepository
	var closeDB func() error

	switch cfg.Database.Driver {
	case "memory":
		appLogger.Warn("Using in-memory storage, data will not survive restarts", nil)
		repo = repository.NewMemoryTransactionRepository()
	default:
		conn, err := database.NewConnection(&database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Username:        cfg.Database.Username,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.Database,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			QueryTimeout:    cfg.Database.QueryTimeout,
			LogLevel:        cfg.Logger.Level,
		})
		if err != nil {
			appLogger.Error("Failed to connect to database", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		if err := conn.Migrate(); err != nil {
			appLogger.Error("Failed to run migrations", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		repo = repository.NewTransactionRepository(conn.DB, appLogger)
		closeDB = conn.Close
	}
	if closeDB != nil {
		defer func() {
			if err := closeDB(); err != nil {
				appLogger.Error("Failed to close database", map[string]any{
					"error": err.Error(),
				})
			}
		}()
	}

	// Wire the ledger core
	checker := ledger.NewChecker(cfg.Ledger.DailyExpenseLimit, loc)
	coordinator := ledger.NewCoordinator(repo, checker, tp, appLogger, loc)
	assembler := ledger.NewAssembler(cfg.Ledger.PageSize, loc)
	ledgerService := ledger.NewService(coordinator, assembler, appLogger)

	// Wire the feed importer
	feedClient := feed.NewHTTPClient(cfg.Ledger.FeedURL, cfg.Ledger.FeedTimeout, appLogger)
	feedImporter := importer.NewImporter(feedClient, coordinator, repo, appLogger, loc)

	transactionHandler := handler.NewTransactionHandler(ledgerService, appLogger, loc)
	importHandler := handler.NewImportHandler(feedImporter, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, transactionHandler, importHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port":        cfg.Server.Port,
			"env":         cfg.Environment,
			"daily_limit": cfg.Ledger.DailyExpenseLimit,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// parseLogLevel maps the configured level name to the logger port's level
func parseLogLevel(level string) core.LogLevel {
	switch level {
	case "debug":
		return core.LogLevelDebug
	case "warn":
		return core.LogLevelWarn
	case "error":
		return core.LogLevelError
	default:
		return core.LogLevelInfo
	}
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missing []string

	if cfg.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missing = append(missing, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missing = append(missing, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missing = append(missing, "server.shutdownTimeout")
	}

	if cfg.Database.Driver != "memory" {
		if cfg.Database.Host == "" {
			missing = append(missing, "database.host (or MT_DB_HOST environment variable)")
		}
		if cfg.Database.Username == "" {
			missing = append(missing, "database.username (or MT_DB_USERNAME environment variable)")
		}
		if cfg.Database.Database == "" {
			missing = append(missing, "database.database (or MT_DB_NAME environment variable)")
		}
	}

	if cfg.Ledger.DailyExpenseLimit <= 0 {
		missing = append(missing, "ledger.dailyExpenseLimit")
	}
	if cfg.Ledger.Timezone == "" {
		missing = append(missing, "ledger.timezone")
	}
	if cfg.Ledger.FeedURL == "" {
		missing = append(missing, "ledger.feedUrl")
	}

	if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configurations: %v", missing)
	}

	return nil
}
