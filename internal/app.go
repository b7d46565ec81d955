package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	logger_adapter "marketplace-service/internal/adapters/logger"
	postgres_adapter "marketplace-service/internal/adapters/postgres"
	rabbitmq_adapter "marketplace-service/internal/adapters/rabbitmq"
	redis_adapter "marketplace-service/internal/adapters/redis"
	"marketplace-service/internal/adapters/rest"
	"marketplace-service/internal/configs"
	"marketplace-service/internal/core/geo"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/usecase"
	"marketplace-service/pkg/fluentlog"
	"marketplace-service/pkg/postgres"
	"marketplace-service/pkg/rabbitmq/rabbitmq_common"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	connManager  *rabbitmq_common.ConnectionManager
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	listingRecordsListener port.EventListenerPort
	reviewEventsProducer   *rabbitmq_adapter.ReviewEventsProducerAdapter
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlog.NewClient(fluentlog.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- НИЗКОУРОВНЕВЫЕ ЗАВИСИМОСТИ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	if err := postgres.RunMigrations(context.Background(), dbPool, appConfig.Database.MigrationsPath); err != nil {
		appLogger.Error("Failed to run database migrations", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	appLogger.Info("Database migrations applied.", nil)

	listingStorageAdapter, err := postgres_adapter.NewListingStorageAdapter(dbPool)
	if err != nil {
		appLogger.Error("Failed to create listing storage adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create listing storage adapter: %w", err)
	}

	providerStorageAdapter, err := postgres_adapter.NewProviderStorageAdapter(dbPool)
	if err != nil {
		appLogger.Error("Failed to create provider storage adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create provider storage adapter: %w", err)
	}
	appLogger.Info("Postgres storage adapters initialized.", nil)

	// Кэш каталога: опциональный, без него идем сразу в Postgres
	var (
		redisClient    *redis.Client
		directoryCache port.CachePort
	)
	if appConfig.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     appConfig.Redis.Addr,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.DB,
		})
		cacheAdapter, err := redis_adapter.NewDirectoryCacheAdapter(context.Background(), redisClient)
		if err != nil {
			appLogger.Error("Failed to create directory cache adapter", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create directory cache adapter: %w", err)
		}
		directoryCache = cacheAdapter
		appLogger.Info("Redis directory cache initialized.", port.Fields{"addr": appConfig.Redis.Addr})
	}

	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManager, err := rabbitmq_common.NewManager(appConfig.RabbitMQ.URL, rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger))
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	reviewEventsProducer, err := rabbitmq_adapter.NewReviewEventsProducerAdapter(connManager, rabbitmq_adapter.NewPkgLoggerBridge(producerLogger))
	if err != nil {
		appLogger.Error("Failed to create review events producer", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create review events producer: %w", err)
	}
	appLogger.Info("RabbitMQ Review Events Producer initialized.", nil)

	// --- USE CASES ---
	findListingsUseCase := usecase.NewFindListingsUseCase(listingStorageAdapter)
	getListingDetailsUseCase := usecase.NewGetListingDetailsUseCase(listingStorageAdapter)
	getMapViewportUseCase := usecase.NewGetMapViewportUseCase(listingStorageAdapter, geo.Coordinate{
		Lat: appConfig.Map.DefaultCenterLat,
		Lng: appConfig.Map.DefaultCenterLng,
	}, appConfig.Map.DefaultZoom)
	saveListingUseCase := usecase.NewSaveListingUseCase(listingStorageAdapter)

	findProvidersUseCase := usecase.NewFindProvidersUseCase(providerStorageAdapter, directoryCache)
	getProviderUseCase := usecase.NewGetProviderUseCase(providerStorageAdapter)
	submitReviewUseCase := usecase.NewSubmitReviewUseCase(providerStorageAdapter, reviewEventsProducer, findProvidersUseCase)
	recalculateStatsUseCase := usecase.NewRecalculateProviderStatsUseCase(providerStorageAdapter)
	appLogger.Info("All use cases initialized.", nil)

	// --- ВХОДЯЩИЕ АДАПТЕРЫ ---
	consumerLogger := baseLogger.WithFields(port.Fields{"component": "listing_records_consumer"})
	listingRecordsListener, err := rabbitmq_adapter.NewListingRecordsConsumerAdapter(
		connManager,
		saveListingUseCase,
		consumerLogger,
		rabbitmq_adapter.NewPkgLoggerBridge(consumerLogger),
	)
	if err != nil {
		appLogger.Error("Failed to create listing records listener", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Listing Records Listener initialized.", nil)

	// REST API Server
	listingsHandler := rest.NewListingsHandler(findListingsUseCase, getListingDetailsUseCase, getMapViewportUseCase)
	providersHandler := rest.NewProvidersHandler(findProvidersUseCase, getProviderUseCase, submitReviewUseCase, recalculateStatsUseCase)

	apiServer := rest.NewServer(appConfig.Rest.PORT, listingsHandler, providersHandler, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	application := &App{
		config:       appConfig,
		dbPool:       dbPool,
		redisClient:  redisClient,
		connManager:  connManager,
		apiServer:    apiServer,
		fluentClient: fluentClient,
		logger:       appLogger,

		listingRecordsListener: listingRecordsListener,
		reviewEventsProducer:   reviewEventsProducer,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.listingRecordsListener != nil {
			a.listingRecordsListener.Shutdown()
		}

		if a.reviewEventsProducer != nil {
			if err := a.reviewEventsProducer.Close(); err != nil {
				a.logger.Error("Error closing review events producer", err, nil)
			}
		}

		if a.connManager != nil {
			if err := a.connManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection", err, nil)
			}
		}

		if a.redisClient != nil {
			if err := a.redisClient.Close(); err != nil {
				a.logger.Error("Error closing redis client", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Пишем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	if err := a.listingRecordsListener.Start(appCtx); err != nil {
		cancelApp()
		return fmt.Errorf("failed to start listing records listener: %w", err)
	}

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	cancelApp()
	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
