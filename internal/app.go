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
	"sync"
	"syscall"
	"time"

	"listing-service/internal/adapters/cache"
	logger_adapter "listing-service/internal/adapters/logger"
	"listing-service/internal/adapters/memory"
	postgres_adapter "listing-service/internal/adapters/postgres"
	rabbitmq_adapter "listing-service/internal/adapters/rabbitmq"
	"listing-service/internal/adapters/rest"
	"listing-service/internal/configs"
	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
	"listing-service/internal/core/usecase"
	fluentlogger "listing-service/pkg/fluent_logger"
	"listing-service/pkg/postgres"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// storageSet - порты хранилища, общие для обоих бэкендов
type storageSet struct {
	listings  port.ListingStoragePort
	favorites port.FavoritesRepositoryPort
	leads     port.LeadRepositoryPort
	stats     port.DashboardStatsPort
	reviews   port.ReviewRepositoryPort
	analytics port.AnalyticsPort
}

// cacheStatsReporter - бэкенды кеша, которые считают попадания
type cacheStatsReporter interface {
	Stats() (hits, misses int64)
}

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	replicaID    string
	dbPool       *pgxpool.Pool
	cache        port.CachePort
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	connManager               *rabbitmq_common.ConnectionManager
	listingEventsProducer     *rabbitmq_producer.Publisher
	cacheInvalidationListener port.EventListenerPort
}

// NewApp - composition root: здесь создаются и связываются все зависимости
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{
		config:    appConfig,
		replicaID: uuid.New().String(),
	}

	// --- 1. ЛОГГЕРЫ ---
	baseLogger, err := app.initLoggers()
	if err != nil {
		return nil, err
	}
	baseLogger = baseLogger.WithFields(port.Fields{"replica_id": app.replicaID})
	app.logger = baseLogger.WithFields(port.Fields{"component": "app"})

	// контекст инициализации, чтобы адаптеры логировали через наш логгер
	initCtx := contextkeys.ContextWithLogger(context.Background(), baseLogger)

	// --- 2. ХРАНИЛИЩЕ ---
	storage, err := app.initStorage(initCtx)
	if err != nil {
		app.closeResources()
		return nil, err
	}

	// --- 3. КЕШ ---
	if err := app.initCache(initCtx); err != nil {
		app.closeResources()
		return nil, err
	}

	// --- 4. БРОКЕР (необязательный) ---
	var listingEvents port.ListingEventsPort
	if appConfig.RabbitMQ.Enabled {
		listingEvents, err = app.initPublisher(baseLogger)
		if err != nil {
			app.closeResources()
			return nil, err
		}
	} else {
		app.logger.Info("RabbitMQ disabled, listing changes stay local to this replica.", nil)
	}

	// --- 5. USE CASES ---
	notifier := usecase.NewListingChangeNotifier(app.cache, listingEvents, app.replicaID)
	listings := storage.listings

	handlers := rest.Handlers{
		Search: rest.NewSearchHandler(
			usecase.NewProximitySearchUseCase(listings, app.cache),
			usecase.NewStatusSearchUseCase(listings, app.cache),
			usecase.NewAdvancedSearchUseCase(listings),
			usecase.NewTextSearchUseCase(listings),
			usecase.NewSuggestionsUseCase(listings),
			usecase.NewAvailableFiltersUseCase(listings),
		),
		Listings: rest.NewListingHandler(
			usecase.NewGetListingDetailsUseCase(listings, listings),
			usecase.NewRecentListingsUseCase(listings, app.cache),
			usecase.NewNeighborhoodListingsUseCase(listings, app.cache),
			usecase.NewSimilarListingsUseCase(listings),
		),
		Favorites: rest.NewFavoritesHandler(
			usecase.NewAddToFavoritesUseCase(listings, storage.favorites),
			usecase.NewRemoveFromFavoritesUseCase(storage.favorites),
			usecase.NewGetUserFavoritesUseCase(storage.favorites),
			usecase.NewIsFavoriteUseCase(storage.favorites),
		),
		Leads: rest.NewLeadHandler(
			usecase.NewCreateLeadUseCase(listings, storage.leads),
			usecase.NewListLeadsUseCase(storage.leads),
			usecase.NewUpdateLeadStatusUseCase(storage.leads),
			usecase.NewDeleteLeadUseCase(storage.leads),
		),
		Admin: rest.NewAdminHandler(
			usecase.NewCreateListingUseCase(listings, notifier),
			usecase.NewUpdateListingUseCase(listings, notifier),
			usecase.NewDeleteListingUseCase(listings, notifier),
			usecase.NewConfigurePromotionUseCase(listings, notifier),
			usecase.NewDashboardStatsUseCase(storage.stats),
		),
		Reports: rest.NewReportsHandler(
			usecase.NewViewsReportUseCase(storage.analytics),
			usecase.NewLeadConversionReportUseCase(storage.analytics),
			usecase.NewNeighborhoodReportUseCase(storage.analytics),
			usecase.NewRevenueReportUseCase(storage.analytics),
		),
		Reviews: rest.NewReviewHandler(
			usecase.NewUpsertReviewUseCase(listings, storage.reviews),
			usecase.NewListListingReviewsUseCase(storage.reviews),
			usecase.NewReviewStatsUseCase(storage.reviews),
			usecase.NewGetUserReviewsUseCase(storage.reviews),
			usecase.NewDeleteReviewUseCase(storage.reviews),
		),
	}
	app.logger.Info("All use cases initialized.", nil)

	// --- 6. ВХОДЯЩИЕ АДАПТЕРЫ ---
	if appConfig.RabbitMQ.Enabled {
		invalidateUseCase := usecase.NewInvalidateListingCacheUseCase(app.cache, app.replicaID)
		consumerCfg := rabbitmq_adapter.CacheInvalidationConsumerConfig(appConfig.RabbitMQ.URL, appConfig.AppName+"-"+app.replicaID)
		listener, err := rabbitmq_adapter.NewCacheInvalidationConsumerAdapter(consumerCfg, invalidateUseCase, baseLogger, app.connManager)
		if err != nil {
			app.logger.Error("Failed to create cache invalidation listener", err, nil)
			app.closeResources()
			return nil, err
		}
		app.cacheInvalidationListener = listener
		app.logger.Info("Cache invalidation listener initialized.", nil)
	}

	app.apiServer = rest.NewServer(appConfig.Rest.PORT, handlers, appConfig.Rest.CORSAllowedOrigins, baseLogger)
	app.logger.Info("REST API server configured.", nil)

	return app, nil
}

func (a *App) initLoggers() (port.LoggerPort, error) {
	cfg := a.config
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.IsJSON,
		UseColor: !cfg.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if cfg.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, cfg.AppName, parseLogLevel(cfg.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			_ = fluentClient.Close()
			return nil, err
		}
		a.fluentClient = fluentClient
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	baseLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": cfg.FluentBit.Enabled,
	})
	return baseLogger, nil
}

func (a *App) initStorage(ctx context.Context) (*storageSet, error) {
	cfg := a.config

	if cfg.Storage.Backend == configs.StorageBackendMemory {
		store := memory.NewStore()
		if cfg.Storage.SeedFile != "" {
			seeded, err := memory.LoadSeedFile(cfg.Storage.SeedFile)
			if err != nil {
				a.logger.Error("Failed to load seed file", err, port.Fields{"path": cfg.Storage.SeedFile})
				return nil, fmt.Errorf("failed to load seed file: %w", err)
			}
			store = seeded
		}
		a.logger.Warn("Using in-memory storage, data is lost on restart.", nil)
		return &storageSet{
			listings:  store.Listings(),
			favorites: store.Favorites(),
			leads:     store.Leads(),
			stats:     store,
			reviews:   store.Reviews(),
			analytics: store.Analytics(),
		}, nil
	}

	if cfg.Database.Migrate {
		if err := postgres_adapter.RunMigrations(cfg.Database.URL); err != nil {
			a.logger.Error("Failed to apply migrations", err, nil)
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		a.logger.Info("Database migrations applied.", nil)
	}

	dbPool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: cfg.Database.URL})
	if err != nil {
		a.logger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.dbPool = dbPool
	a.logger.Info("Successfully connected to PostgreSQL pool!", nil)

	listingRepository, err := postgres_adapter.NewListingRepository(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres listing repository: %w", err)
	}
	favoritesRepository, err := postgres_adapter.NewPostgresFavoritesRepository(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres favorites repository: %w", err)
	}
	leadRepository, err := postgres_adapter.NewPostgresLeadRepository(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres lead repository: %w", err)
	}
	reviewRepository, err := postgres_adapter.NewPostgresReviewRepository(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres review repository: %w", err)
	}
	analyticsRepository, err := postgres_adapter.NewPostgresAnalyticsRepository(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres analytics repository: %w", err)
	}
	a.logger.Info("Postgres storage adapters initialized.", nil)

	return &storageSet{
		listings:  listingRepository,
		favorites: favoritesRepository,
		leads:     leadRepository,
		stats:     listingRepository,
		reviews:   reviewRepository,
		analytics: analyticsRepository,
	}, nil
}

// initCache оставляет a.cache равным nil для бэкенда none
func (a *App) initCache(ctx context.Context) error {
	cfg := a.config.Cache

	switch cfg.Backend {
	case configs.CacheBackendRedis:
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, OpTimeout: cfg.OpTimeout})
		if err != nil {
			a.logger.Error("Failed to create redis cache", err, nil)
			return fmt.Errorf("failed to create redis cache: %w", err)
		}
		a.cache = redisCache
	case configs.CacheBackendMemory:
		a.cache = cache.NewMemoryCache(time.Minute)
	default:
		a.logger.Info("Cache disabled, every read goes to storage.", nil)
		return nil
	}

	a.logger.Info("Cache initialized.", port.Fields{"backend": cfg.Backend})
	return nil
}

func (a *App) initPublisher(baseLogger port.LoggerPort) (port.ListingEventsPort, error) {
	cfg := a.config.RabbitMQ

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: cfg.URL}, connManagerBridge)
	if err != nil {
		a.logger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager
	a.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: cfg.URL},
		ExchangeName:             constants.ListingEventsExchange,
		ExchangeType:             constants.ListingEventsExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		a.logger.Error("Failed to create listing events producer", err, nil)
		return nil, fmt.Errorf("failed to create listing events producer: %w", err)
	}
	a.listingEventsProducer = producer

	publisher, err := rabbitmq_adapter.NewListingEventsPublisherAdapter(producer, constants.RoutingKeyListingChanged)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Listing events publisher initialized.", nil)
	return publisher, nil
}

// Run запускает компоненты и блокируется до сигнала ОС или отказа компонента
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	errorsCh := make(chan error, 2)

	a.logger.Info("Application is starting...", nil)

	if a.cacheInvalidationListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Cache Invalidation Listener"})
			listenerLogger.Info("Starting listener...", nil)

			if err := a.cacheInvalidationListener.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				errorsCh <- fmt.Errorf("cache invalidation listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
		runErr = err
	}

	a.logger.Info("Shutdown sequence initiated...", nil)

	// сначала перестаем принимать запросы, потом гасим слушателей и ресурсы
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancelShutdown()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	cancelApp()
	a.logger.Info("Waiting for background processes to finish...", nil)
	wg.Wait()
	a.logger.Info("All background processes finished.", nil)

	a.closeResources()
	return runErr
}

// closeResources закрывает все, что успело создаться. Безопасна при частичной инициализации.
func (a *App) closeResources() {
	if a.cacheInvalidationListener != nil {
		if err := a.cacheInvalidationListener.Close(); err != nil {
			a.logger.Error("Error closing cache invalidation listener", err, nil)
		}
	}
	if a.listingEventsProducer != nil {
		if err := a.listingEventsProducer.Close(); err != nil {
			a.logger.Error("Error closing listing events producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.cache != nil {
		if reporter, ok := a.cache.(cacheStatsReporter); ok {
			hits, misses := reporter.Stats()
			a.logger.Info("Cache statistics", port.Fields{"hits": hits, "misses": misses})
		}
		if err := a.cache.Close(); err != nil {
			a.logger.Error("Error closing cache", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен, пишем в stdout
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
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
