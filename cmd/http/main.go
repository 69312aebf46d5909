package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/notification"
	"github.com/fekuna/omnipos-storefront/internal/order"
	"github.com/fekuna/omnipos-storefront/internal/pkg/broker"
	"github.com/fekuna/omnipos-storefront/internal/pkg/cache"
	"github.com/fekuna/omnipos-storefront/internal/pkg/database/postgres"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/pkg/middleware"
	"github.com/fekuna/omnipos-storefront/internal/pkg/search"

	catH "github.com/fekuna/omnipos-storefront/internal/catalog/handler"
	catRepoPkg "github.com/fekuna/omnipos-storefront/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-storefront/internal/catalog/usecase"

	deliveryH "github.com/fekuna/omnipos-storefront/internal/delivery/handler"

	notifyListenerPkg "github.com/fekuna/omnipos-storefront/internal/notification/listener"

	orderH "github.com/fekuna/omnipos-storefront/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-storefront/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-storefront/internal/order/usecase"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.RunMigrations {
		if err := postgres.RunMigrations(db); err != nil {
			appLogger.Fatal("Could not run migrations", zap.Error(err))
		}
		appLogger.Info("Database migrations applied")
	}

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis. The catalog works without it, only slower.
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var limiter middleware.Limiter
	if err != nil {
		appLogger.Warn("Could not connect to Redis (caching and rate limiting disabled)", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		limiter = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5.5 Initialize Elasticsearch
	var searchEngine catalog.SearchEngine
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (search falls back to the database)", zap.Error(err))
		} else {
			searchEngine = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 5.8 Initialize Telegram
	var sender notification.Sender
	tgSender, err := notification.NewTelegramSender(&notification.TelegramConfig{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
	}, appLogger)
	if err != nil {
		appLogger.Warn("Order notifications disabled", zap.Error(err))
	} else {
		sender = tgSender
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. Initialize Notifier. With Kafka the send happens in the listener.
	var notifier order.Notifier
	if sender != nil {
		if cfg.Kafka.Enabled {
			kafkaCfg := &broker.Config{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.Topic,
				GroupID: cfg.Kafka.GroupID,
			}

			producer := broker.NewProducer(kafkaCfg)
			defer producer.Close()
			notifier = notification.NewEventNotifier(producer)

			consumer := broker.NewConsumer(kafkaCfg)
			defer consumer.Close()
			orderListener := notifyListenerPkg.NewOrderListener(consumer, sender, appLogger)
			go orderListener.Start(ctx)

			appLogger.Info("Order notifications via Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
		} else {
			notifier = notification.NewDirectNotifier(sender)
		}
	}

	// 7. Initialize UseCases
	catUC := catUCPkg.NewCatalogUseCase(catRepo, redisClient, searchEngine, catUCPkg.Options{
		Index:      cfg.Elastic.Index,
		ListTTL:    cfg.Catalog.ListCacheTTL,
		FiltersTTL: cfg.Catalog.FiltersCacheTTL,
	}, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, notifier, appLogger)

	// 8. Initialize Handlers
	catHandler := catH.NewCatalogHandler(catUC, appLogger)
	orderHandler := orderH.NewOrderHandler(orderUC, cfg.Server.MaxBodyBytes, appLogger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP(cfg.Server.TrustProxy))
	r.Use(middleware.RequestLogger(appLogger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", catHandler.ListProducts)
		r.Get("/products/featured", catHandler.GetFeatured)
		r.Get("/filters", catHandler.GetFilters)
		r.Get("/product/{slug}", catHandler.GetProduct)
		r.Get("/delivery", deliveryH.GetOptions)

		r.With(middleware.RateLimit(limiter, "orders", cfg.Order.RateLimitMax, cfg.Order.RateLimitWindow, appLogger)).
			Post("/orders", orderHandler.PlaceOrder)
	})

	// 9. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:              port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
