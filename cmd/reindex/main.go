// Command reindex rebuilds the product search index from Postgres and drops
// cached catalog listings.
package main

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/fekuna/omnipos-storefront/internal/pkg/cache"
	"github.com/fekuna/omnipos-storefront/internal/pkg/database/postgres"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/pkg/search"

	catRepoPkg "github.com/fekuna/omnipos-storefront/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-storefront/internal/catalog/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment: cfg.IsDevelopment(),
		Encoding:      "console",
		Level:         cfg.Logger.Level,
	})
	defer appLogger.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
		SSLMode:  cfg.Postgres.SSLMode,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()

	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Elasticsearch", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis (cached listings stay until they expire)", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	uc := catUCPkg.NewCatalogUseCase(catRepoPkg.NewPGRepository(db), redisClient, esClient, catUCPkg.Options{
		Index: cfg.Elastic.Index,
	}, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	n, err := uc.ReindexProducts(ctx)
	if err != nil {
		appLogger.Fatal("Reindex failed", zap.Error(err))
	}
	appLogger.Info("Reindex finished", zap.Int("products", n), zap.String("index", cfg.Elastic.Index))
}
