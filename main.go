package main

import (
	"context"
	"log"
	"time"

	"local-market/cmd"
	"local-market/internal/data/repository"
	"local-market/internal/usecase"
	"local-market/internal/wire"
	"local-market/pkg/cache"
	"local-market/pkg/database"
	"local-market/pkg/geocode"
	"local-market/pkg/token"
	"local-market/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if config.App.MetricsEnabled {
		db.StartPoolMetrics(ctx, 15*time.Second)
	}

	var geoOpts []geocode.Option
	if config.Redis.Addr != "" {
		rdb, err := cache.Connect(ctx, cache.Config{Addr: config.Redis.Addr, DB: config.Redis.DB})
		if err != nil {
			logger.Warn("Redis unavailable, geocode cache disabled", zap.Error(err))
		} else {
			defer func() { _ = rdb.Close() }()
			geoOpts = append(geoOpts, geocode.WithCache(geocode.NewRedisCache(rdb, config.Geocode.CacheTTL)))
			logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
		}
	}
	geocoder := geocode.NewClient(config.Geocode, logger, geoOpts...)

	repos := repository.NewRepository(db, logger)
	issuer := token.NewIssuer(config.JWT)

	service := usecase.NewService(repos, usecase.Deps{
		Tx: db,
		Repos: func(q database.Querier) *repository.Repository {
			return repository.NewRepository(q, logger)
		},
		Geocoder: geocoder,
		Hasher:   utils.NewHasher(config.App.BcryptCost),
		Issuer:   issuer,
	}, config, logger)

	app := wire.Wiring(service, issuer, geocoder, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}
}
