package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appconfig "chargehub/internal/config"
	"chargehub/internal/db"
	"chargehub/internal/geocode"
	httpserver "chargehub/internal/http"
	"chargehub/internal/http/handlers"
	"chargehub/internal/http/middleware"
	"chargehub/internal/password"
	"chargehub/internal/redisstore"
	"chargehub/internal/repository"
	"chargehub/internal/service"
	"chargehub/migrations"
)

// App wires dependencies for the chargehub server.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *redis.Client
	logger *zap.Logger
}

// New builds the application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	if err := migrations.Apply(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	redisClient, err := redisstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	stationRepo := repository.NewStationRepository(sqlDB)
	revokedStore := redisstore.NewRevokedTokenStore(redisClient)

	hasher := password.NewBcryptHasher(0)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(userRepo, hasher, tokenSvc, revokedStore, logger)
	stationSvc := service.NewStationService(stationRepo, logger)

	geocoder := geocode.NewClient(cfg.Geocoder.BaseURL, geocode.NewDefaultHTTPClient(cfg.GeocoderTimeout()))

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Auth:     handlers.NewAuthHandlers(authSvc, tokenSvc, logger),
		Stations: handlers.NewStationsHandlers(stationSvc, userRepo, logger),
		Geocode:  handlers.NewGeocodeHandler(geocoder, logger),
		Health:   handlers.NewHealthHandler(),
	}, middleware.AuthMiddleware(tokenSvc, authSvc))

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
