package container

import (
	"log/slog"

	"github.com/FACorreiaa/go-city-counter/config"
	"github.com/FACorreiaa/go-city-counter/internal/api/city"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	CityRepository city.CityRepository
	CityService    city.Service
	CityHandler    *city.Handler
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	upstream, err := city.NewHTTPCityRepository(cfg.Upstream, logger)
	if err != nil {
		logger.Error("Failed to initialize upstream city repository", slog.Any("error", err))
		return nil, err
	}

	var cityRepo city.CityRepository = upstream
	if cfg.Upstream.CacheTTL > 0 {
		logger.Info("Upstream city cache enabled", slog.Duration("ttl", cfg.Upstream.CacheTTL))
		cityRepo = city.NewCachedCityRepository(upstream, cfg.Upstream.CacheTTL, logger)
	}

	cityService := city.NewCityService(cityRepo, logger)
	cityHandler := city.NewCityHandler(cityService, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		CityRepository: cityRepo,
		CityService:    cityService,
		CityHandler:    cityHandler,
	}, nil
}
