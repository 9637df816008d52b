package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/dharmasatrya/travelhub/internal/aggregator"
	"github.com/dharmasatrya/travelhub/internal/cache"
	"github.com/dharmasatrya/travelhub/internal/config"
	"github.com/dharmasatrya/travelhub/internal/handler"
	"github.com/dharmasatrya/travelhub/internal/logging"
	"github.com/dharmasatrya/travelhub/internal/normalize"
	"github.com/dharmasatrya/travelhub/internal/providers"
	"github.com/dharmasatrya/travelhub/internal/ratelimit"
	"github.com/dharmasatrya/travelhub/internal/travel"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.CacheBackend).Msg("Failed to initialize cache")
	}
	defer store.Close()

	client, err := newProviderClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize provider client")
	}

	ttl := cache.TTLPolicy{
		Default:      cfg.DefaultCacheTTL,
		FlightSearch: cfg.FlightCacheTTL,
		HotelSearch:  cfg.HotelCacheTTL,
		Location:     cfg.LocationCacheTTL,
	}

	engine := aggregator.NewEngine(client, store, aggregator.Config{
		MaxOffers: aggregator.DefaultMaxOffers,
		SearchTTL: ttl.FlightSearch,
		DatesTTL:  ttl.Default,
	})
	travelService := travel.NewService(client, store, ttl)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())

	handler.RegisterRoutes(e,
		handler.NewFlightHandler(engine, normalize.New(cfg.HomeAirport)),
		handler.NewTravelHandler(travelService),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("provider_env", cfg.ProviderEnv).
			Str("cache_backend", cfg.CacheBackend).
			Str("home_airport", cfg.HomeAirport).
			Msg("Starting travelhub server")

		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func newStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		store, err := cache.NewRedisStore(cache.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cache.DefaultRedisConfig().Prefix,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.RedisHost+":"+cfg.RedisPort).Msg("Redis cache enabled")
		return store, nil
	case config.CacheBackendNone:
		log.Info().Msg("Cache disabled")
		return cache.NewNoOpStore(), nil
	default:
		log.Info().Dur("sweep_interval", cfg.CacheSweepInterval).Msg("In-memory cache enabled")
		return cache.NewMemoryStore(cache.WithSweepInterval(cfg.CacheSweepInterval)), nil
	}
}

func newProviderClient(cfg *config.Config) (*providers.Client, error) {
	baseURL, err := providers.BaseURLForEnvironment(cfg.ProviderEnv)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(ratelimit.Limit{
		RequestsPerSecond: cfg.ProviderRPS,
		BurstSize:         cfg.ProviderBurst,
	})
	limiter.SetOperationLimit(string(providers.OpFlightPrice), ratelimit.Limit{RequestsPerSecond: 5, BurstSize: 5})
	limiter.SetOperationLimit(string(providers.OpTripParser), ratelimit.Limit{RequestsPerSecond: 2, BurstSize: 2})

	return providers.NewClient(providers.Config{
		BaseURL:      baseURL,
		ClientID:     cfg.ProviderClientID,
		ClientSecret: cfg.ProviderClientSecret,
		Timeout:      cfg.ProviderTimeout,
		Limiter:      limiter,
	})
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Warn()
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("Request")
			return nil
		},
	})
}
