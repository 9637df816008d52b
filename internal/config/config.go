// Package config loads service settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

type Config struct {
	Port      string
	LogLevel  string
	LogPretty bool

	// HomeAirport is the origin used when a simple search omits one.
	HomeAirport string

	ProviderEnv          string
	ProviderClientID     string
	ProviderClientSecret string
	ProviderTimeout      time.Duration
	ProviderRPS          float64
	ProviderBurst        int

	CacheBackend       string
	CacheSweepInterval time.Duration
	DefaultCacheTTL    time.Duration
	FlightCacheTTL     time.Duration
	HotelCacheTTL      time.Duration
	LocationCacheTTL   time.Duration

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),

		HomeAirport: strings.ToUpper(getEnv("HOME_AIRPORT", "MUC")),

		ProviderEnv:          strings.ToLower(getEnv("AMADEUS_ENV", "test")),
		ProviderClientID:     getEnv("AMADEUS_CLIENT_ID", ""),
		ProviderClientSecret: getEnv("AMADEUS_CLIENT_SECRET", ""),
		ProviderTimeout:      getEnvDuration("PROVIDER_TIMEOUT", 10*time.Second),
		ProviderRPS:          getEnvFloat("PROVIDER_RPS", 10),
		ProviderBurst:        getEnvInt("PROVIDER_BURST", 10),

		CacheBackend:       strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
		CacheSweepInterval: getEnvDuration("CACHE_SWEEP_INTERVAL", 10*time.Minute),
		DefaultCacheTTL:    getEnvDuration("DEFAULT_CACHE_TTL", time.Hour),
		FlightCacheTTL:     getEnvDuration("FLIGHT_CACHE_TTL", 30*time.Minute),
		HotelCacheTTL:      getEnvDuration("HOTEL_CACHE_TTL", 30*time.Minute),
		LocationCacheTTL:   getEnvDuration("LOCATION_CACHE_TTL", 24*time.Hour),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ProviderClientID == "" || c.ProviderClientSecret == "" {
		return fmt.Errorf("AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET are required")
	}
	switch c.ProviderEnv {
	case "test", "production":
	default:
		return fmt.Errorf("AMADEUS_ENV must be test or production, got %q", c.ProviderEnv)
	}
	switch c.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis, CacheBackendNone:
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory, redis or none, got %q", c.CacheBackend)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
