package config

import (
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	BaseURL               string `mapstructure:"INBOX_BASE_URL"`
	PageSize              int    `mapstructure:"INBOX_PAGE_SIZE"`
	RequestTimeoutMS      int    `mapstructure:"INBOX_REQUEST_TIMEOUT_MS"`
	SuggestionLimit       int    `mapstructure:"INBOX_SUGGESTION_LIMIT"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	LogFormat             string `mapstructure:"LOG_FORMAT"`
	AppPort               int    `mapstructure:"APP_PORT"`
	StoreResponseShape    string `mapstructure:"STORE_RESPONSE_SHAPE"`
	WSOutboxBuffer        int    `mapstructure:"WS_OUTBOX_BUFFER"`
	WSMaxSessionSec       int    `mapstructure:"WS_MAX_SESSION_SEC"`
	RouteMetricsEnabled   bool   `mapstructure:"ROUTE_METRICS_ENABLED"`
	RequestLoggingEnabled bool   `mapstructure:"REQUEST_LOGGING_ENABLED"`
	PyroscopeAddress      string `mapstructure:"PYROSCOPE_SERVER_ADDRESS"`
	StoreBackend          string `mapstructure:"STORE_BACKEND"`
	MongoURI              string `mapstructure:"MONGO_URI"`
	MongoDBName           string `mapstructure:"MONGO_DB_NAME"`
}

// Response shapes the dev store can answer list requests with.
const (
	ShapeBare     = "bare"
	ShapeEnvelope = "envelope"
)

// Storage backends of the dev store.
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

var (
	ErrBaseURLInvalid       = errors.New("INBOX_BASE_URL must be an absolute http(s) URL")
	ErrPageSizeRange        = errors.New("INBOX_PAGE_SIZE must be between 1 and 200")
	ErrRequestTimeout       = errors.New("INBOX_REQUEST_TIMEOUT_MS must be greater than 0")
	ErrSuggestionLimitRange = errors.New("INBOX_SUGGESTION_LIMIT must be between 1 and 50")
	ErrLogLevelEmpty        = errors.New("LOG_LEVEL cannot be empty")
	ErrLogFormatEmpty       = errors.New("LOG_FORMAT cannot be empty")
	ErrAppPortRange         = errors.New("APP_PORT must be between 1 and 65535")
	ErrResponseShape        = errors.New("STORE_RESPONSE_SHAPE must be either bare or envelope")
	ErrWSOutboxBuffer       = errors.New("WS_OUTBOX_BUFFER must be greater than 0")
	ErrWSMaxSession         = errors.New("WS_MAX_SESSION_SEC must be greater than 0")
	ErrStoreBackend         = errors.New("STORE_BACKEND must be either memory or mongo")
	ErrMongoURIRequired     = errors.New("MONGO_URI is required when STORE_BACKEND is mongo")
)

var (
	cachedConfig *Config
	configMutex  sync.RWMutex
)

// Load loads configuration from environment variables and .env file
// It caches the result for subsequent calls
func Load() (Config, error) {
	configMutex.RLock()
	if cachedConfig != nil {
		defer configMutex.RUnlock()
		return *cachedConfig, nil
	}
	configMutex.RUnlock()

	configMutex.Lock()
	defer configMutex.Unlock()

	// Double-check in case another goroutine loaded it while we waited for the lock
	if cachedConfig != nil {
		return *cachedConfig, nil
	}

	v := viper.New()

	v.SetDefault("INBOX_BASE_URL", "http://localhost:5600")
	v.SetDefault("INBOX_PAGE_SIZE", 50)
	v.SetDefault("INBOX_REQUEST_TIMEOUT_MS", 5000)
	v.SetDefault("INBOX_SUGGESTION_LIMIT", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("APP_PORT", 5600)
	v.SetDefault("STORE_RESPONSE_SHAPE", ShapeBare)
	v.SetDefault("WS_OUTBOX_BUFFER", 256) // WebSocket channel buffer size
	v.SetDefault("WS_MAX_SESSION_SEC", 900)
	v.SetDefault("ROUTE_METRICS_ENABLED", true)
	v.SetDefault("REQUEST_LOGGING_ENABLED", true)
	v.SetDefault("PYROSCOPE_SERVER_ADDRESS", "")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DB_NAME", "noteinbox")

	// Configure Viper to read from .env file (if present)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// Try to read .env file (it's okay if it doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	// Override with OS environment variables
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	cachedConfig = &cfg

	return cfg, nil
}

// ResetCache clears the cached configuration (for testing purposes)
func ResetCache() {
	configMutex.Lock()
	defer configMutex.Unlock()
	cachedConfig = nil
}

// RequestTimeout is the bounded wait applied to every gateway call.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate checks if required configuration fields are properly set
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrBaseURLInvalid
	}
	if c.PageSize < 1 || c.PageSize > 200 {
		return ErrPageSizeRange
	}
	if c.RequestTimeoutMS <= 0 {
		return ErrRequestTimeout
	}
	if c.SuggestionLimit < 1 || c.SuggestionLimit > 50 {
		return ErrSuggestionLimitRange
	}
	if c.LogLevel == "" {
		return ErrLogLevelEmpty
	}
	if c.LogFormat == "" {
		return ErrLogFormatEmpty
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return ErrAppPortRange
	}
	switch c.StoreResponseShape {
	case ShapeBare, ShapeEnvelope:
	default:
		return ErrResponseShape
	}
	if c.WSOutboxBuffer <= 0 {
		return ErrWSOutboxBuffer
	}
	if c.WSMaxSessionSec <= 0 {
		return ErrWSMaxSession
	}
	switch c.StoreBackend {
	case BackendMemory:
	case BackendMongo:
		if c.MongoURI == "" {
			return ErrMongoURIRequired
		}
	default:
		return ErrStoreBackend
	}
	return nil
}
