package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"totopredict/database"
	"totopredict/domain/engine"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Engine configuration
	RangeMin            int
	RangeMax            int
	DrawSize            int
	LowMax              int
	FrequencyWindow     int
	Iterations          int
	MaxOverlap          int
	FallbackMaxAttempts int
	Workers             int
	SelectionPolicy     string

	// Database configuration, an empty URL selects the in-memory store
	DatabaseURL  string
	DatabaseName string

	// NATS configuration, empty disables event publishing
	NATSServers string

	// HTTP configuration
	HTTPAddr string

	// Accuracy worker configuration
	AccuracyCheckInterval time.Duration

	// JSON file of historical draws loaded at startup
	DrawsSeedFile string

	// Logging configuration
	LogLevel  string
	LogFormat string // "text" or "json"

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	if c.DatabaseURL == "" {
		return ""
	}
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// UsesPostgres returns true when a database URL is configured
func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// EngineConfig returns the Monte Carlo engine parameters. The golden-zone
// parity and low/high bounds keep the engine defaults.
func (c *Config) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.RangeMin = c.RangeMin
	cfg.RangeMax = c.RangeMax
	cfg.DrawSize = c.DrawSize
	cfg.LowMax = c.LowMax
	cfg.WindowSize = c.FrequencyWindow
	cfg.Iterations = c.Iterations
	cfg.MaxOverlap = c.MaxOverlap
	cfg.FallbackMaxAttempts = c.FallbackMaxAttempts
	cfg.Workers = c.Workers
	cfg.SelectionPolicy = engine.SelectionPolicy(c.SelectionPolicy)
	return cfg
}

// ConfigureLogging applies the log level and format to the global logger
func (c *Config) ConfigureLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	log.SetLevel(level)

	switch c.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	defaults := engine.DefaultConfig()
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// HTTP
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		// Seed data
		DrawsSeedFile: os.Getenv("DRAWS_SEED_FILE"),

		// Logging
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),

		// OpenTelemetry
		OTelServiceName:  getEnvWithDefault("OTEL_SERVICE_NAME", "totopredict"),
		OTelExporterType: getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint: getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),

		// Environment
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),

		SelectionPolicy: getEnvWithDefault("TOTO_SELECTION_POLICY", string(defaults.SelectionPolicy)),
	}

	ints := []struct {
		key    string
		target *int
		value  int
	}{
		{"TOTO_RANGE_MIN", &config.RangeMin, defaults.RangeMin},
		{"TOTO_RANGE_MAX", &config.RangeMax, defaults.RangeMax},
		{"TOTO_DRAW_SIZE", &config.DrawSize, defaults.DrawSize},
		{"TOTO_LOW_MAX", &config.LowMax, defaults.LowMax},
		{"TOTO_FREQUENCY_WINDOW", &config.FrequencyWindow, defaults.WindowSize},
		{"TOTO_MONTE_CARLO_ITERATIONS", &config.Iterations, defaults.Iterations},
		{"TOTO_MAX_OVERLAP", &config.MaxOverlap, defaults.MaxOverlap},
		{"TOTO_FALLBACK_MAX_ATTEMPTS", &config.FallbackMaxAttempts, defaults.FallbackMaxAttempts},
		{"TOTO_WORKERS", &config.Workers, defaults.Workers},
		{"OTEL_EXPORT_INTERVAL_MS", &config.OTelExportIntervalMillis, 60000},
	}
	for _, field := range ints {
		value, err := getIntWithDefault(field.key, field.value)
		if err != nil {
			return nil, err
		}
		*field.target = value
	}

	interval, err := time.ParseDuration(getEnvWithDefault("ACCURACY_CHECK_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCURACY_CHECK_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("ACCURACY_CHECK_INTERVAL must be positive, got %s", interval)
	}
	config.AccuracyCheckInterval = interval

	config.OTelEnabled, err = strconv.ParseBool(getEnvWithDefault("OTEL_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_ENABLED: %w", err)
	}

	// If DatabaseName is provided, ensure it's not empty
	if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
		return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}

	if err := config.EngineConfig().Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntWithDefault parses an integer environment variable, returning the default if not set
func getIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	defaults := engine.DefaultConfig()
	return &Config{
		RangeMin:                 defaults.RangeMin,
		RangeMax:                 defaults.RangeMax,
		DrawSize:                 defaults.DrawSize,
		LowMax:                   defaults.LowMax,
		FrequencyWindow:          defaults.WindowSize,
		Iterations:               1000,
		MaxOverlap:               defaults.MaxOverlap,
		FallbackMaxAttempts:      defaults.FallbackMaxAttempts,
		Workers:                  1,
		SelectionPolicy:          string(defaults.SelectionPolicy),
		HTTPAddr:                 ":0",
		AccuracyCheckInterval:    time.Minute,
		LogLevel:                 "info",
		LogFormat:                "text",
		OTelServiceName:          "totopredict-test",
		OTelExporterType:         "none",
		OTelExportIntervalMillis: 60000,
		Environment:              "test",
	}
}
