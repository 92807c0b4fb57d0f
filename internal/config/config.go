// Package config provides configuration management functionality.
//
// Values are layered: struct defaults, then an optional YAML file named by
// ESPRESSO_CONFIG, then environment variables (a .env file is loaded
// first when present).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aristath/espresso/internal/clientdata"
	"github.com/aristath/espresso/internal/clients/yahoo"
)

// FileEnv names the optional YAML configuration file
const FileEnv = "ESPRESSO_CONFIG"

// Config holds application configuration
type Config struct {
	DataDir          string        `yaml:"data_dir" default:"./data"` // always absolute after Load
	LogLevel         string        `yaml:"log_level" default:"info" validate:"oneof=debug info warn error"`
	LogPretty        bool          `yaml:"log_pretty"`
	Port             int           `yaml:"port" default:"8001" validate:"min=1,max=65535"`
	DevMode          bool          `yaml:"dev_mode"`
	QuoteTTL         time.Duration `yaml:"cache_quote_ttl" default:"60s" validate:"gt=0"`
	FileTTL          time.Duration `yaml:"cache_file_ttl" default:"1h" validate:"gt=0"`
	FundamentalsTTL  time.Duration `yaml:"cache_fundamentals_ttl" default:"24h" validate:"gt=0"`
	CacheRetention   time.Duration `yaml:"cache_retention" default:"168h" validate:"gt=0"`
	WorkerPoolSize   int           `yaml:"worker_pool_size" default:"10" validate:"min=8,max=12"`
	GatewayRate      float64       `yaml:"gateway_rate_per_sec" default:"5" validate:"gt=0"`
	WarmupSchedule   string        `yaml:"warmup_schedule" default:"0 */15 * * * *"`
	CleanupSchedule  string        `yaml:"cleanup_schedule" default:"0 0 3 * * *"`
	Benchmark        string        `yaml:"benchmark_symbol" default:"SPY" validate:"required"`
	NewsFeedURL      string        `yaml:"news_feed_url" validate:"required,contains=%s"`
	AlphaVantageKey  string        `yaml:"alphavantage_api_key"`
	OpportunityLimit int           `yaml:"opportunity_limit" default:"10" validate:"min=1"`
}

var validate = validator.New()

// Load reads configuration from defaults, the optional YAML file and the
// environment, resolves and creates the data directory, and validates.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{NewsFeedURL: yahoo.DefaultFeedURL}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	cfg.DataDir = absDataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DataDir = getEnv("ESPRESSO_DATA_DIR", c.DataDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPretty = getEnvAsBool("LOG_PRETTY", c.LogPretty)
	c.Port = getEnvAsInt("PORT", c.Port)
	c.DevMode = getEnvAsBool("DEV_MODE", c.DevMode)
	c.QuoteTTL = getEnvAsDuration("CACHE_QUOTE_TTL", c.QuoteTTL)
	c.FileTTL = getEnvAsDuration("CACHE_FILE_TTL", c.FileTTL)
	c.FundamentalsTTL = getEnvAsDuration("CACHE_FUNDAMENTALS_TTL", c.FundamentalsTTL)
	c.CacheRetention = getEnvAsDuration("CACHE_RETENTION", c.CacheRetention)
	c.WorkerPoolSize = getEnvAsInt("WORKER_POOL_SIZE", c.WorkerPoolSize)
	c.GatewayRate = getEnvAsFloat("GATEWAY_RATE_PER_SEC", c.GatewayRate)
	c.Benchmark = getEnv("BENCHMARK_SYMBOL", c.Benchmark)
	c.NewsFeedURL = getEnv("NEWS_FEED_URL", c.NewsFeedURL)
	c.AlphaVantageKey = getEnv("ALPHAVANTAGE_API_KEY", c.AlphaVantageKey)
	c.OpportunityLimit = getEnvAsInt("OPPORTUNITY_LIMIT", c.OpportunityLimit)

	// An explicitly empty schedule disables the job, so these check presence.
	if v, ok := os.LookupEnv("WARMUP_SCHEDULE"); ok {
		c.WarmupSchedule = v
	}
	if v, ok := os.LookupEnv("CLEANUP_SCHEDULE"); ok {
		c.CleanupSchedule = v
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config: %s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CachePolicies maps the configured TTLs onto the cache kinds
func (c *Config) CachePolicies() map[clientdata.Kind]clientdata.Policy {
	policies := clientdata.DefaultPolicies()
	policies[clientdata.KindQuote] = clientdata.Policy{Memory: c.QuoteTTL, File: policies[clientdata.KindQuote].File}
	for _, kind := range []clientdata.Kind{clientdata.KindHistory, clientdata.KindNews} {
		p := policies[kind]
		p.File = c.FileTTL
		policies[kind] = p
	}
	for _, kind := range []clientdata.Kind{clientdata.KindFundamentals, clientdata.KindEarnings} {
		p := policies[kind]
		p.File = c.FundamentalsTTL
		policies[kind] = p
	}
	return policies
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90s", "2h") or a bare number of
// seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
