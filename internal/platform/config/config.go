package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers selectable through STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	DBMaxConns     int32
	StoreDriver    string
	MigrationsPath string

	// Redis is optional; an empty address disables the shared cache and lock.
	RedisAddress      string
	AnalyticsCacheTTL time.Duration
	IdempotencyTTL    time.Duration

	SerialMaxRetries     int
	ReconcileSchedule    string
	RateLimit            string
	CORSAllowedOrigins   []string
	PhoneRegion          string
	DefaultMinStockLevel int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DB_MAX_CONNS", 0)
	viper.SetDefault("STORE_DRIVER", "")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("REDIS_ADDRESS", "")
	viper.SetDefault("ANALYTICS_CACHE_TTL", "30s")
	viper.SetDefault("IDEMPOTENCY_TTL", "24h")
	viper.SetDefault("SERIAL_MAX_RETRIES", 3)
	viper.SetDefault("RECONCILE_SCHEDULE", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("PHONE_REGION", "")
	viper.SetDefault("DEFAULT_MIN_STOCK_LEVEL", 5)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.StoreDriver = viper.GetString("STORE_DRIVER")
	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	case "":
		if cfg.DatabaseURL != "" {
			cfg.StoreDriver = StoreDriverPostgres
		} else {
			cfg.StoreDriver = StoreDriverMemory
			log.Println("Warning: PGSQL_URL environment variable not set. Using the in-memory store; data will not survive a restart.")
		}
	default:
		log.Printf("Warning: unknown STORE_DRIVER '%s'. Defaulting to %s.\n", cfg.StoreDriver, StoreDriverMemory)
		cfg.StoreDriver = StoreDriverMemory
	}
	if cfg.StoreDriver == StoreDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: STORE_DRIVER=postgres but PGSQL_URL is empty.")
	}

	cfg.RedisAddress = viper.GetString("REDIS_ADDRESS")
	cfg.AnalyticsCacheTTL = durationOrDefault("ANALYTICS_CACHE_TTL", 30*time.Second)
	cfg.IdempotencyTTL = durationOrDefault("IDEMPOTENCY_TTL", 24*time.Hour)

	cfg.SerialMaxRetries = viper.GetInt("SERIAL_MAX_RETRIES")
	if cfg.SerialMaxRetries < 1 {
		log.Printf("Warning: SERIAL_MAX_RETRIES must be at least 1 (got %d). Defaulting to 3.\n", cfg.SerialMaxRetries)
		cfg.SerialMaxRetries = 3
	}

	cfg.ReconcileSchedule = viper.GetString("RECONCILE_SCHEDULE")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	cfg.PhoneRegion = viper.GetString("PHONE_REGION")

	cfg.DefaultMinStockLevel = viper.GetInt("DEFAULT_MIN_STOCK_LEVEL")
	if cfg.DefaultMinStockLevel < 0 {
		log.Printf("Warning: DEFAULT_MIN_STOCK_LEVEL cannot be negative (got %d). Defaulting to 5.\n", cfg.DefaultMinStockLevel)
		cfg.DefaultMinStockLevel = 5
	}

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}
