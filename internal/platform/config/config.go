package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Price source settings. An empty API key is a configuration failure the
	// valuation engine reports as such, not a silent zero-price run.
	PriceAPIBaseURL string
	PriceAPIKey     string
	PriceCacheTTL   time.Duration

	// ValuationCron is the robfig/cron spec for the nightly refresh. Empty
	// disables the schedule; the refresh endpoint still works.
	ValuationCron string

	FrontendBaseURL string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("PRICE_API_BASE_URL", "")
	viper.SetDefault("PRICE_API_KEY", "")
	viper.SetDefault("PRICE_CACHE_TTL", "15m")
	viper.SetDefault("VALUATION_CRON", "30 5 * * *")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.PriceAPIBaseURL = viper.GetString("PRICE_API_BASE_URL")
	cfg.PriceAPIKey = viper.GetString("PRICE_API_KEY")

	cacheTTLStr := viper.GetString("PRICE_CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		cacheTTL = 15 * time.Minute
		log.Printf("Warning: Invalid value for PRICE_CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL)
	}
	cfg.PriceCacheTTL = cacheTTL

	cfg.ValuationCron = viper.GetString("VALUATION_CRON")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	return cfg, nil
}
