package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// APIRateLimit is the inbound per-IP limit in ulule/limiter notation,
	// e.g. "120-M" for 120 requests per minute.
	APIRateLimit string

	// CORSAllowedOrigins is the list of origins the web UI is served from.
	CORSAllowedOrigins []string

	// Market-data upstream endpoints. Stock, crypto and fiat upstreams are
	// keyless; metals requires an API key passed as a query parameter.
	StockAPIBaseURL  string
	StockAPITimeout  time.Duration
	CryptoAPIBaseURL string
	CryptoAPITimeout time.Duration
	FiatAPIBaseURL   string
	FiatAPITimeout   time.Duration
	MetalsAPIBaseURL string
	MetalsAPIKey     string
	MetalsAPITimeout time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Environment variables override .env values.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("API_RATE_LIMIT", "120-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("STOCK_API_BASE_URL", "https://query1.finance.yahoo.com/v7/finance")
	viper.SetDefault("STOCK_API_TIMEOUT", "15s")
	viper.SetDefault("CRYPTO_API_BASE_URL", "https://api.coingecko.com/api/v3")
	viper.SetDefault("CRYPTO_API_TIMEOUT", "10s")
	viper.SetDefault("FIAT_API_BASE_URL", "https://api.frankfurter.app")
	viper.SetDefault("FIAT_API_TIMEOUT", "10s")
	viper.SetDefault("METALS_API_BASE_URL", "https://api.metals.dev/v1")
	viper.SetDefault("METALS_API_KEY", "")
	viper.SetDefault("METALS_API_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		APIRateLimit:       viper.GetString("API_RATE_LIMIT"),
		CORSAllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		StockAPIBaseURL:    viper.GetString("STOCK_API_BASE_URL"),
		StockAPITimeout:    parseDurationOr("STOCK_API_TIMEOUT", 15*time.Second),
		CryptoAPIBaseURL:   viper.GetString("CRYPTO_API_BASE_URL"),
		CryptoAPITimeout:   parseDurationOr("CRYPTO_API_TIMEOUT", 10*time.Second),
		FiatAPIBaseURL:     viper.GetString("FIAT_API_BASE_URL"),
		FiatAPITimeout:     parseDurationOr("FIAT_API_TIMEOUT", 10*time.Second),
		MetalsAPIBaseURL:   viper.GetString("METALS_API_BASE_URL"),
		MetalsAPIKey:       viper.GetString("METALS_API_KEY"),
		MetalsAPITimeout:   parseDurationOr("METALS_API_TIMEOUT", 10*time.Second),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.MetalsAPIKey == "" {
		log.Println("Warning: METALS_API_KEY not set. Metal prices will not be available.")
	}

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
