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
	// AMQPURL is the broker endpoint for outbound event notifications.
	// Empty disables the AMQP notifier.
	AMQPURL string
	// NotifyExchange is the exchange events are published to.
	NotifyExchange string
	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
	// StoreTimeout bounds each API request's context so repository calls
	// cannot hang past the deadline.
	StoreTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("NOTIFY_EXCHANGE", "corebanking.events")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("STORE_TIMEOUT", "5s")

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
	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.NotifyExchange = viper.GetString("NOTIFY_EXCHANGE")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	timeoutStr := viper.GetString("STORE_TIMEOUT")
	storeTimeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		storeTimeout = 5 * time.Second
		if timeoutStr != "" {
			log.Printf("Warning: Invalid value for STORE_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, storeTimeout)
		}
	}
	cfg.StoreTimeout = storeTimeout

	return cfg, nil
}
