package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration, bound from environment variables
// with the IMPORTER_ prefix (IMPORTER_MARKETPLACE_BASE_URL and so on).
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Marketplace MarketplaceConfig
	Import      ImportConfig
	Log         LogConfig
}

type AppConfig struct {
	Env  string
	Port string
}

type DatabaseConfig struct {
	URL string
}

// MarketplaceConfig holds the outbound API settings for the page fetcher.
type MarketplaceConfig struct {
	BaseURL      string
	Token        string
	SellerID     string
	PageSize     int
	Timeout      time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
}

// ImportConfig tunes the import engine itself.
type ImportConfig struct {
	// FeeRate is the standard marketplace fee rate (0.14 = 14%).
	FeeRate     float64
	CallTimeout time.Duration
	EntityTypes []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("marketplace.page_size", 50)
	v.SetDefault("marketplace.timeout", "20s")
	v.SetDefault("marketplace.max_attempts", 3)
	v.SetDefault("marketplace.retry_backoff", "500ms")
	v.SetDefault("import.fee_rate", 0.14)
	// Must cover a full fetch including its transient retries.
	v.SetDefault("import.call_timeout", "90s")
	v.SetDefault("import.entity_types", []string{"sales"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvPrefix("IMPORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("database.url"),
		},
		Marketplace: MarketplaceConfig{
			BaseURL:      v.GetString("marketplace.base_url"),
			Token:        v.GetString("marketplace.token"),
			SellerID:     v.GetString("marketplace.seller_id"),
			PageSize:     v.GetInt("marketplace.page_size"),
			Timeout:      v.GetDuration("marketplace.timeout"),
			MaxAttempts:  v.GetInt("marketplace.max_attempts"),
			RetryBackoff: v.GetDuration("marketplace.retry_backoff"),
		},
		Import: ImportConfig{
			FeeRate:     v.GetFloat64("import.fee_rate"),
			CallTimeout: v.GetDuration("import.call_timeout"),
			EntityTypes: v.GetStringSlice("import.entity_types"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required (IMPORTER_DATABASE_URL)")
	}
	if c.Marketplace.BaseURL == "" {
		return fmt.Errorf("marketplace base URL is required (IMPORTER_MARKETPLACE_BASE_URL)")
	}
	if c.Import.FeeRate < 0 || c.Import.FeeRate >= 1 {
		return fmt.Errorf("fee rate must be in [0, 1), got %v", c.Import.FeeRate)
	}
	return nil
}
