package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"

	"dashboard-service/internal/repository"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	NATSURL   string          `mapstructure:"nats_url"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	CredentialsFile string `mapstructure:"credentials_file"`

	CustomersSheet     string `mapstructure:"customers_sheet"`
	SubscriptionsSheet string `mapstructure:"subscriptions_sheet"`
	ScanSummarySheet   string `mapstructure:"scan_summary_sheet"`
	ViolationsSheet    string `mapstructure:"violations_sheet"`
	ConfigSheet        string `mapstructure:"config_sheet"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	LegacyTokenTTLSeconds int `mapstructure:"legacy_token_ttl_seconds"`
}

type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// LegacyTokenTTL returns the bearer token age limit as a duration.
func (a AuthConfig) LegacyTokenTTL() time.Duration {
	return time.Duration(a.LegacyTokenTTLSeconds) * time.Second
}

// Window returns the rate limit window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// SheetNames returns the configured spreadsheet tab names.
func (s SheetsConfig) SheetNames() repository.SheetNames {
	return repository.SheetNames{
		Customers:     s.CustomersSheet,
		Subscriptions: s.SubscriptionsSheet,
		ScanSummary:   s.ScanSummarySheet,
		Violations:    s.ViolationsSheet,
		Config:        s.ConfigSheet,
	}
}

func LoadConfig() *Config {
	config := &Config{}

	// Set default values
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "3090")
	viper.SetDefault("server.mode", "debug")

	sheetNames := repository.DefaultSheetNames()
	viper.SetDefault("sheets.customers_sheet", sheetNames.Customers)
	viper.SetDefault("sheets.subscriptions_sheet", sheetNames.Subscriptions)
	viper.SetDefault("sheets.scan_summary_sheet", sheetNames.ScanSummary)
	viper.SetDefault("sheets.violations_sheet", sheetNames.Violations)
	viper.SetDefault("sheets.config_sheet", sheetNames.Config)

	viper.SetDefault("redis.host", "")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("auth.legacy_token_ttl_seconds", 3600)

	viper.SetDefault("rate_limit.requests", 30)
	viper.SetDefault("rate_limit.window_seconds", 60)

	// Read from environment variables
	viper.AutomaticEnv()

	// Override with environment variables if they exist
	if host := os.Getenv("SERVER_HOST"); host != "" {
		viper.Set("server.host", host)
	}
	if port := os.Getenv("PORT"); port != "" {
		viper.Set("server.port", port)
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		viper.Set("server.mode", mode)
	}

	// Spreadsheet environment variables
	if spreadsheetID := os.Getenv("SHEETS_SPREADSHEET_ID"); spreadsheetID != "" {
		viper.Set("sheets.spreadsheet_id", spreadsheetID)
	}
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		viper.Set("sheets.credentials_file", credsFile)
	}
	if name := os.Getenv("SHEETS_CUSTOMERS_SHEET"); name != "" {
		viper.Set("sheets.customers_sheet", name)
	}
	if name := os.Getenv("SHEETS_SCAN_SUMMARY_SHEET"); name != "" {
		viper.Set("sheets.scan_summary_sheet", name)
	}

	// Redis environment variables (rate limit counters only)
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		viper.Set("redis.host", redisHost)
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		viper.Set("redis.port", redisPort)
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		viper.Set("redis.password", redisPassword)
	}

	// Auth environment variables
	if ttl := os.Getenv("LEGACY_TOKEN_TTL_SECONDS"); ttl != "" {
		viper.Set("auth.legacy_token_ttl_seconds", ttl)
	}

	// NATS environment variables
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		viper.Set("nats_url", natsURL)
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	return config
}
