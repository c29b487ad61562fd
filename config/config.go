package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	// Redis configuration; events fall back to the log publisher when
	// REDIS_ADDR is empty.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	EventStream   string `mapstructure:"EVENT_STREAM"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Booking policy.
	MinAdvanceMinutes        int  `mapstructure:"MIN_ADVANCE_MINUTES"`
	MaxHorizonDays           int  `mapstructure:"MAX_HORIZON_DAYS"`
	CancellationWindowHours  int  `mapstructure:"CANCELLATION_WINDOW_HOURS"`
	MaxReschedules           int  `mapstructure:"MAX_RESCHEDULES"`
	MaxConcurrentPerCustomer int  `mapstructure:"MAX_CONCURRENT_PER_CUSTOMER"`
	ConfirmOnCreate          bool `mapstructure:"CONFIRM_ON_CREATE"`
}

// Load reads configuration from an optional config.yaml and the
// environment, with sensible defaults.
func Load() (Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "9090")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("EVENT_STREAM", "booking-events")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 120)
	viper.SetDefault("MIN_ADVANCE_MINUTES", 30)
	viper.SetDefault("MAX_HORIZON_DAYS", 365)
	viper.SetDefault("CANCELLATION_WINDOW_HOURS", 24)
	viper.SetDefault("MAX_RESCHEDULES", 3)
	viper.SetDefault("MAX_CONCURRENT_PER_CUSTOMER", 5)
	viper.SetDefault("CONFIRM_ON_CREATE", true)

	// Environment variables alone are enough; a config file is optional.
	_ = viper.ReadInConfig()

	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) MinAdvance() time.Duration {
	return time.Duration(c.MinAdvanceMinutes) * time.Minute
}

func (c Config) MaxHorizon() time.Duration {
	return time.Duration(c.MaxHorizonDays) * 24 * time.Hour
}

func (c Config) CancellationWindow() time.Duration {
	return time.Duration(c.CancellationWindowHours) * time.Hour
}
