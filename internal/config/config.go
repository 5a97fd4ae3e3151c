package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

type SeedConfig struct {
	Enabled bool
}

type ImportConfig struct {
	MaxRows int
}

type GeocodeConfig struct {
	MinPercent float64
	MaxPercent float64
	Seed       int64
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Seed        SeedConfig
	Import      ImportConfig
	Geocode     GeocodeConfig
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("SEED_ENABLED", true)
	v.SetDefault("IMPORT_MAX_ROWS", 1000)
	v.SetDefault("GEOCODE_MIN_PERCENT", 20.0)
	v.SetDefault("GEOCODE_MAX_PERCENT", 80.0)
	v.SetDefault("GEOCODE_SEED", 0)

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:            v.GetString("HTTP_HOST"),
			Port:            v.GetInt("HTTP_PORT"),
			ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
		},
		Seed: SeedConfig{
			Enabled: v.GetBool("SEED_ENABLED"),
		},
		Import: ImportConfig{
			MaxRows: v.GetInt("IMPORT_MAX_ROWS"),
		},
		Geocode: GeocodeConfig{
			MinPercent: v.GetFloat64("GEOCODE_MIN_PERCENT"),
			MaxPercent: v.GetFloat64("GEOCODE_MAX_PERCENT"),
			Seed:       v.GetInt64("GEOCODE_SEED"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.HTTP.Port < 1 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", cfg.HTTP.Port)
	}
	if cfg.Import.MaxRows <= 0 {
		return fmt.Errorf("IMPORT_MAX_ROWS must be positive")
	}
	if cfg.Geocode.MinPercent < 0 || cfg.Geocode.MaxPercent > 100 {
		return fmt.Errorf("GEOCODE_MIN_PERCENT/GEOCODE_MAX_PERCENT must be within [0, 100]")
	}
	if cfg.Geocode.MinPercent >= cfg.Geocode.MaxPercent {
		return fmt.Errorf("GEOCODE_MIN_PERCENT must be less than GEOCODE_MAX_PERCENT")
	}
	return nil
}
