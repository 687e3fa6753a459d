package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           int
	LogLevel       string
	DatabaseURL    string
	AllowedOrigins []string
	JWT            JWTConfig
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Load reads config.yaml (optional) and environment variables prefixed with
// MYSTOCK_. A local .env file is loaded first so both sources see it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("MYSTOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("jwt.issuer", "mystock")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("cors.allowed_origins", []string{"*"})

	// DATABASE_URL works with or without the prefix.
	if err := v.BindEnv("database.url", "MYSTOCK_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind database url: %w", err)
	}
	if err := v.BindEnv("jwt.secret", "MYSTOCK_JWT_SECRET", "JWT_SECRET"); err != nil {
		return nil, fmt.Errorf("bind jwt secret: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Port:           v.GetInt("server.port"),
		LogLevel:       v.GetString("server.log_level"),
		DatabaseURL:    v.GetString("database.url"),
		AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
			TTL:    time.Duration(v.GetInt("jwt.expiration_hours")) * time.Hour,
		},
	}

	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid server.port: %d", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database.url is required (DATABASE_URL or config.yaml)")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required (JWT_SECRET or config.yaml)")
	}

	return cfg, nil
}
