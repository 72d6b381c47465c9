/*
Package config loads runtime configuration.

PURPOSE:
  Environment-first configuration through viper: every knob can be set
  with an environment variable, an optional config.env file fills gaps,
  and sensible defaults cover local development so the server starts
  with no configuration at all.

KNOBS:
  APP_ENV       development | production     (default development)
  LOG_LEVEL     zerolog level name           (default debug)
  HTTP_PORT     listen port                  (default 8080)
  DB_PATH       sqlite file, ":memory:" ok   (default ./data/roster.db)
  JWT_SECRET    HMAC signing secret          (default dev-only value)
  JWT_ISSUER    token issuer claim           (default roster-engine)
  JWT_TTL_MIN   token lifetime in minutes    (default 480)
  RESTORE_CRON  availability-restore spec    (default "15 0 * * *")
*/
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	Env      string
	LogLevel string
	HTTPPort int
	DBPath   string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	RestoreCron string
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from the environment and an optional
// config.env file in the working directory.
func Load() Config {
	v := viper.New()
	v.SetConfigFile("config.env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Missing file is fine; env vars and defaults take over.
	_ = v.ReadInConfig()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("DB_PATH", "./data/roster.db")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_ISSUER", "roster-engine")
	v.SetDefault("JWT_TTL_MIN", 480)
	v.SetDefault("RESTORE_CRON", "15 0 * * *")

	return Config{
		Env:         v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTPPort:    v.GetInt("HTTP_PORT"),
		DBPath:      v.GetString("DB_PATH"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTIssuer:   v.GetString("JWT_ISSUER"),
		JWTTTL:      time.Duration(v.GetInt("JWT_TTL_MIN")) * time.Minute,
		RestoreCron: v.GetString("RESTORE_CRON"),
	}
}
