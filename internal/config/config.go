// Package config loads service settings from the environment, an optional .env
// file and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const insecureDefaultSecret = "change-me"

type Config struct {
	HTTPAddr       string
	DatabaseURL    string
	RedisAddr      string
	JWTSecret      string
	JWTTTL         time.Duration
	LogLevel       string
	LogFormat      string
	RateLimitRPS   float64
	RateLimitBurst int
	APIURL         string

	// TrustProxy makes the server take the client IP from X-Forwarded-For/X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

// New returns a viper instance with defaults set and environment lookup enabled.
// Keys are lower snake case; HTTP_ADDR in the environment overrides http_addr.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("jwt_secret", insecureDefaultSecret)
	v.SetDefault("jwt_ttl", "60m")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("rate_limit_rps", 1.0)
	v.SetDefault("rate_limit_burst", 3)
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("trust_proxy", false)
	v.AutomaticEnv()
	return v
}

// Load reads .env (when present), then configFile (when set), then resolves every key through v.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	ttl, err := time.ParseDuration(v.GetString("jwt_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid JWT_TTL %q: %w", v.GetString("jwt_ttl"), err)
	}

	cfg := Config{
		HTTPAddr:       v.GetString("http_addr"),
		DatabaseURL:    v.GetString("database_url"),
		RedisAddr:      v.GetString("redis_addr"),
		JWTSecret:      v.GetString("jwt_secret"),
		JWTTTL:         ttl,
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		RateLimitRPS:   v.GetFloat64("rate_limit_rps"),
		RateLimitBurst: v.GetInt("rate_limit_burst"),
		APIURL:         v.GetString("api_url"),
		TrustProxy:     v.GetBool("trust_proxy"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, errors.New("JWT_TTL must be positive")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return Config{}, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return cfg, nil
}

// InsecureSecret reports whether the signing secret was left at its default.
func (c Config) InsecureSecret() bool {
	return c.JWTSecret == insecureDefaultSecret
}

// NewLogger builds a logrus logger. Unknown levels fall back to info;
// format "text" selects the text formatter, anything else JSON.
func NewLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
