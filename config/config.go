// Package config loads service settings from the environment, reading a
// .env file first when one is present.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DataPath  string
	DBDriver  string
	MySQLDSN  string
	HTTPPort  string
	MediaRoot string

	Cors struct {
		AllowOrigins []string
		AllowHeaders []string
	}

	Limiter struct {
		Max        int
		Expiration time.Duration
		Sliding    bool
	}
}

// Load reads the configuration. Missing keys fall back to defaults suitable
// for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataPath:  getEnv("DATA_PATH", "./data"),
		DBDriver:  getEnv("DB_DRIVER", "sqlite3"),
		MySQLDSN:  os.Getenv("MYSQL_DSN"),
		HTTPPort:  getEnv("HTTP_PORT", "8000"),
		MediaRoot: getEnv("MEDIA_ROOT", "./media"),
	}
	cfg.Cors.AllowOrigins = splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:4200"))
	cfg.Cors.AllowHeaders = splitList(getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Type,Accept"))

	var err error
	if cfg.Limiter.Max, err = getInt("RATE_LIMIT_MAX", 0); err != nil {
		return nil, err
	}
	seconds, err := getInt("RATE_LIMIT_EXPIRATION", 60)
	if err != nil {
		return nil, err
	}
	cfg.Limiter.Expiration = time.Duration(seconds) * time.Second
	if cfg.Limiter.Sliding, err = getBool("RATE_LIMIT_SLIDING", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3":
	case "mysql":
		if c.MySQLDSN == "" {
			return errors.New("MYSQL_DSN is required when DB_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite3 or mysql)", c.DBDriver)
	}
	if c.Limiter.Max < 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must not be negative, got %d", c.Limiter.Max)
	}
	if c.Limiter.Max > 0 && c.Limiter.Expiration <= 0 {
		return errors.New("RATE_LIMIT_EXPIRATION must be positive when rate limiting is enabled")
	}
	return nil
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Printf("[config] %s is not set, using default %q", key, def)
		return def
	}
	return v
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
