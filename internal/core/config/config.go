// Package config loads service configuration from the environment, with
// an optional YAML file overlay for the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type EventsCfg struct {
	Enabled bool   `yaml:"enabled"`
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

type GeocodeCfg struct {
	BaseURL        string        `yaml:"base_url"`
	UserAgent      string        `yaml:"user_agent"`
	RequestsPerSec float64       `yaml:"requests_per_sec"`
	Timeout        time.Duration `yaml:"timeout"`
	CacheSize      int           `yaml:"cache_size"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	RedisAddr      string        `yaml:"redis_addr"`
}

type Config struct {
	Addr          string        `yaml:"addr"`
	LogLevel      string        `yaml:"log_level"`
	BatchSize     int           `yaml:"batch_size"`
	Packing       string        `yaml:"packing"`
	ProgressEvery int           `yaml:"progress_every"`
	RunTimeout    time.Duration `yaml:"run_timeout"`
	Geocode       GeocodeCfg    `yaml:"geocode"`
	Events        EventsCfg     `yaml:"events"`
}

func FromEnv() Config {
	return Config{
		Addr:          getenv("ADDR", ":8080"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		BatchSize:     getint("BATCH_SIZE", 200),
		Packing:       getenv("PACKING", "hex"),
		ProgressEvery: getint("PROGRESS_EVERY", 500),
		RunTimeout:    getduration("RUN_TIMEOUT", 5*time.Minute),
		Geocode: GeocodeCfg{
			BaseURL:        getenv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:      getenv("NOMINATIM_USER_AGENT", "geozona/1.0"),
			RequestsPerSec: getfloat("NOMINATIM_RPS", 1),
			Timeout:        getduration("NOMINATIM_TIMEOUT", 10*time.Second),
			CacheSize:      getint("GEOCODE_CACHE_SIZE", 256),
			CacheTTL:       getduration("GEOCODE_CACHE_TTL", 24*time.Hour),
			RedisAddr:      getenv("GEOCODE_REDIS_ADDR", ""),
		},
		Events: EventsCfg{
			Enabled: getbool("EVENTS_ENABLED", false),
			Brokers: getenv("KAFKA_BROKERS", "localhost:9092"),
			Topic:   getenv("KAFKA_TOPIC", "coverage-runs"),
		},
	}
}

// FromFile overlays a YAML file onto the environment-derived defaults.
func FromFile(path string) (Config, error) {
	cfg := FromEnv()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
