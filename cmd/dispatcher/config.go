package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type config struct {
	transport      string
	upstreamURL    string
	redisAddr      string
	redisPassword  string
	redisDB        int
	redisListKey   string
	capacity       int
	requests       int
	submitRPS      float64
	transportRPS   float64
	transportBurst int
	encoder        string
	listenAddr     string
	holdAfter      time.Duration
	logLevel       string

	mirrorEnabled bool
	mirrorPrefix  string
	mirrorTTL     time.Duration
	mirrorBucket  string
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.transport = strings.ToLower(getenvDefault("TRANSPORT", "http"))
	cfg.upstreamURL = os.Getenv("UPSTREAM_URL")
	cfg.redisAddr = getenvDefault("REDIS_ADDR", "localhost:6379")
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.redisDB = getenvIntDefault("REDIS_DB", 0)
	cfg.redisListKey = getenvDefault("REDIS_LIST_KEY", "dispatch:outbox")
	cfg.capacity = getenvIntDefault("CAPACITY", 10)
	cfg.requests = getenvIntDefault("REQUESTS", 100)
	cfg.submitRPS = getenvFloatDefault("SUBMIT_RPS", 0)
	cfg.transportRPS = getenvFloatDefault("TRANSPORT_RPS", 0)
	cfg.transportBurst = getenvIntDefault("TRANSPORT_BURST", 1)
	cfg.encoder = strings.ToLower(getenvDefault("ENCODER", "json"))
	cfg.listenAddr = os.Getenv("LISTEN_ADDR")
	cfg.holdAfter = getenvDurationDefault("HOLD_AFTER", 0)
	cfg.logLevel = getenvDefault("LOG_LEVEL", "info")

	cfg.mirrorEnabled = getenvBoolDefault("MIRROR_ENABLED", false)
	cfg.mirrorPrefix = getenvDefault("MIRROR_PREFIX", "dispatch:trace")
	cfg.mirrorTTL = getenvDurationDefault("MIRROR_TTL", 24*time.Hour)
	cfg.mirrorBucket = getenvDefault("MIRROR_BUCKET", "minute")

	switch cfg.transport {
	case "http":
		if cfg.upstreamURL == "" {
			return config{}, errors.New("UPSTREAM_URL is required when TRANSPORT=http")
		}
	case "redis":
	default:
		return config{}, errors.New("TRANSPORT must be http or redis")
	}
	if (cfg.transport == "redis" || cfg.mirrorEnabled) && strings.TrimSpace(cfg.redisAddr) == "" {
		return config{}, errors.New("REDIS_ADDR is required for redis transport or MIRROR_ENABLED=true")
	}
	if cfg.capacity <= 0 {
		return config{}, errors.New("CAPACITY must be > 0")
	}
	if cfg.requests < 0 {
		return config{}, errors.New("REQUESTS must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
