package main

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type config struct {
	Manifests []string
	// Addr serves the HTML board and its JSON API through go-router.
	Addr string
	// APIAddr serves the net/http API, SSE, WebSocket and /metrics.
	APIAddr         string
	PostgresDSN     string
	MySQLDSN        string
	RedisAddr       string
	RedisChannel    string
	AnalyticsURL    string
	AnalyticsKey    string
	Location        *time.Location
	WeekStartDay    time.Weekday
	DisableActivity bool
}

// loadEnvFiles reads the first .env found; a missing file is not an error.
func loadEnvFiles(paths ...string) string {
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		Addr:            envOr(getenv, "BOARD_ADDR", ":9876"),
		APIAddr:         envOr(getenv, "BOARD_API_ADDR", ":9877"),
		PostgresDSN:     getenv("BOARD_POSTGRES_DSN"),
		MySQLDSN:        getenv("BOARD_MYSQL_DSN"),
		RedisAddr:       getenv("BOARD_REDIS_ADDR"),
		RedisChannel:    getenv("BOARD_REDIS_CHANNEL"),
		AnalyticsURL:    getenv("BOARD_ANALYTICS_URL"),
		AnalyticsKey:    getenv("BOARD_ANALYTICS_KEY"),
		Location:        time.Local,
		WeekStartDay:    time.Monday,
		DisableActivity: getenv("BOARD_ACTIVITY") == "off",
	}
	for _, path := range strings.Split(getenv("BOARD_MANIFESTS"), ",") {
		if path = strings.TrimSpace(path); path != "" {
			cfg.Manifests = append(cfg.Manifests, path)
		}
	}
	if len(cfg.Manifests) == 0 {
		return config{}, errors.New("BOARD_MANIFESTS must list at least one manifest")
	}
	if tz := getenv("BOARD_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return config{}, err
		}
		cfg.Location = loc
	}
	if strings.EqualFold(getenv("BOARD_WEEK_START"), "sunday") {
		cfg.WeekStartDay = time.Sunday
	}
	return cfg, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}
