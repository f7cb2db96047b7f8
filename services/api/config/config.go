package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // FEED_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/feed"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
)

const (
	defaultECFeedPath  = "data/Tabela EC.csv"
	defaultPHFeedPath  = "data/Tabela PH.csv"
	defaultECFeedTable = "ec_feed"
	defaultPHFeedTable = "ph_feed"
	defaultMetrics     = "EC,PH"
)

// Config holds environment-driven settings for the dashboard API.
type Config struct {
	ECFeedPath       string
	PHFeedPath       string
	FeedDatabaseURL  string
	ECFeedTable      string
	PHFeedTable      string
	TimestampLayouts []string
	Location         *time.Location
	Port             int
	BearerToken      string
	DefaultMetrics   models.MetricSet
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		ECFeedPath:  defaultECFeedPath,
		PHFeedPath:  defaultPHFeedPath,
		ECFeedTable: defaultECFeedTable,
		PHFeedTable: defaultPHFeedTable,
		Location:    time.UTC,
		Port:        8080,
	}

	if path := strings.TrimSpace(os.Getenv("EC_FEED_PATH")); path != "" {
		cfg.ECFeedPath = path
	}
	if path := strings.TrimSpace(os.Getenv("PH_FEED_PATH")); path != "" {
		cfg.PHFeedPath = path
	}

	cfg.FeedDatabaseURL = strings.TrimSpace(os.Getenv("FEED_DATABASE_URL"))
	if table := strings.TrimSpace(os.Getenv("EC_FEED_TABLE")); table != "" {
		cfg.ECFeedTable = table
	}
	if table := strings.TrimSpace(os.Getenv("PH_FEED_TABLE")); table != "" {
		cfg.PHFeedTable = table
	}

	if layouts := os.Getenv("FEED_TIMESTAMP_LAYOUTS"); strings.TrimSpace(layouts) != "" {
		for _, l := range strings.Split(layouts, "|") {
			if l = strings.TrimSpace(l); l != "" {
				cfg.TimestampLayouts = append(cfg.TimestampLayouts, l)
			}
		}
	}

	if tz := strings.TrimSpace(os.Getenv("FEED_TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("invalid FEED_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	metrics := defaultMetrics
	if v, ok := os.LookupEnv("API_DEFAULT_METRICS"); ok {
		metrics = v
	}
	set, err := models.ParseMetrics(metrics)
	if err != nil {
		return cfg, fmt.Errorf("invalid API_DEFAULT_METRICS: %w", err)
	}
	cfg.DefaultMetrics = set

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// UseDatabase reports whether feeds are read from Postgres instead of files.
func (c Config) UseDatabase() bool {
	return c.FeedDatabaseURL != ""
}

// Parser returns the feed parser for the configured layouts and location.
func (c Config) Parser() feed.Parser {
	return feed.NewParser(c.TimestampLayouts, c.Location)
}
