// Package config loads the settings of the portals and the fake API from an
// optional YAML file, a .env file and the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	defaultAPIURL        = "http://localhost:5000/api"
	defaultWatchSchedule = "@every 30s"
	defaultLogLevel      = "info"
	defaultPort          = "5000"
)

// Environment variables, applied over the file values.
const (
	EnvAPIURL         = "CARRENTAL_API_URL"
	EnvAdminSession   = "CARRENTAL_ADMIN_SESSION"
	EnvWatchSchedule  = "CARRENTAL_WATCH_SCHEDULE"
	EnvLogLevel       = "CARRENTAL_LOG_LEVEL"
	EnvPort           = "PORT"
	EnvAllowedOrigins = "CARRENTAL_ALLOWED_ORIGINS"
	EnvConfigFile     = "CARRENTAL_CONFIG"
)

type Config struct {
	API struct {
		URL string `yaml:"url"`
		// AdminSession is the session cookie value the admin portal sends
		// and the fake API expects on car writes.
		AdminSession string `yaml:"admin_session"`
	} `yaml:"api"`
	Watch struct {
		Schedule string `yaml:"schedule"`
	} `yaml:"watch"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
}

func defaults() Config {
	var cfg Config
	cfg.API.URL = defaultAPIURL
	cfg.Watch.Schedule = defaultWatchSchedule
	cfg.Log.Level = defaultLogLevel
	cfg.Server.Port = defaultPort
	return cfg
}

// Load reads .env when present, then the YAML file at path (or at
// $CARRENTAL_CONFIG when path is empty), then the environment.
func Load(path string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := defaults()
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv(EnvAdminSession); v != "" {
		cfg.API.AdminSession = v
	}
	if v := os.Getenv(EnvWatchSchedule); v != "" {
		cfg.Watch.Schedule = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv(EnvAllowedOrigins); v != "" {
		cfg.Server.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, origin)
			}
		}
	}
}

// Validate checks the values that would otherwise fail later at use.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil {
		return fmt.Errorf("parse %s: %w", EnvAPIURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("parse %s: %q is not an http(s) URL", EnvAPIURL, c.API.URL)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("parse %s: %w", EnvLogLevel, err)
	}
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("parse %s: invalid port %q", EnvPort, c.Server.Port)
	}
	if strings.TrimSpace(c.Watch.Schedule) == "" {
		return fmt.Errorf("parse %s: empty schedule", EnvWatchSchedule)
	}
	return nil
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, err
	}
	return level, nil
}

// NewLogger returns a text logger on w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
