package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/agence-consultoria/bgreport/pkg/reporting"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings shared by every bgreport command.
type Config struct {
	DataDir     string
	LogLevel    string
	LogFormat   string
	LogFile     string
	Profile     string // built-in profile name
	ProfileFile string // optional YAML overlay on Profile
	LogoLarge   string
	LogoSmall   string
	Workers     int
	HTTPAddr    string
	History     bool
}

// HistoryPath returns the SQLite file recording generated reports.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// ReportsDir is where the watcher and the service write reports.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.DataDir, "reports")
}

// InboxDir is where the watcher looks for new input files.
func (c *Config) InboxDir() string {
	return filepath.Join(c.DataDir, "inbox")
}

// Assets returns the logo paths to draw.
func (c *Config) Assets() reporting.Assets {
	return reporting.Assets{LogoLarge: c.LogoLarge, LogoSmall: c.LogoSmall}
}

// ReportProfile resolves the configured built-in profile and applies the
// YAML overlay, if any.
func (c *Config) ReportProfile() (reporting.Profile, error) {
	p, err := reporting.ProfileByName(c.Profile)
	if err != nil {
		return reporting.Profile{}, err
	}
	if c.ProfileFile == "" {
		return p, nil
	}
	return LoadProfileFile(c.ProfileFile, p)
}

// Load reads configuration from the environment.
// A .env file is loaded if present but not required.
func Load() (*Config, error) {
	// Best-effort .env loading (not required)
	_ = godotenv.Load()

	workers, err := envOrDefaultInt("BGREPORT_WORKERS", runtime.NumCPU())
	if err != nil {
		return nil, err
	}
	history, err := envOrDefaultBool("BGREPORT_HISTORY", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:     envOrDefault("BGREPORT_DATA_DIR", defaultDataDir()),
		LogLevel:    envOrDefault("BGREPORT_LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("BGREPORT_LOG_FORMAT", "auto"),
		LogFile:     strings.TrimSpace(os.Getenv("BGREPORT_LOG_FILE")),
		Profile:     envOrDefault("BGREPORT_PROFILE", reporting.ProfileConsolidated),
		ProfileFile: strings.TrimSpace(os.Getenv("BGREPORT_PROFILE_FILE")),
		LogoLarge:   strings.TrimSpace(os.Getenv("BGREPORT_LOGO_LARGE")),
		LogoSmall:   strings.TrimSpace(os.Getenv("BGREPORT_LOGO_SMALL")),
		Workers:     workers,
		HTTPAddr:    envOrDefault("BGREPORT_HTTP_ADDR", ":8088"),
		History:     history,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks values that cannot be corrected silently. Commands call it
// again after applying flag overrides.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("BGREPORT_DATA_DIR must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("BGREPORT_WORKERS must be at least 1, got %d", c.Workers)
	}
	if _, err := reporting.ProfileByName(c.Profile); err != nil {
		return fmt.Errorf("BGREPORT_PROFILE: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console", "auto":
	default:
		return fmt.Errorf("BGREPORT_LOG_FORMAT must be json, console or auto, got %q", c.LogFormat)
	}
	if c.ProfileFile != "" {
		if _, err := os.Stat(c.ProfileFile); err != nil {
			return fmt.Errorf("BGREPORT_PROFILE_FILE: %w", err)
		}
	}
	return nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "bgreport")
	}
	return ".bgreport"
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) (int, error) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
		}
		return n, nil
	}
	return fallback, nil
}

func envOrDefaultBool(key string, fallback bool) (bool, error) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		return b, nil
	}
	return fallback, nil
}
