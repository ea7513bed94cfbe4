package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"photo-picker/internal/logging"
)

// Defaults applied when neither file nor environment specifies a value.
const (
	defaultLibraryDir    = "/photos"
	defaultCacheDir      = "/cache"
	defaultDatabaseDir   = "/database"
	defaultPort          = "8080"
	defaultThumbnailSize = 200
	defaultIndexInterval = 30 * time.Minute
)

// Config holds all picker configuration.
type Config struct {
	LibraryDir     string
	CacheDir       string
	DatabaseDir    string
	Port           string
	ThumbnailSize  int
	IndexInterval  time.Duration
	MetricsEnabled bool

	// Derived paths
	DatabasePath string
	ThumbnailDir string
	ScratchDir   string

	// Feature flag based on cache writability
	ThumbnailsEnabled bool
}

// fileConfig is the YAML shape; durations are strings ("30m") and get
// parsed during Load.
type fileConfig struct {
	LibraryDir     string `yaml:"libraryDir"`
	CacheDir       string `yaml:"cacheDir"`
	DatabaseDir    string `yaml:"databaseDir"`
	Port           string `yaml:"port"`
	ThumbnailSize  int    `yaml:"thumbnailSize"`
	IndexInterval  string `yaml:"indexInterval"`
	MetricsEnabled *bool  `yaml:"metricsEnabled"`
}

// Load builds the configuration. Precedence: environment variables, then
// the YAML file at path (if non-empty), then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		LibraryDir:     defaultLibraryDir,
		CacheDir:       defaultCacheDir,
		DatabaseDir:    defaultDatabaseDir,
		Port:           defaultPort,
		ThumbnailSize:  defaultThumbnailSize,
		IndexInterval:  defaultIndexInterval,
		MetricsEnabled: true,
	}

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if err := resolve(cfg); err != nil {
		return nil, err
	}

	logging.Info("Configuration:")
	logging.Info("  LIBRARY_DIR:    %s", cfg.LibraryDir)
	logging.Info("  CACHE_DIR:      %s", cfg.CacheDir)
	logging.Info("  DATABASE_DIR:   %s", cfg.DatabaseDir)
	logging.Info("  PORT:           %s", cfg.Port)
	logging.Info("  THUMBNAIL_SIZE: %d", cfg.ThumbnailSize)
	logging.Info("  INDEX_INTERVAL: %s", cfg.IndexInterval)
	logging.Info("  METRICS:        %v", cfg.MetricsEnabled)
	logging.Info("  LOG_LEVEL:      %s", logging.GetLevel())

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.LibraryDir != "" {
		cfg.LibraryDir = fc.LibraryDir
	}
	if fc.CacheDir != "" {
		cfg.CacheDir = fc.CacheDir
	}
	if fc.DatabaseDir != "" {
		cfg.DatabaseDir = fc.DatabaseDir
	}
	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.ThumbnailSize > 0 {
		cfg.ThumbnailSize = fc.ThumbnailSize
	}
	if fc.IndexInterval != "" {
		d, err := time.ParseDuration(fc.IndexInterval)
		if err != nil {
			return fmt.Errorf("invalid indexInterval %q: %w", fc.IndexInterval, err)
		}
		cfg.IndexInterval = d
	}
	if fc.MetricsEnabled != nil {
		cfg.MetricsEnabled = *fc.MetricsEnabled
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LIBRARY_DIR"); v != "" {
		cfg.LibraryDir = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("DATABASE_DIR"); v != "" {
		cfg.DatabaseDir = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("THUMBNAIL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ThumbnailSize = n
		} else {
			logging.Warn("Invalid THUMBNAIL_SIZE %q, keeping %d", v, cfg.ThumbnailSize)
		}
	}
	if v := os.Getenv("INDEX_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.IndexInterval = d
		} else {
			logging.Warn("Invalid INDEX_INTERVAL %q, keeping %s", v, cfg.IndexInterval)
		}
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MetricsEnabled = b
		}
	}
}

func resolve(cfg *Config) error {
	var err error
	if cfg.LibraryDir, err = filepath.Abs(cfg.LibraryDir); err != nil {
		return fmt.Errorf("failed to resolve library directory: %w", err)
	}
	if cfg.CacheDir, err = filepath.Abs(cfg.CacheDir); err != nil {
		return fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	if cfg.DatabaseDir, err = filepath.Abs(cfg.DatabaseDir); err != nil {
		return fmt.Errorf("failed to resolve database directory: %w", err)
	}

	info, err := os.Stat(cfg.LibraryDir)
	if err != nil {
		return fmt.Errorf("library directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("library path %s is not a directory", cfg.LibraryDir)
	}

	if err := os.MkdirAll(cfg.DatabaseDir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	cfg.DatabasePath = filepath.Join(cfg.DatabaseDir, "library.db")

	cfg.ThumbnailDir = filepath.Join(cfg.CacheDir, "thumbnails")
	cfg.ScratchDir = filepath.Join(cfg.CacheDir, "scratch")

	cfg.ThumbnailsEnabled = true
	if err := os.MkdirAll(cfg.ThumbnailDir, 0755); err != nil {
		logging.Warn("Thumbnail cache not writable, thumbnails disabled: %v", err)
		cfg.ThumbnailsEnabled = false
	}
	if err := os.MkdirAll(cfg.ScratchDir, 0755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}

	return nil
}
