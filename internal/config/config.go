// Package config loads runtime settings from an optional YAML file, an
// optional .env file and LAYOUTFLOW_* environment variables, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/layoutflow/layoutflow/internal/bridge"
	"github.com/layoutflow/layoutflow/internal/logger"
)

const envPrefix = "LAYOUTFLOW_"

type LoggingConfig struct {
	Debug      bool   `yaml:"debug"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	NoColor    bool   `yaml:"no_color"`
}

type PageConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

type Config struct {
	Logging     LoggingConfig `yaml:"logging"`
	Workers     int           `yaml:"workers"`
	MetricsFile string        `yaml:"metrics_file"`
	Page        PageConfig    `yaml:"page"`
}

// Default returns the settings used when nothing overrides them. Pages
// without an extent are treated as A4 portrait.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Workers: runtime.NumCPU(),
		Page:    PageConfig{Width: 595, Height: 842},
	}
}

// Load builds the configuration. An empty path skips the YAML file; a
// missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.Logging.Debug = parseBool(getEnv("DEBUG", strconv.FormatBool(c.Logging.Debug)))
	c.Logging.File = getEnv("LOG_FILE", c.Logging.File)
	c.Logging.MaxSizeMB = parseInt(getEnv("LOG_MAX_SIZE_MB", ""), c.Logging.MaxSizeMB)
	c.Logging.MaxBackups = parseInt(getEnv("LOG_MAX_BACKUPS", ""), c.Logging.MaxBackups)
	c.Logging.MaxAgeDays = parseInt(getEnv("LOG_MAX_AGE_DAYS", ""), c.Logging.MaxAgeDays)
	c.Logging.Compress = parseBool(getEnv("LOG_COMPRESS", strconv.FormatBool(c.Logging.Compress)))
	c.Logging.NoColor = parseBool(getEnv("NO_COLOR", strconv.FormatBool(c.Logging.NoColor)))
	c.Workers = parseInt(getEnv("WORKERS", ""), c.Workers)
	c.MetricsFile = getEnv("METRICS_FILE", c.MetricsFile)
	c.Page.Width = parseFloat(getEnv("PAGE_WIDTH", ""), c.Page.Width)
	c.Page.Height = parseFloat(getEnv("PAGE_HEIGHT", ""), c.Page.Height)
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Page.Width <= 0 || c.Page.Height <= 0 {
		return fmt.Errorf("default page size must be positive, got %vx%v", c.Page.Width, c.Page.Height)
	}
	return nil
}

func (c Config) LoggerOptions() logger.Options {
	return logger.Options{
		Debug:      c.Logging.Debug,
		File:       c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
		NoColor:    c.Logging.NoColor,
	}
}

func (c Config) PageSize() bridge.PageSize {
	return bridge.PageSize{Width: c.Page.Width, Height: c.Page.Height}
}

func getEnv(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	return def
}

func parseFloat(s string, def float32) float32 {
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 32); err == nil {
		return float32(f)
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
