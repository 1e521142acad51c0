// Package config builds the immutable process configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is read once at startup and passed to the components that need it.
type Config struct {
	DBPath          string        `yaml:"db"`
	DataDir         string        `yaml:"data_dir"`
	Addr            string        `yaml:"addr"`
	ImportInterval  time.Duration `yaml:"-"`
	ImportStartHour int           `yaml:"import_start_hour"`
	PollPeriod      time.Duration `yaml:"-"`
	Debug           bool          `yaml:"debug"`
}

// fileConfig mirrors the YAML layout. Durations are given in seconds.
type fileConfig struct {
	Config             `yaml:",inline"`
	ImportIntervalSecs *int `yaml:"import_interval"`
	PollPeriodSecs     *int `yaml:"poll_period"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:          "data.db",
		DataDir:         "data",
		Addr:            ":5000",
		ImportInterval:  86400 * time.Second,
		ImportStartHour: 0,
		PollPeriod:      time.Hour,
	}
}

// Load layers defaults, the optional YAML file at path, a .env file in the
// working directory, and the process environment, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	// A missing .env is not an error; existing environment wins over it.
	_ = godotenv.Load()

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	fc := fileConfig{Config: *cfg}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	*cfg = fc.Config
	if fc.ImportIntervalSecs != nil {
		cfg.ImportInterval = time.Duration(*fc.ImportIntervalSecs) * time.Second
	}
	if fc.PollPeriodSecs != nil {
		cfg.PollPeriod = time.Duration(*fc.PollPeriodSecs) * time.Second
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("MOODLOG_DB"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := lookup("MOODLOG_DATA_DIR"); ok && v != "" {
		cfg.DataDir = v
	}
	if v, ok := lookup("MOODLOG_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("MOODLOG_DEBUG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MOODLOG_DEBUG: %w", err)
		}
		cfg.Debug = b
	}
	if v, ok := lookup("IMPORT_INTERVAL"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IMPORT_INTERVAL: %w", err)
		}
		cfg.ImportInterval = time.Duration(n) * time.Second
	}
	if v, ok := lookup("IMPORT_START_HOUR"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IMPORT_START_HOUR: %w", err)
		}
		cfg.ImportStartHour = n
	}
	return nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.DBPath == "":
		return errors.New("db path is required")
	case c.DataDir == "":
		return errors.New("data dir is required")
	case c.ImportInterval < time.Second:
		return fmt.Errorf("import interval must be at least 1s, got %v", c.ImportInterval)
	case c.ImportStartHour < 0 || c.ImportStartHour > 23:
		return fmt.Errorf("import start hour must be 0-23, got %d", c.ImportStartHour)
	case c.PollPeriod <= 0:
		return fmt.Errorf("poll period must be positive, got %v", c.PollPeriod)
	}
	return nil
}
