package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the project root.
const DefaultFile = "jrewrite.yaml"

type Config struct {
	Project struct {
		Root    string   `yaml:"root"`
		Exclude []string `yaml:"exclude"`
	} `yaml:"project"`
	Run struct {
		Parallelism int            `yaml:"parallelism"`
		Verify      bool           `yaml:"verify"`
		Recipes     []RecipeConfig `yaml:"recipes"`
	} `yaml:"run"`
	Cache struct {
		DB string `yaml:"db"` // sqlite file for the run cache and type index; empty disables it
	} `yaml:"cache"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text or json
	} `yaml:"log"`
}

// RecipeConfig selects a recipe and its options.
type RecipeConfig struct {
	Name    string            `yaml:"name"`
	Options map[string]string `yaml:"options"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Run.Verify = true
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config over the defaults
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(file); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// 3. Override with Environment Variables if present
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is LoadConfig, except that a missing file yields the defaults
// with the environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		err = cfg.ApplyEnv()
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies the JREWRITE_* environment overrides.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("JREWRITE_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JREWRITE_PARALLELISM %q: %w", v, err)
		}
		c.Run.Parallelism = n
	}
	if v := os.Getenv("JREWRITE_CACHE_DB"); v != "" {
		c.Cache.DB = v
	}
	if v := os.Getenv("JREWRITE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// NewLogger builds the slog logger described by the log section.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Log.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.Log.Format)
}
