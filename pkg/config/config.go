package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"proximity_components/pkg/graph"
)

// Config holds defaults shared by the CLI and the server. Command-line flags
// override values loaded from file.
type Config struct {
	Workers   int      `yaml:"workers"`
	Index     string   `yaml:"index"`
	Threshold *float64 `yaml:"threshold,omitempty"`
	PlotDir   string   `yaml:"plot_dir"`
	OSMTags   []string `yaml:"osm_tags"`
	Server    Server   `yaml:"server"`
}

// Server configures cmd/server.
type Server struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxConcurrent  int           `yaml:"max_concurrent"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	MaxPoints      int           `yaml:"max_points"`
	CORSOrigin     string        `yaml:"cors_origin"`
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Index:   string(graph.IndexGrid),
		Server: Server{
			Addr:           ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			RequestTimeout: 20 * time.Second,
			MaxConcurrent:  runtime.NumCPU() * 2,
			MaxBodyBytes:   32 << 20,
			MaxPoints:      1_000_000,
		},
	}
}

// Load reads a YAML file over Default(). An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if _, err := graph.ParseIndexKind(c.Index); err != nil {
		errs = append(errs, err)
	}
	if c.Server.MaxConcurrent <= 0 {
		errs = append(errs, fmt.Errorf("server.max_concurrent must be > 0, got %d", c.Server.MaxConcurrent))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be > 0, got %d", c.Server.MaxBodyBytes))
	}
	if c.Server.MaxPoints <= 0 {
		errs = append(errs, fmt.Errorf("server.max_points must be > 0, got %d", c.Server.MaxPoints))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.request_timeout must be > 0, got %s", c.Server.RequestTimeout))
	}
	return errors.Join(errs...)
}
