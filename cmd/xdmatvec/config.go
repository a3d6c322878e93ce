package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/xdmatvec/internal/logger"
)

// Config represents the xdmatvec configuration file (~/.config/xdmatvec/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	// Device nodes
	H2CPath     string `yaml:"h2c_path"`
	C2HPath     string `yaml:"c2h_path"`
	ControlPath string `yaml:"control_path"`

	Settle        *time.Duration `yaml:"settle"`
	DefaultWidth  *int64         `yaml:"default_width"`
	DefaultHeight *int64         `yaml:"default_height"`

	// Benchmark defaults
	Matrices *int64 `yaml:"n_matrices"`
	Vectors  *int64 `yaml:"n_vectors"`
	Seed     *int64 `yaml:"seed"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

// fileConfig is the config loaded by prepare for the running command.
var fileConfig Config

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "xdmatvec", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// prepare loads the config file, applies it beneath explicitly set flags and
// installs the logger in the context.
func prepare(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: config: %v", err), 1)
	}
	fileConfig = cfg
	applyDeviceConfig(cmd, cfg)
	applyLoggingConfig(cmd, cfg)

	log, err := logger.Setup(os.Stderr, logFormat, logLevel, debug)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	return logger.WithContext(ctx, log), nil
}

func applyDeviceConfig(c *cli.Command, cfg Config) {
	if cfg.H2CPath != "" && !c.IsSet("h2c") {
		h2cPath = cfg.H2CPath
	}
	if cfg.C2HPath != "" && !c.IsSet("c2h") {
		c2hPath = cfg.C2HPath
	}
	if cfg.ControlPath != "" && !c.IsSet("ctl") {
		controlPath = cfg.ControlPath
	}
	if cfg.Settle != nil && !c.IsSet("settle") {
		settle = *cfg.Settle
	}
	if cfg.DefaultWidth != nil && !c.IsSet("default-width") {
		defaultWidth = *cfg.DefaultWidth
	}
	if cfg.DefaultHeight != nil && !c.IsSet("default-height") {
		defaultHeight = *cfg.DefaultHeight
	}
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyBenchConfig applies config file defaults to the trial counts and seed
// when the corresponding flag was not explicitly set.
func applyBenchConfig(c *cli.Command, cfg Config, matrices, vectors, seed *int64) {
	if cfg.Matrices != nil && matrices != nil && !c.IsSet("n-matrices") {
		*matrices = *cfg.Matrices
	}
	if cfg.Vectors != nil && vectors != nil && !c.IsSet("n-vectors") {
		*vectors = *cfg.Vectors
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		*seed = *cfg.Seed
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
