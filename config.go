package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/gmllt/organizeu/internal/server"
	"github.com/gmllt/organizeu/internal/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
	File   string `yaml:"file"`   // used by the tui, which owns the terminal
}

type Config struct {
	Server server.Config `yaml:"server"`
	Store  store.Config  `yaml:"store"`
	Log    LogConfig     `yaml:"log"`
}

func defaultConfig() *Config {
	return &Config{
		Server: server.Config{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: store.Config{
			Backend: store.BackendFile,
			Timeout: 10 * time.Second,
			File:    store.FileConfig{Dir: ".organizeu"},
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// loadConfig reads path over the defaults. A missing file is not an error
// unless the caller asked for that file explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := defaultConfig()
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return nil, err
	default:
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"ORGANIZEU_ADDR", &c.Server.Addr},
		{"ORGANIZEU_STATIC_DIR", &c.Server.StaticDir},
		{"ORGANIZEU_STORE_BACKEND", &c.Store.Backend},
		{"ORGANIZEU_DATA_DIR", &c.Store.File.Dir},
		{"ORGANIZEU_SQL_DSN", &c.Store.SQL.DSN},
		{"ORGANIZEU_LOG_LEVEL", &c.Log.Level},
		{"S3_ACCESS_KEY", &c.Store.S3.AccessKey},
		{"S3_SECRET_KEY", &c.Store.S3.SecretKey},
		{"B2_ACCOUNT_ID", &c.Store.B2.AccountID},
		{"B2_APPLICATION_KEY", &c.Store.B2.ApplicationKey},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

func newLogger(cfg LogConfig, verbose bool, outputs ...string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if len(outputs) > 0 {
		zcfg.OutputPaths = outputs
		zcfg.ErrorOutputPaths = outputs
	}
	return zcfg.Build()
}
