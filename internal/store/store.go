// Package store persists dashboard collections as JSON documents in a
// string-keyed key/value medium. Backends are interchangeable: a local
// directory, a SQL table, or an S3/B2 bucket.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("store: key not found")

// Store is a synchronous string-keyed get/set/delete interface.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Backend names accepted in Config.Backend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
	BackendB2       = "b2"
)

const defaultTimeout = 10 * time.Second

type FileConfig struct {
	Dir string `yaml:"dir"`
}

type SQLConfig struct {
	DSN string `yaml:"dsn"`
}

type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKey       string `yaml:"access_key"`
	SecretKey       string `yaml:"secret_key"`
	Prefix          string `yaml:"prefix"`
	UsePathStyle    bool   `yaml:"use_path_style"`
	DisableChecksum bool   `yaml:"disable_checksum"`
}

type B2Config struct {
	AccountID      string `yaml:"account_id"`
	ApplicationKey string `yaml:"application_key"`
	Bucket         string `yaml:"bucket"`
	Prefix         string `yaml:"prefix"`
}

// Config selects and configures one backend.
type Config struct {
	Backend string        `yaml:"backend"`
	Timeout time.Duration `yaml:"timeout"`
	File    FileConfig    `yaml:"file"`
	SQL     SQLConfig     `yaml:"sql"`
	S3      S3Config      `yaml:"s3"`
	B2      B2Config      `yaml:"b2"`
}

// Validate checks that the selected backend has what it needs to start.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendFile:
		if c.File.Dir == "" {
			return errors.New("store.file.dir is required")
		}
	case BackendSQLite, BackendPostgres:
		if c.SQL.DSN == "" {
			return fmt.Errorf("store.sql.dsn is required for %s", c.Backend)
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return errors.New("store.s3.bucket is required")
		}
	case BackendB2:
		if c.B2.Bucket == "" || c.B2.AccountID == "" || c.B2.ApplicationKey == "" {
			return errors.New("store.b2 requires account_id, application_key and bucket")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
	return nil
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("backend", cfg.Backend))

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		s = NewMemory()
	case BackendFile:
		s, err = NewFile(cfg.File.Dir)
	case BackendSQLite, BackendPostgres:
		s, err = NewSQL(ctx, cfg.Backend, cfg.SQL.DSN)
	case BackendS3:
		s, err = NewS3(ctx, cfg.S3, cfg.timeout(), log)
	case BackendB2:
		s, err = NewB2(ctx, cfg.B2, cfg.timeout(), log)
	}
	if err != nil {
		return nil, err
	}
	log.Info("Store opened")
	return s, nil
}

// Close releases backend resources when the store holds any.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("store: invalid key %q", key)
	}
	return nil
}

func objectName(prefix, key string) string {
	return prefix + key + ".json"
}
