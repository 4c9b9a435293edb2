package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kurin/blazer/b2"
	"go.uber.org/zap"
)

// B2 stores each key as the file {prefix}{key}.json in a Backblaze B2 bucket.
type B2 struct {
	bucket  *b2.Bucket
	prefix  string
	timeout time.Duration
	log     *zap.Logger
}

func NewB2(ctx context.Context, cfg B2Config, timeout time.Duration, log *zap.Logger) (*B2, error) {
	client, err := b2.NewClient(ctx, cfg.AccountID, cfg.ApplicationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}
	return &B2{bucket: bucket, prefix: cfg.Prefix, timeout: timeout, log: log}, nil
}

func (s *B2) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	name := objectName(s.prefix, key)
	r := s.bucket.Object(name).NewReader(ctx)
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		if b2.IsNotExist(err) {
			s.log.Debug("Object not found on B2", zap.String("object", name))
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error loading %s from B2: %w", key, err)
	}
	return data, nil
}

func (s *B2) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	w := s.bucket.Object(objectName(s.prefix, key)).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(value)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

func (s *B2) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.bucket.Object(objectName(s.prefix, key)).Delete(ctx); err != nil && !b2.IsNotExist(err) {
		return fmt.Errorf("error deleting %s from B2: %w", key, err)
	}
	return nil
}
