package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "modules")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "modules", []byte(`["Algebra"]`)))
	got, err := s.Get(ctx, "modules")
	require.NoError(t, err)
	assert.Equal(t, `["Algebra"]`, string(got))

	require.NoError(t, s.Set(ctx, "modules", []byte(`["Algebra","Physics <3>"]`)))
	got, err = s.Get(ctx, "modules")
	require.NoError(t, err)
	assert.Equal(t, `["Algebra","Physics <3>"]`, string(got))

	require.NoError(t, s.Set(ctx, "credits", []byte(`[]`)))
	got, err = s.Get(ctx, "credits")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, s.Delete(ctx, "modules"))
	_, err = s.Get(ctx, "modules")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting an absent key is not an error
	assert.NoError(t, s.Delete(ctx, "modules"))

	assert.Error(t, s.Set(ctx, "../escape", []byte(`[]`)))
}

func TestMemory(t *testing.T) {
	testStoreContract(t, NewMemory())
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "todos", []byte(`[]`)))
	got, err := m.Get(ctx, "todos")
	require.NoError(t, err)
	got[0] = 'x'
	again, err := m.Get(ctx, "todos")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(again))
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	f, err := NewFile(dir)
	require.NoError(t, err)
	testStoreContract(t, f)

	// values survive a new handle on the same directory
	require.NoError(t, f.Set(context.Background(), "todos", []byte(`[{"text":"read","completed":true}]`)))
	reopened, err := NewFile(dir)
	require.NoError(t, err)
	got, err := reopened.Get(context.Background(), "todos")
	require.NoError(t, err)
	assert.Equal(t, `[{"text":"read","completed":true}]`, string(got))
	assert.FileExists(t, filepath.Join(dir, "todos.json"))
}

func TestSQLite(t *testing.T) {
	s, err := NewSQL(context.Background(), BackendSQLite, filepath.Join(t.TempDir(), "organizeu.db"))
	require.NoError(t, err)
	defer s.Close()
	testStoreContract(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
	assert.NoError(t, Close(s))

	s, err = Open(ctx, Config{Backend: BackendFile, File: FileConfig{Dir: t.TempDir()}}, nil)
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(ctx, Config{Backend: BackendSQLite, SQL: SQLConfig{DSN: ":memory:"}}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQL{}, s)
	assert.NoError(t, Close(s))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Backend: BackendMemory}, false},
		{"file without dir", Config{Backend: BackendFile}, true},
		{"file", Config{Backend: BackendFile, File: FileConfig{Dir: "data"}}, false},
		{"sqlite without dsn", Config{Backend: BackendSQLite}, true},
		{"postgres", Config{Backend: BackendPostgres, SQL: SQLConfig{DSN: "postgres://localhost/organizeu"}}, false},
		{"s3 without bucket", Config{Backend: BackendS3}, true},
		{"s3", Config{Backend: BackendS3, S3: S3Config{Bucket: "organizeu"}}, false},
		{"b2 partial", Config{Backend: BackendB2, B2: B2Config{Bucket: "organizeu"}}, true},
		{"unknown", Config{Backend: "redis"}, true},
		{"empty", Config{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(fmt.Errorf("wrapped: %w", &smithy.GenericAPIError{Code: "NotFound"})))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("boom")))
}

func TestNewS3Client_InvalidEndpoint(t *testing.T) {
	_, err := NewS3Client(context.Background(), S3Config{Endpoint: "localhost:9000", Region: "us-east-1"})
	assert.Error(t, err)
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "todos.json", objectName("", "todos"))
	assert.Equal(t, "organizeu/todos.json", objectName("organizeu/", "todos"))
}
