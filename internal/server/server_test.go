package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gmllt/organizeu/internal/dashboard"
	"github.com/gmllt/organizeu/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type brokenStore struct{ *store.Memory }

func (brokenStore) Set(context.Context, string, []byte) error { return errors.New("bucket unreachable") }

func newTestServer(t *testing.T, s store.Store) (*Server, store.Store) {
	t.Helper()
	if s == nil {
		s = store.NewMemory()
	}
	now := time.Date(2024, time.September, 18, 12, 0, 0, 0, time.UTC)
	app := dashboard.New(s, dashboard.WithClock(func() time.Time { return now }))
	require.NoError(t, app.Load(context.Background()))
	return New(app, Config{}, zap.NewNop()), s
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeRows(t *testing.T, rec *httptest.ResponseRecorder) []dashboard.Row {
	t.Helper()
	var resp rowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Rows
}

func TestModules_AddListRemove(t *testing.T) {
	srv, s := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/modules", `{"name":"  Algebra "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var row dashboard.Row
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, dashboard.Row{Index: 0, Label: "Algebra"}, row)

	rec = do(t, srv, http.MethodGet, "/api/modules", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []dashboard.Row{{Index: 0, Label: "Algebra"}}, decodeRows(t, rec))

	stored, err := s.Get(context.Background(), dashboard.KeyModules)
	require.NoError(t, err)
	assert.Equal(t, `["Algebra"]`, string(stored))

	rec = do(t, srv, http.MethodDelete, "/api/modules/0", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	stored, err = s.Get(context.Background(), dashboard.KeyModules)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(stored))

	rec = do(t, srv, http.MethodDelete, "/api/modules/0", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodos_Toggle(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/todos", `{"text":"revise"}`).Code)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPost, "/api/todos/0/toggle", "").Code)
	rows := decodeRows(t, do(t, srv, http.MethodGet, "/api/todos", ""))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Completed)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/api/todos/3/toggle", "").Code)
}

func TestCredits_TotalAndRejections(t *testing.T) {
	srv, s := newTestServer(t, nil)
	for _, v := range []string{"3", "4", "5"} {
		require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/credits", `{"input":"`+v+`"}`).Code)
	}
	before, err := s.Get(context.Background(), dashboard.KeyCredits)
	require.NoError(t, err)

	for _, bad := range []string{"-5", "abc", ""} {
		rec := do(t, srv, http.MethodPost, "/api/credits", `{"input":"`+bad+`"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, bad)
	}
	after, err := s.Get(context.Background(), dashboard.KeyCredits)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/credits/1", "").Code)

	var resp creditsResponse
	require.NoError(t, json.Unmarshal(do(t, srv, http.MethodGet, "/api/credits", "").Body.Bytes(), &resp))
	assert.Equal(t, 8, resp.Total)
	assert.Equal(t, "total credits: 8", resp.TotalLabel)
	assert.Len(t, resp.Rows, 2)
}

func TestAssignments(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := do(t, srv, http.MethodPost, "/api/assignments", `{"name":"Essay","date":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/assignments", `{"name":"Essay","date":"2024-10-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rows := decodeRows(t, do(t, srv, http.MethodGet, "/api/assignments", ""))
	assert.Equal(t, []dashboard.Row{{Index: 0, Label: "Essay - 2024-10-01"}}, rows)
}

func TestBadRequests(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/modules", `{not json`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/api/modules/abc", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodPut, "/api/modules", `{}`).Code)
}

func TestStoreFailureIs500(t *testing.T) {
	srv, _ := newTestServer(t, brokenStore{store.NewMemory()})
	rec := do(t, srv, http.MethodPost, "/api/todos", `{"text":"lost"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, decodeRows(t, do(t, srv, http.MethodGet, "/api/todos", "")))
}

func TestDashboardAndCalendar(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/credits", `{"input":"20"}`).Code)

	var snap dashboard.Snapshot
	rec := do(t, srv, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 20, snap.TotalCredits)
	assert.Equal(t, "SEPTEMBER 2024", snap.Calendar.Label)

	var cal struct {
		Label        string `json:"label"`
		FirstWeekday int    `json:"firstWeekday"`
		DaysInMonth  int    `json:"daysInMonth"`
	}
	require.NoError(t, json.Unmarshal(do(t, srv, http.MethodGet, "/api/calendar", "").Body.Bytes(), &cal))
	assert.Equal(t, 0, cal.FirstWeekday)
	assert.Equal(t, 30, cal.DaysInMonth)
}

func TestRequestIDAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/modules", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/modules", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/todos", `{"text":"x"}`).Code)

	body := do(t, srv, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `organizeu_http_requests_total{code="200",method="GET",route="/api/modules"} 2`)
	assert.Contains(t, body, `organizeu_entries{list="todos"} 1`)
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>OrganizeU</h1>"), 0o644))
	app := dashboard.New(store.NewMemory())
	srv := New(app, Config{StaticDir: dir}, nil)

	rec := do(t, srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OrganizeU")
}

func TestRun_StopsOnCancel(t *testing.T) {
	app := dashboard.New(store.NewMemory())
	srv := New(app, Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
