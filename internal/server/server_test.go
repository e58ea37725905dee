package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crackfree/pkg/cache"
	"github.com/matzehuels/crackfree/pkg/observability"
	"github.com/matzehuels/crackfree/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := pipeline.NewRunner(fc, nil, log.New(io.Discard))
	t.Cleanup(func() { runner.Close() })
	return New(runner, Options{MaxWidth: 36, MaxHeight: 64, RequestTimeout: time.Minute}, nil)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode[healthResponse](t, rec)
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestWalls(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/v1/walls?width=9&height=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := decode[wallsResponse](t, rec)
	if body.Total != "8" || body.Width != 9 || body.Height != 3 || body.Layers != 5 {
		t.Errorf("body = %+v", body)
	}
	if body.Cached {
		t.Error("first request should not be cached")
	}

	body = decode[wallsResponse](t, get(t, s, "/v1/walls?width=9&height=3"))
	if !body.Cached || body.Total != "8" {
		t.Errorf("second request = %+v, want cached 8", body)
	}
}

func TestWallsErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"missing width", "/v1/walls?height=3", http.StatusBadRequest, "INVALID_INPUT"},
		{"missing height", "/v1/walls?width=9", http.StatusBadRequest, "INVALID_INPUT"},
		{"not a number", "/v1/walls?width=nine&height=3", http.StatusBadRequest, "INVALID_INPUT"},
		{"zero height", "/v1/walls?width=9&height=0", http.StatusBadRequest, "INVALID_HEIGHT"},
		{"negative width", "/v1/walls?width=-2&height=3", http.StatusBadRequest, "INVALID_WIDTH"},
		{"width over server cap", "/v1/walls?width=40&height=3", http.StatusBadRequest, "INVALID_WIDTH"},
		{"height over server cap", "/v1/walls?width=9&height=65", http.StatusBadRequest, "INVALID_HEIGHT"},
		{"overflow", "/v1/walls?width=20&height=26", http.StatusUnprocessableEntity, "OVERFLOW"},
		{"malformed exact", "/v1/walls?width=20&height=26&exact=yes", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown route", "/v2/walls", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			body := decode[errorResponse](t, rec)
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
			if body.Error == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestWallsExact(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/v1/walls?width=20&height=26&exact=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	body := decode[wallsResponse](t, rec)
	if body.Total != "19218882920751977312" || !body.Exact {
		t.Errorf("body = %+v", body)
	}
}

func TestWallsConcurrent(t *testing.T) {
	s := newTestServer(t)

	var wg sync.WaitGroup
	totals := make([]json.Number, 8)
	for i := range totals {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/v1/walls?width=12&height=5", nil)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			var body wallsResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err == nil {
				totals[i] = body.Total
			}
		}(i)
	}
	wg.Wait()

	for i, total := range totals {
		if total != "96" {
			t.Errorf("request %d total = %q, want 96", i, total)
		}
	}
}

func TestLayers(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/v1/layers?width=9")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	body := decode[layersResponse](t, rec)
	if body.Count != 5 || len(body.Layers) != 5 {
		t.Fatalf("count = %d, layers = %d, want 5", body.Count, len(body.Layers))
	}

	first := body.Layers[0]
	if want := []int{3, 2, 2, 2}; !equalInts(first.Bricks, want) {
		t.Errorf("bricks = %v, want %v", first.Bricks, want)
	}
	if want := []int{3, 5, 7}; !equalInts(first.Joints, want) {
		t.Errorf("joints = %v, want %v", first.Joints, want)
	}
	if want := []int{3}; !equalInts(first.Compatible, want) {
		t.Errorf("compatible = %v, want %v", first.Compatible, want)
	}

	limited := decode[layersResponse](t, get(t, s, "/v1/layers?width=9&limit=2"))
	if limited.Count != 5 || len(limited.Layers) != 2 {
		t.Errorf("limited count = %d, layers = %d", limited.Count, len(limited.Layers))
	}

	empty := decode[layersResponse](t, get(t, s, "/v1/layers?width=1"))
	if empty.Count != 0 || len(empty.Layers) != 0 {
		t.Errorf("width 1 = %+v, want no layers", empty)
	}

	if rec := get(t, s, "/v1/layers?width=9&limit=-1"); rec.Code != http.StatusBadRequest {
		t.Errorf("negative limit status = %d, want 400", rec.Code)
	}
	if rec := get(t, s, "/v1/layers?width=50"); rec.Code != http.StatusBadRequest {
		t.Errorf("width over cap status = %d, want 400", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/healthz")
	if id := rec.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request ID = %q, want a UUID", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if id := rec.Header().Get(RequestIDHeader); id != "abc-123" {
		t.Errorf("request ID = %q, want the client-supplied abc-123", id)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	h.statuses = append(h.statuses, status)
	h.mu.Unlock()
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s := newTestServer(t)
	get(t, s, "/healthz")
	get(t, s, "/v1/walls?width=9")

	if len(hooks.statuses) != 2 || hooks.statuses[0] != http.StatusOK || hooks.statuses[1] != http.StatusBadRequest {
		t.Errorf("statuses = %v, want [200 400]", hooks.statuses)
	}
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
