package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRequestID_Generated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid request id, got %q", seen)
	}
	if got := w.Header().Get(HeaderRequestID); got != seen {
		t.Errorf("expected response header %q, got %q", seen, got)
	}
}

func TestRequestID_Preserved(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "abc-123" {
		t.Errorf("expected abc-123, got %q", seen)
	}
}

func TestRequestIDFrom_Missing(t *testing.T) {
	if got := RequestIDFrom(context.Background()); got != "" {
		t.Errorf("expected empty id, got %q", got)
	}
}

func TestAccessLog_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), RequestID, AccessLog(log))

	req := httptest.NewRequest(http.MethodPost, "/rent", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("expected status 418, got %v", entry["status"])
	}
	if entry["path"] != "/rent" || entry["method"] != "POST" {
		t.Errorf("unexpected method/path: %v %v", entry["method"], entry["path"])
	}
	if entry["req_id"] != "req-1" {
		t.Errorf("expected req-1, got %v", entry["req_id"])
	}
}

func TestAccessLog_FlushReachesWriter(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	var flushErr error
	h := AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("partial"))
		flushErr = http.NewResponseController(w).Flush()
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if flushErr != nil {
		t.Fatalf("expected flush to succeed, got: %v", flushErr)
	}
	if !w.Flushed {
		t.Error("expected underlying recorder to be flushed")
	}
}

func TestRateLimit_AllowsThenRejectsSameKey(t *testing.T) {
	limiter := NewRateLimiter(0.02, 1)

	calls := 0
	h := RateLimit(limiter, 2500*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	r1 := httptest.NewRequest(http.MethodPost, "/rent", nil)
	r1.RemoteAddr = "10.0.0.1:1234"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}

	r2 := httptest.NewRequest(http.MethodPost, "/rent", nil)
	r2.RemoteAddr = "10.0.0.1:5678"
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
	if got := w2.Header().Get("Retry-After"); got != "2" {
		t.Errorf("expected Retry-After=2, got %q", got)
	}
	if !strings.Contains(w2.Header().Get("Content-Type"), "json") {
		t.Errorf("expected JSON rejection body")
	}

	// another client has its own bucket
	r3 := httptest.NewRequest(http.MethodPost, "/rent", nil)
	r3.RemoteAddr = "10.0.0.2:1234"
	w3 := httptest.NewRecorder()
	h.ServeHTTP(w3, r3)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 for second client, got %d", w3.Code)
	}

	if calls != 2 {
		t.Errorf("expected next handler to be called twice, got %d", calls)
	}
}

func TestRateLimiter_CleanupEvictsIdle(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	limiter.Allow("a")
	limiter.Allow("b")

	limiter.cleanup(time.Now().Add(-time.Hour))
	if limiter.size() != 2 {
		t.Fatalf("expected recent entries kept, got %d", limiter.size())
	}

	limiter.cleanup(time.Now().Add(time.Hour))
	if limiter.size() != 0 {
		t.Errorf("expected idle entries evicted, got %d", limiter.size())
	}
}
