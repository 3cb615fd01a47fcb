package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger_LogsStatusAndPath(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/member/list", nil)
	rec := httptest.NewRecorder()

	RequestLogger(handler, logger).ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, `"method":"GET"`) {
		t.Fatalf("expected method in log, got %q", out)
	}
	if !strings.Contains(out, `"path":"/orders/member/list"`) {
		t.Fatalf("expected path in log, got %q", out)
	}
	if !strings.Contains(out, `"status":201`) {
		t.Fatalf("expected status in log, got %q", out)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a generated request id header")
	}
}

func TestRequestLogger_KeepsCallerRequestID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()

	RequestLogger(handler, logger).ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "req-42" {
		t.Fatalf("expected request id preserved, got %q", got)
	}
	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Fatalf("expected request id in log, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"status":200`) {
		t.Fatalf("expected default status 200 in log, got %q", buf.String())
	}
}
