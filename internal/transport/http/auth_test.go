package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubResolver struct {
	memberID string
	err      error
}

func (s stubResolver) MemberID(string) (string, error) {
	return s.memberID, s.err
}

func TestRequireMember(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(memberIDFromContext(r.Context())))
	})

	t.Run("resolved member id lands in the context", func(t *testing.T) {
		handler := RequireMember(stubResolver{memberID: "member-1"}, next)
		req := httptest.NewRequest(http.MethodGet, "/orders/member/list", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "member-1" {
			t.Fatalf("expected member id in context, got %q", rec.Body.String())
		}
	})

	t.Run("missing header", func(t *testing.T) {
		handler := RequireMember(stubResolver{memberID: "member-1"}, next)
		req := httptest.NewRequest(http.MethodGet, "/orders/member/list", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		handler := RequireMember(stubResolver{memberID: "member-1"}, next)
		req := httptest.NewRequest(http.MethodGet, "/orders/member/list", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		handler := RequireMember(stubResolver{err: errors.New("expired")}, next)
		req := httptest.NewRequest(http.MethodGet, "/orders/member/list", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
