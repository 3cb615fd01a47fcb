package http

import (
	"context"
	"net/http"
	"strings"
)

type memberIDKey struct{}

// MemberResolver turns a bearer token into a member id.
type MemberResolver interface {
	MemberID(token string) (string, error)
}

// RequireMember rejects requests without a valid member token and puts
// the resolved member id into the request context.
func RequireMember(resolver MemberResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}

		memberID, err := resolver.MemberID(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), memberIDKey{}, memberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func memberIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(memberIDKey{}).(string)
	return id
}
