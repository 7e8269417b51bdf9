package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/auth"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// TokenVerifier validates access tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller in the request context.
func Authenticate(verifier TokenVerifier, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				observeAuth(m, "missing")
				writeJSONError(w, http.StatusUnauthorized, "authentication credentials were not provided")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				observeAuth(m, "rejected")
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", claims.UserID)
			})

			ctx := domain.ContextWithPrincipal(r.Context(), claims.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func observeAuth(m *metrics.Metrics, status string) {
	if m != nil {
		m.AuthAttempts.WithLabelValues(status).Inc()
	}
}
