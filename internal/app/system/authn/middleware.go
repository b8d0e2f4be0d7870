package authn

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/app/system/httpjson"
)

// Middleware rejects requests without a valid bearer token and stores the
// verified identity in the request context. onAuthenticated, when non-nil,
// is called for every authenticated request; the profile bookkeeping hook
// is wired there so this package stays free of storage concerns.
func Middleware(v Verifier, onAuthenticated func(Identity), log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				httpjson.Error(w, log, err)
				return
			}

			id, err := v.Verify(r.Context(), raw)
			if err != nil {
				httpjson.Error(w, log, err)
				return
			}

			if onAuthenticated != nil {
				onAuthenticated(id)
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", apperr.New(apperr.Unauthenticated, "missing authorization header")
	}
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperr.New(apperr.Unauthenticated, "authorization header must be a bearer token")
	}
	return strings.TrimSpace(token), nil
}

// CurrentIdentity reads the authenticated caller from r. It only fails on
// routes that skipped the middleware.
func CurrentIdentity(r *http.Request) (Identity, error) {
	return IdentityFromContext(r.Context())
}
