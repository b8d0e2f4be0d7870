// Package authn authenticates API requests from bearer tokens issued by
// the identity provider. The middleware attaches the verified Identity to
// the request context; handlers read it back with CurrentIdentity.
package authn

import (
	"context"

	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
)

// Identity is the verified caller of a request.
type Identity struct {
	UID     string
	Name    string
	Email   string
	Picture string
}

// Verifier checks a raw bearer token and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}

type ctxKey struct{}

// ContextWithIdentity returns a context carrying id. Exposed for handler
// tests that bypass the middleware.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity set by the middleware.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UID == "" {
		return Identity{}, apperr.New(apperr.Unauthenticated, "authentication required")
	}
	return id, nil
}
