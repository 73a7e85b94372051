package boards

import (
	"context"

	"github.com/goliatone/go-router"
)

type contextKey struct {
	name string
}

func (k *contextKey) String() string { return "boards context value " + k.name }

var identityContextKey = &contextKey{"identity"}

// WithIdentity returns a context carrying the authenticated principal.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	if identity == nil {
		return ctx
	}
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the principal stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	return identity, ok && identity != nil
}

// RouterIdentity retrieves the principal the authorization middleware left
// in the router locals under the given key.
func RouterIdentity(ctx router.Context, key string) (*Identity, bool) {
	identity, ok := ctx.Locals(key).(*Identity)
	return identity, ok && identity != nil
}
