package boards

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface this package depends on. Any
// structured logger can be adapted; cmd/server wires goliatone/go-logger.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config exposes the settings the session subsystem needs. Lifetimes are in
// seconds. The access and refresh signing keys must differ; tokens signed
// with one are never valid under the other.
type Config interface {
	GetAccessSigningKey() string
	GetRefreshSigningKey() string
	GetAccessTokenExpiration() int
	GetRefreshTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetAuthScheme() string
	GetContextKey() string
}

// Authenticator drives the four account flows. Register and Login return a
// profile plus a fresh token pair; Refresh returns a new pair and retires
// the one presented; Logout clears the stored refresh credential and is
// idempotent.
type Authenticator interface {
	Register(ctx context.Context, payload RegisterPayload) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Refresh(ctx context.Context, accountID int64, rawSecret string) (*Tokens, error)
	Logout(ctx context.Context, accountID int64) error
}

// Identity is the request-scoped principal attached by the authorization
// middleware after a token verifies. RefreshSecret is populated only on the
// refresh path and carries the raw bearer secret so the orchestrator can
// match it against the stored hash.
type Identity struct {
	ID            int64
	Email         string
	Role          UserRole
	RefreshSecret string
}

// IsAdmin reports whether the principal carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// CanManage reports whether the principal may mutate a resource owned by
// the given account: owners and admins only.
func (i *Identity) CanManage(ownerID int64) bool {
	if i == nil {
		return false
	}
	return i.ID == ownerID || i.IsAdmin()
}

type defLogger struct{}

func (l defLogger) Debug(format string, args ...any) { fmt.Printf(format+"\n", args...) }
func (l defLogger) Info(format string, args ...any)  { fmt.Printf(format+"\n", args...) }
func (l defLogger) Warn(format string, args ...any)  { fmt.Printf(format+"\n", args...) }
func (l defLogger) Error(format string, args ...any) { fmt.Printf(format+"\n", args...) }
