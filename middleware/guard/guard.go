// Package guard is the route-level authorization dispatcher. Each route is
// registered with exactly one strategy; the zero value requires a valid
// access token so forgetting to configure a route fails closed, never open.
package guard

import (
	"context"
	"strings"

	boards "github.com/goliatone/go-boards"
	"github.com/goliatone/go-router"
)

var defaultTokenLookup = "header:" + router.HeaderAuthorization

// Strategy selects how a route authenticates its caller.
type Strategy int

const (
	// StrategyAccessRequired verifies an access token and attaches the
	// principal. Zero value on purpose.
	StrategyAccessRequired Strategy = iota
	// StrategyPublic skips authentication entirely.
	StrategyPublic
	// StrategyRefreshRequired verifies a refresh token and attaches the
	// principal carrying the raw secret for the orchestrator to match.
	StrategyRefreshRequired
)

func (s Strategy) String() string {
	switch s {
	case StrategyPublic:
		return "public"
	case StrategyRefreshRequired:
		return "refresh-required"
	default:
		return "access-required"
	}
}

// TokenVerifier mirrors the verification surface of the token service
// without importing it concretely.
type TokenVerifier interface {
	VerifyAccessToken(raw string) (*boards.TokenClaims, error)
	VerifyRefreshToken(raw string) (*boards.TokenClaims, error)
}

// AccountDirectory resolves token subjects to live accounts.
type AccountDirectory interface {
	GetByID(ctx context.Context, id int64) (*boards.User, error)
}

// Config configures one guard instance. Verifier and Directory are
// required for the non-public strategies.
type Config struct {
	Strategy       Strategy
	Verifier       TokenVerifier
	Directory      AccountDirectory
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	ContextKey     string
	TokenLookup    string
	AuthScheme     string

	// ContextEnricher propagates the principal into the standard context
	// when set; handlers that only need router locals can leave it nil.
	ContextEnricher func(ctx context.Context, identity *boards.Identity) context.Context

	Logger boards.Logger
}

// New builds the middleware for one route strategy.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Strategy == StrategyPublic {
				return cfg.SuccessHandler(ctx)
			}

			if cfg.Filter != nil && cfg.Filter(ctx) {
				return cfg.SuccessHandler(ctx)
			}

			raw, err := ExtractRawToken(ctx, cfg.getExtractors())
			if err != nil || raw == "" {
				return cfg.ErrorHandler(ctx, cfg.missingCredentialError())
			}

			identity, err := cfg.resolveIdentity(ctx.Context(), raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, identity)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), identity))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

func (cfg *Config) resolveIdentity(ctx context.Context, raw string) (*boards.Identity, error) {
	var claims *boards.TokenClaims
	var err error

	switch cfg.Strategy {
	case StrategyRefreshRequired:
		claims, err = cfg.Verifier.VerifyRefreshToken(raw)
	default:
		claims, err = cfg.Verifier.VerifyAccessToken(raw)
	}
	if err != nil {
		return nil, err
	}

	accountID, err := claims.AccountID()
	if err != nil {
		cfg.Logger.Debug("token subject rejected: %v", err)
		return nil, boards.ErrTokenInvalid
	}

	user, err := cfg.Directory.GetByID(ctx, accountID)
	if err != nil {
		cfg.Logger.Debug("token subject has no account: id=%d err=%v", accountID, err)
		if cfg.Strategy == StrategyRefreshRequired {
			return nil, boards.ErrAccessDenied
		}
		return nil, boards.ErrUnauthenticated
	}

	identity := &boards.Identity{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
	if cfg.Strategy == StrategyRefreshRequired {
		identity.RefreshSecret = raw
	}

	return identity, nil
}

func (cfg *Config) missingCredentialError() error {
	if cfg.Strategy == StrategyRefreshRequired {
		return boards.ErrRefreshTokenMissing
	}
	return boards.ErrUnauthenticated
}

// GetDefaultConfig fills in the defaults for a guard configuration and
// panics on configurations that could not possibly authenticate anyone.
func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			return boards.RespondError(c, err)
		}
	}

	if cfg.Strategy != StrategyPublic {
		if cfg.Verifier == nil {
			panic("guard: middleware configuration requires a Verifier")
		}
		if cfg.Directory == nil {
			panic("guard: middleware configuration requires a Directory")
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	return cfg
}

// ExtractRawToken walks the extractors and returns the first credential
// found.
func ExtractRawToken(ctx router.Context, extractors []TokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// GetExtractors parses a lookup definition like
// "header:Authorization,query:token" into extractor functions.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		source := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])

		switch source {
		case "header":
			extractors = append(extractors, tokenFromHeader(name, authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(name))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(name))
		}
	}

	return extractors
}

// TokenExtractor pulls a raw credential out of the request.
type TokenExtractor func(c router.Context) (string, error)

func tokenFromHeader(header, authScheme string) TokenExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		scheme := strings.TrimSpace(authScheme)
		l := len(scheme)
		if l == 0 || len(a) <= l+1 || !strings.EqualFold(a[:l], scheme) {
			return "", boards.ErrUnauthenticated
		}
		return strings.TrimSpace(a[l:]), nil
	}
}

func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", boards.ErrUnauthenticated
		}
		return token, nil
	}
}

func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", boards.ErrUnauthenticated
		}
		return token, nil
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
