package boards

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Tokens is the credential pair returned by every successful auth flow.
// ExpiresIn is the access token lifetime in seconds; the refresh token
// outlives it and its lifetime is not exposed to clients.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// TokenService issues and verifies the two token kinds. Each kind has its
// own HS256 secret and lifetime; the same signer/verifier code runs twice
// with different parameters.
type TokenService struct {
	access  tokenSigner
	refresh tokenSigner
	logger  Logger
}

// NewTokenService builds a service from config. Lifetimes are read in
// seconds.
func NewTokenService(cfg Config) *TokenService {
	return &TokenService{
		access: tokenSigner{
			kind:     TokenKindAccess,
			key:      []byte(cfg.GetAccessSigningKey()),
			ttl:      time.Duration(cfg.GetAccessTokenExpiration()) * time.Second,
			issuer:   cfg.GetIssuer(),
			audience: cfg.GetAudience(),
		},
		refresh: tokenSigner{
			kind:     TokenKindRefresh,
			key:      []byte(cfg.GetRefreshSigningKey()),
			ttl:      time.Duration(cfg.GetRefreshTokenExpiration()) * time.Second,
			issuer:   cfg.GetIssuer(),
			audience: cfg.GetAudience(),
		},
		logger: defLogger{},
	}
}

// WithLogger replaces the fallback logger.
func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// IssuePair signs a fresh access/refresh pair for the account. The two
// tokens are always minted together; callers never issue one kind alone.
func (ts *TokenService) IssuePair(user *User) (*Tokens, error) {
	now := time.Now()

	access, err := ts.access.sign(user, now)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to sign access token")
	}

	refresh, err := ts.refresh.sign(user, now)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to sign refresh token")
	}

	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(ts.access.ttl / time.Second),
	}, nil
}

// VerifyAccessToken parses and validates an access token. Every failure
// collapses to ErrTokenInvalid; the underlying reason is logged only.
func (ts *TokenService) VerifyAccessToken(raw string) (*TokenClaims, error) {
	return ts.verify(ts.access, raw)
}

// VerifyRefreshToken parses and validates a refresh token under the refresh
// secret. An access token presented here fails even when the secrets match,
// because the kind claim will not.
func (ts *TokenService) VerifyRefreshToken(raw string) (*TokenClaims, error) {
	return ts.verify(ts.refresh, raw)
}

func (ts *TokenService) verify(signer tokenSigner, raw string) (*TokenClaims, error) {
	claims, err := signer.verify(raw)
	if err != nil {
		ts.logger.Debug("token rejected: kind=%s err=%v", signer.kind, err)
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

type tokenSigner struct {
	kind     TokenKind
	key      []byte
	ttl      time.Duration
	issuer   string
	audience jwt.ClaimStrings
}

func (s tokenSigner) sign(user *User, now time.Time) (string, error) {
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.issuer,
			Audience:  s.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: user.Email,
		Role:  user.Role,
		Kind:  s.kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

func (s tokenSigner) verify(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method", errors.CategoryAuth).
				WithMetadata(map[string]any{"alg": t.Header["alg"]})
		}
		return s.key, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("token failed validation", errors.CategoryAuth)
	}

	if claims.Kind != s.kind {
		return nil, errors.New("token kind mismatch", errors.CategoryAuth).
			WithMetadata(map[string]any{"want": s.kind, "got": claims.Kind})
	}

	return claims, nil
}
