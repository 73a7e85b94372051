package boards

import (
	"context"

	"github.com/goliatone/go-errors"
)

// RegisterPayload carries the fields needed to open an account.
type RegisterPayload struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// AuthResponse is returned by Register and Login: the public profile plus a
// fresh token pair.
type AuthResponse struct {
	User Profile `json:"user"`
	Tokens
}

// Auther orchestrates the account flows over the token service and the
// refresh credential store.
type Auther struct {
	repo   RepositoryManager
	tokens *TokenService
	store  *RefreshTokenStore
	logger Logger
}

// NewAuthenticator wires the orchestrator from config and the repository
// manager.
func NewAuthenticator(repo RepositoryManager, cfg Config) *Auther {
	return &Auther{
		repo:   repo,
		tokens: NewTokenService(cfg),
		store:  NewRefreshTokenStore(repo.Users()),
		logger: defLogger{},
	}
}

// WithLogger replaces the fallback logger on the orchestrator and its
// collaborators.
func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
		a.tokens.WithLogger(logger)
		a.store.WithLogger(logger)
	}
	return a
}

// TokenService exposes the verifier for middleware wiring.
func (a *Auther) TokenService() *TokenService {
	return a.tokens
}

// Register opens an account and starts a session. A taken email fails with
// ErrDuplicateAccount whether it is caught by the pre-check or by the
// unique constraint underneath.
func (a *Auther) Register(ctx context.Context, payload RegisterPayload) (*AuthResponse, error) {
	exists, err := a.repo.Users().ExistsByEmail(ctx, payload.Email)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "registration lookup failed")
	}
	if exists {
		return nil, ErrDuplicateAccount
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	user, err := a.repo.Users().Create(ctx, &User{
		Email:        payload.Email,
		Nickname:     payload.Nickname,
		PasswordHash: hash,
		Role:         RoleUser,
	})
	if err != nil {
		return nil, err
	}

	return a.startSession(ctx, user)
}

// Login verifies the password and starts a session. An unknown email and a
// wrong password are indistinguishable to the caller.
func (a *Auther) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := a.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "login lookup failed")
	}

	if !VerifySecret(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return a.startSession(ctx, user)
}

// Refresh exchanges a verified refresh credential for a fresh pair and
// retires the one presented. A credential that verified cryptographically
// but is not the stored one, or races another refresh, is denied; both
// lose nothing server-side since the stored hash only moves forward.
func (a *Auther) Refresh(ctx context.Context, accountID int64, rawSecret string) (*Tokens, error) {
	user, err := a.repo.Users().GetByID(ctx, accountID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrAccessDenied
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "refresh lookup failed")
	}

	if !a.store.Matches(user, rawSecret) {
		a.logger.Debug("refresh denied: stored credential mismatch account=%d", accountID)
		return nil, ErrAccessDenied
	}

	pair, err := a.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}

	if err := a.store.RotateFrom(ctx, user.ID, user.RefreshTokenHash, pair.RefreshToken); err != nil {
		if errors.Is(err, ErrRefreshCredentialStale) {
			a.logger.Debug("refresh denied: lost rotation race account=%d", accountID)
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	return pair, nil
}

// Logout drops the stored refresh credential. Logging out twice, or for an
// account that never logged in, succeeds.
func (a *Auther) Logout(ctx context.Context, accountID int64) error {
	return a.store.Clear(ctx, accountID)
}

func (a *Auther) startSession(ctx context.Context, user *User) (*AuthResponse, error) {
	pair, err := a.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}

	if err := a.store.Rotate(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist session credential")
	}

	return &AuthResponse{
		User:   user.Profile(),
		Tokens: *pair,
	}, nil
}
