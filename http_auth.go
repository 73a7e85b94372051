package boards

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// AuthController serves the four account routes. Route registration and
// guard strategies live with the server wiring; the controller only knows
// its handlers.
type AuthController struct {
	auther     Authenticator
	logger     Logger
	contextKey string
	debug      bool
}

// NewAuthController builds the controller. contextKey must match the key
// the guard middleware stores the principal under.
func NewAuthController(auther Authenticator, contextKey string) *AuthController {
	return &AuthController{
		auther:     auther,
		logger:     defLogger{},
		contextKey: contextKey,
	}
}

// WithLogger replaces the fallback logger.
func (c *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithDebug enables request payload dumps.
func (c *AuthController) WithDebug(debug bool) *AuthController {
	c.debug = debug
	return c
}

// SignupPayload carries a registration request. Limits match what the
// account model accepts.
type SignupPayload struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Validate checks field formats and lengths.
func (p SignupPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Nickname, validation.Required, validation.Length(2, 20)),
		validation.Field(&p.Password, validation.Required, validation.Length(4, 20)),
	)
}

// LoginPayload carries a login request.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// Signup handles POST /api/auth/signup.
func (c *AuthController) Signup(ctx router.Context) error {
	payload := SignupPayload{}
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Debug("signup bind failed: %v", err)
		return RespondError(ctx, ErrNoEmptyString)
	}

	if c.debug {
		c.logger.Debug("signup payload: %s", print.MaybePrettyJSON(map[string]any{
			"email":    payload.Email,
			"nickname": payload.Nickname,
		}))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, err)
	}

	resp, err := c.auther.Register(ctx.Context(), RegisterPayload(payload))
	if err != nil {
		return RespondError(ctx, err)
	}

	return RespondSuccess(ctx, router.StatusOK, resp)
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(ctx router.Context) error {
	payload := LoginPayload{}
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Debug("login bind failed: %v", err)
		return RespondError(ctx, ErrInvalidCredentials)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, err)
	}

	resp, err := c.auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return RespondError(ctx, err)
	}

	return RespondSuccess(ctx, router.StatusOK, resp)
}

// Refresh handles POST /api/auth/refresh. The guard already verified the
// refresh token and attached the principal with the raw secret; matching
// against the stored credential happens in the orchestrator.
func (c *AuthController) Refresh(ctx router.Context) error {
	identity, ok := RouterIdentity(ctx, c.contextKey)
	if !ok {
		return RespondError(ctx, ErrRefreshTokenMissing)
	}

	tokens, err := c.auther.Refresh(ctx.Context(), identity.ID, identity.RefreshSecret)
	if err != nil {
		return RespondError(ctx, err)
	}

	return RespondSuccess(ctx, router.StatusOK, tokens)
}

// Logout handles POST /api/auth/logout. Always 204 for an authenticated
// caller, already logged out or not.
func (c *AuthController) Logout(ctx router.Context) error {
	identity, ok := RouterIdentity(ctx, c.contextKey)
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	if err := c.auther.Logout(ctx.Context(), identity.ID); err != nil {
		return RespondError(ctx, err)
	}

	return RespondNoContent(ctx)
}
