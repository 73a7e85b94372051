package boards

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
)

// UserController serves account listing and self-service management. Every
// route requires an access token; mutations are limited to the account
// owner and admins.
type UserController struct {
	repo       RepositoryManager
	logger     Logger
	contextKey string
}

// NewUserController builds the controller.
func NewUserController(repo RepositoryManager, contextKey string) *UserController {
	return &UserController{
		repo:       repo,
		logger:     defLogger{},
		contextKey: contextKey,
	}
}

// WithLogger replaces the fallback logger.
func (c *UserController) WithLogger(logger Logger) *UserController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// UpdateUserPayload carries a partial profile update; nil fields are left
// untouched. A new password is re-hashed before it is stored.
type UpdateUserPayload struct {
	Nickname *string `json:"nickname"`
	Password *string `json:"password"`
}

// Validate checks whichever fields are present.
func (p UpdateUserPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Nickname, validation.NilOrNotEmpty, validation.Length(2, 20)),
		validation.Field(&p.Password, validation.NilOrNotEmpty, validation.Length(4, 20)),
	)
}

// List handles GET /api/users.
func (c *UserController) List(ctx router.Context) error {
	users, err := c.repo.Users().List(ctx.Context())
	if err != nil {
		return RespondError(ctx, err)
	}

	profiles := make([]Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}

	return RespondSuccess(ctx, router.StatusOK, profiles)
}

// Get handles GET /api/users/:id.
func (c *UserController) Get(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RespondError(ctx, ErrAccountNotFound)
	}

	user, err := c.repo.Users().GetByID(ctx.Context(), id)
	if err != nil {
		return RespondError(ctx, err)
	}

	return RespondSuccess(ctx, router.StatusOK, user.Profile())
}

// Update handles PATCH /api/users/:id.
func (c *UserController) Update(ctx router.Context) error {
	identity, ok := RouterIdentity(ctx, c.contextKey)
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	id, err := pathID(ctx)
	if err != nil {
		return RespondError(ctx, ErrAccountNotFound)
	}

	if !identity.CanManage(id) {
		return RespondError(ctx, ErrNotOwner)
	}

	payload := UpdateUserPayload{}
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Debug("user update bind failed: %v", err)
		return RespondError(ctx, ErrNoEmptyString)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, err)
	}

	user, err := c.repo.Users().GetByID(ctx.Context(), id)
	if err != nil {
		return RespondError(ctx, err)
	}

	if payload.Nickname != nil {
		user.Nickname = *payload.Nickname
	}
	if payload.Password != nil {
		hash, err := HashPassword(*payload.Password)
		if err != nil {
			return RespondError(ctx, err)
		}
		user.PasswordHash = hash
	}

	if _, err := c.repo.Users().Update(ctx.Context(), user); err != nil {
		return RespondError(ctx, err)
	}

	return RespondSuccess(ctx, router.StatusOK, user.Profile())
}

// Delete handles DELETE /api/users/:id.
func (c *UserController) Delete(ctx router.Context) error {
	identity, ok := RouterIdentity(ctx, c.contextKey)
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	id, err := pathID(ctx)
	if err != nil {
		return RespondError(ctx, ErrAccountNotFound)
	}

	if !identity.CanManage(id) {
		return RespondError(ctx, ErrNotOwner)
	}

	if err := c.repo.Users().Delete(ctx.Context(), id); err != nil {
		return RespondError(ctx, err)
	}

	return RespondNoContent(ctx)
}
