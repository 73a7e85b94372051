package boards_test

import (
	"context"
	"encoding/json"
	"testing"

	boards "github.com/goliatone/go-boards"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthenticator implements boards.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Register(ctx context.Context, payload boards.RegisterPayload) (*boards.AuthResponse, error) {
	args := m.Called(ctx, payload)
	if r := args.Get(0); r != nil {
		return r.(*boards.AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*boards.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if r := args.Get(0); r != nil {
		return r.(*boards.AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticator) Refresh(ctx context.Context, accountID int64, rawSecret string) (*boards.Tokens, error) {
	args := m.Called(ctx, accountID, rawSecret)
	if r := args.Get(0); r != nil {
		return r.(*boards.Tokens), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context, accountID int64) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func envelopeOf(t *testing.T, payload any) map[string]any {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestAuthControllerSignup(t *testing.T) {
	auther := &MockAuthenticator{}
	controller := boards.NewAuthController(auther, "user")

	resp := &boards.AuthResponse{
		User: boards.Profile{ID: 7, Email: "new@example.com", Nickname: "newbie"},
		Tokens: boards.Tokens{
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresIn:    3600,
		},
	}
	auther.On("Register", mock.Anything, boards.RegisterPayload{
		Email:    "new@example.com",
		Nickname: "newbie",
		Password: "sekret1234",
	}).Return(resp, nil)

	ctx := router.NewMockContext()
	ctx.On("Bind", mock.Anything).
		Run(func(args mock.Arguments) {
			p := args.Get(0).(*boards.SignupPayload)
			p.Email = "new@example.com"
			p.Nickname = "newbie"
			p.Password = "sekret1234"
		}).
		Return(nil)
	ctx.On("Context").Return(context.Background())

	var payload any
	ctx.On("JSON", router.StatusOK, mock.Anything).
		Run(func(args mock.Arguments) {
			payload = args.Get(1)
		}).
		Return(nil)

	require.NoError(t, controller.Signup(ctx))

	envelope := envelopeOf(t, payload)
	assert.Equal(t, true, envelope["success"])
	assert.NotEmpty(t, envelope["timestamp"])

	data := envelope["data"].(map[string]any)
	assert.Equal(t, "access", data["accessToken"])
	assert.Equal(t, "refresh", data["refreshToken"])
	assert.Equal(t, float64(3600), data["expiresIn"])
	assert.Equal(t, "new@example.com", data["user"].(map[string]any)["email"])

	auther.AssertExpectations(t)
}

func TestAuthControllerSignupRejectsInvalidPayload(t *testing.T) {
	auther := &MockAuthenticator{}
	controller := boards.NewAuthController(auther, "user")

	ctx := router.NewMockContext()
	ctx.On("Bind", mock.Anything).
		Run(func(args mock.Arguments) {
			p := args.Get(0).(*boards.SignupPayload)
			p.Email = "not-an-email"
			p.Nickname = "x"
			p.Password = "ok"
		}).
		Return(nil)
	ctx.On("OriginalURL").Return("/api/auth/signup")

	var status int
	ctx.On("JSON", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			status = args.Get(0).(int)
		}).
		Return(nil)

	require.NoError(t, controller.Signup(ctx))
	assert.Equal(t, router.StatusBadRequest, status)
	auther.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuthControllerSignupDuplicate(t *testing.T) {
	auther := &MockAuthenticator{}
	controller := boards.NewAuthController(auther, "user")

	auther.On("Register", mock.Anything, mock.Anything).Return(nil, boards.ErrDuplicateAccount)

	ctx := router.NewMockContext()
	ctx.On("Bind", mock.Anything).
		Run(func(args mock.Arguments) {
			p := args.Get(0).(*boards.SignupPayload)
			p.Email = "taken@example.com"
			p.Nickname = "dupe"
			p.Password = "sekret1234"
		}).
		Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("OriginalURL").Return("/api/auth/signup")

	var status int
	var payload any
	ctx.On("JSON", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			status = args.Get(0).(int)
			payload = args.Get(1)
		}).
		Return(nil)

	require.NoError(t, controller.Signup(ctx))
	assert.Equal(t, router.StatusConflict, status)

	envelope := envelopeOf(t, payload)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "/api/auth/signup", envelope["path"])
	assert.Equal(t, float64(router.StatusConflict), envelope["statusCode"])
}

func TestAuthControllerLoginFailure(t *testing.T) {
	auther := &MockAuthenticator{}
	controller := boards.NewAuthController(auther, "user")

	auther.On("Login", mock.Anything, "person@example.com", "wrong").
		Return(nil, boards.ErrInvalidCredentials)

	ctx := router.NewMockContext()
	ctx.On("Bind", mock.Anything).
		Run(func(args mock.Arguments) {
			p := args.Get(0).(*boards.LoginPayload)
			p.Email = "person@example.com"
			p.Password = "wrong"
		}).
		Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("OriginalURL").Return("/api/auth/login")

	var status int
	ctx.On("JSON", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			status = args.Get(0).(int)
		}).
		Return(nil)

	require.NoError(t, controller.Login(ctx))
	assert.Equal(t, router.StatusUnauthorized, status)
}

func TestAuthControllerRefresh(t *testing.T) {
	auther := &MockAuthenticator{}
	controller := boards.NewAuthController(auther, "user")

	tokens := &boards.Tokens{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 3600}
	auther.On("Refresh", mock.Anything, int64(42), "raw-refresh-token").Return(tokens, nil)

	ctx := router.NewMockContext()
	ctx.LocalsMock["user"] = &boards.Identity{
		ID:            42,
		Email:         "person@example.com",
		Role:          boards.RoleUser,
		RefreshSecret: "raw-refresh-token",
	}
	ctx.On("Context").Return(context.Background())

	var payload any
	ctx.On("JSON", router.StatusOK, mock.Anything).
		Run(func(args mock.Arguments) {
			payload = args.Get(1)
		}).
		Return(nil)

	require.NoError(t, controller.Refresh(ctx))

	data := envelopeOf(t, payload)["data"].(map[string]any)
	assert.Equal(t, "new-access", data["accessToken"])
	assert.Equal(t, "new-refresh", data["refreshToken"])

	auther.AssertExpectations(t)
}

func TestAuthControllerRefreshWithoutIdentity(t *testing.T) {
	auther := &MockAuthenticator{}
	controller := boards.NewAuthController(auther, "user")

	ctx := router.NewMockContext()
	ctx.On("OriginalURL").Return("/api/auth/refresh")

	var status int
	ctx.On("JSON", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			status = args.Get(0).(int)
		}).
		Return(nil)

	require.NoError(t, controller.Refresh(ctx))
	assert.Equal(t, router.StatusUnauthorized, status)
	auther.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthControllerLogout(t *testing.T) {
	auther := &MockAuthenticator{}
	controller := boards.NewAuthController(auther, "user")

	auther.On("Logout", mock.Anything, int64(42)).Return(nil)

	ctx := router.NewMockContext()
	ctx.LocalsMock["user"] = &boards.Identity{ID: 42}
	ctx.On("Context").Return(context.Background())
	ctx.On("Status", router.StatusNoContent).Return(ctx)
	ctx.On("SendString", "").Return(nil)

	require.NoError(t, controller.Logout(ctx))
	auther.AssertExpectations(t)
}
