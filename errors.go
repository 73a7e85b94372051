package boards

import (
	"github.com/goliatone/go-errors"
)

// Text codes returned in error envelopes. Stable across releases; clients
// branch on these rather than on messages.
const (
	TextCodeEmailExists        = "AUTH_EMAIL_EXISTS"
	TextCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	TextCodeUnauthenticated    = "AUTH_UNAUTHENTICATED"
	TextCodeRefreshMissing     = "AUTH_REFRESH_TOKEN_MISSING"
	TextCodeTokenInvalid       = "AUTH_TOKEN_INVALID"
	TextCodeAccessDenied       = "AUTH_ACCESS_DENIED"
	TextCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	TextCodeBoardNotFound      = "BOARD_NOT_FOUND"
	TextCodeNotOwner           = "FORBIDDEN_RESOURCE"
)

// ErrDuplicateAccount is returned when registration targets an email that
// already has an account.
var ErrDuplicateAccount = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailExists).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials collapses unknown-email and wrong-password login
// failures into one answer so the login surface cannot be used to probe
// which emails have accounts.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is returned when a protected route is reached without
// a usable access token.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrRefreshTokenMissing is returned when the refresh route is reached
// without a bearer credential.
var ErrRefreshTokenMissing = errors.New("refresh token required", errors.CategoryAuth).
	WithTextCode(TextCodeRefreshMissing).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is the uniform verification failure: expired, malformed,
// bad signature, and wrong token kind all collapse into it. The specific
// reason is logged server-side only.
var ErrTokenInvalid = errors.New("token is invalid or expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrAccessDenied is returned when a refresh is attempted with a token that
// verified but does not match the stored credential: after logout, after a
// concurrent rotation, or for a vanished account.
var ErrAccessDenied = errors.New("access denied", errors.CategoryAuth).
	WithTextCode(TextCodeAccessDenied).
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotFound is returned for lookups of accounts that do not exist.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrBoardNotFound is returned for lookups of boards that do not exist.
var ErrBoardNotFound = errors.New("board not found", errors.CategoryNotFound).
	WithTextCode(TextCodeBoardNotFound).
	WithCode(errors.CodeNotFound)

// ErrNotOwner is returned when a principal mutates a resource it does not
// own.
var ErrNotOwner = errors.New("resource belongs to another account", errors.CategoryAuth).
	WithTextCode(TextCodeNotOwner).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects blank secrets before they reach the hasher.
var ErrNoEmptyString = errors.New("value cannot be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrRefreshCredentialStale signals a lost compare-and-swap during refresh
// rotation; the orchestrator maps it to ErrAccessDenied.
var ErrRefreshCredentialStale = errors.New("stored refresh credential changed", errors.CategoryConflict).
	WithCode(errors.CodeConflict)
