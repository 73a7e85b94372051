package boards

import (
	"time"

	"github.com/uptrace/bun"
)

// UserRole is the authorization role stored on an account. Only two roles
// exist; admins may manage resources owned by other accounts.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r UserRole) String() string { return string(r) }

// User is an account row. PasswordHash and RefreshTokenHash never serialize;
// RefreshTokenHash is nil when the account has no active session and is
// mutated only through the refresh credential store.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	Email            string    `bun:"email,notnull,unique" json:"email"`
	Nickname         string    `bun:"nickname,notnull" json:"nickname"`
	PasswordHash     string    `bun:"password_hash,notnull" json:"-"`
	Role             UserRole  `bun:"role,notnull,default:'user'" json:"role"`
	RefreshTokenHash *string   `bun:"refresh_token_hash" json:"-"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// HasActiveSession reports whether a refresh credential is stored for the
// account.
func (u *User) HasActiveSession() bool {
	return u != nil && u.RefreshTokenHash != nil
}

// Profile returns the public projection of the account.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		CreatedAt: u.CreatedAt,
	}
}

// Profile is the account shape exposed over HTTP.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
}

// Board is a content row authored by one account.
type Board struct {
	bun.BaseModel `bun:"table:boards,alias:brd"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Content   string    `bun:"content,notnull" json:"content"`
	UserID    int64     `bun:"user_id,notnull" json:"userId"`
	User      *User     `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Response returns the HTTP projection of the board with the author
// flattened in.
func (b *Board) Response() BoardResponse {
	resp := BoardResponse{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.User != nil {
		resp.UserNickname = b.User.Nickname
		resp.UserEmail = b.User.Email
	}
	return resp
}

// BoardResponse is the board shape exposed over HTTP.
type BoardResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	UserNickname string    `json:"userNickname"`
	UserEmail    string    `json:"userEmail"`
}

// BoardResponses maps a result set to its HTTP projection.
func BoardResponses(items []*Board) []BoardResponse {
	out := make([]BoardResponse, 0, len(items))
	for _, b := range items {
		out = append(out, b.Response())
	}
	return out
}
