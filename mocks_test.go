package boards_test

import (
	"context"
	"database/sql"

	boards "github.com/goliatone/go-boards"
	"github.com/goliatone/go-boards/search"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// testConfig implements boards.Config with short, distinct secrets.
type testConfig struct {
	accessKey  string
	refreshKey string
	accessTTL  int
	refreshTTL int
}

func newTestConfig() *testConfig {
	return &testConfig{
		accessKey:  "access-secret",
		refreshKey: "refresh-secret",
		accessTTL:  3600,
		refreshTTL: 604800,
	}
}

func (c *testConfig) GetAccessSigningKey() string     { return c.accessKey }
func (c *testConfig) GetRefreshSigningKey() string    { return c.refreshKey }
func (c *testConfig) GetAccessTokenExpiration() int   { return c.accessTTL }
func (c *testConfig) GetRefreshTokenExpiration() int  { return c.refreshTTL }
func (c *testConfig) GetIssuer() string               { return "boards-test" }
func (c *testConfig) GetAudience() []string           { return []string{"boards-test"} }
func (c *testConfig) GetAuthScheme() string           { return "Bearer" }
func (c *testConfig) GetContextKey() string           { return "user" }

// MockUsers implements boards.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id int64) (*boards.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*boards.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*boards.User, error) {
	args := m.Called(ctx, tx, id)
	if u := args.Get(0); u != nil {
		return u.(*boards.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*boards.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*boards.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*boards.User, error) {
	args := m.Called(ctx, tx, email)
	if u := args.Get(0); u != nil {
		return u.(*boards.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsers) ExistsByEmailTx(ctx context.Context, tx bun.IDB, email string) (bool, error) {
	args := m.Called(ctx, tx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, user *boards.User) (*boards.User, error) {
	args := m.Called(ctx, user)
	if u := args.Get(0); u != nil {
		return u.(*boards.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, user *boards.User) (*boards.User, error) {
	args := m.Called(ctx, tx, user)
	if u := args.Get(0); u != nil {
		return u.(*boards.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) Update(ctx context.Context, user *boards.User) (*boards.User, error) {
	args := m.Called(ctx, user)
	if u := args.Get(0); u != nil {
		return u.(*boards.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) UpdateTx(ctx context.Context, tx bun.IDB, user *boards.User) (*boards.User, error) {
	args := m.Called(ctx, tx, user)
	if u := args.Get(0); u != nil {
		return u.(*boards.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUsers) DeleteTx(ctx context.Context, tx bun.IDB, id int64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockUsers) List(ctx context.Context) ([]*boards.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]*boards.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) ListTx(ctx context.Context, tx bun.IDB) ([]*boards.User, error) {
	args := m.Called(ctx, tx)
	if u := args.Get(0); u != nil {
		return u.([]*boards.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) UpdateRefreshTokenHash(ctx context.Context, id int64, hash *string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUsers) UpdateRefreshTokenHashTx(ctx context.Context, tx bun.IDB, id int64, hash *string) error {
	args := m.Called(ctx, tx, id, hash)
	return args.Error(0)
}

func (m *MockUsers) RotateRefreshTokenHash(ctx context.Context, id int64, expected, next *string) error {
	args := m.Called(ctx, id, expected, next)
	return args.Error(0)
}

func (m *MockUsers) RotateRefreshTokenHashTx(ctx context.Context, tx bun.IDB, id int64, expected, next *string) error {
	args := m.Called(ctx, tx, id, expected, next)
	return args.Error(0)
}

// MockBoards implements boards.Boards
type MockBoards struct {
	mock.Mock
}

func (m *MockBoards) GetByID(ctx context.Context, id int64) (*boards.Board, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*boards.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBoards) GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*boards.Board, error) {
	args := m.Called(ctx, tx, id)
	if b := args.Get(0); b != nil {
		return b.(*boards.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBoards) List(ctx context.Context) ([]*boards.Board, error) {
	args := m.Called(ctx)
	if b := args.Get(0); b != nil {
		return b.([]*boards.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBoards) ListTx(ctx context.Context, tx bun.IDB) ([]*boards.Board, error) {
	args := m.Called(ctx, tx)
	if b := args.Get(0); b != nil {
		return b.([]*boards.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBoards) Create(ctx context.Context, board *boards.Board) (*boards.Board, error) {
	args := m.Called(ctx, board)
	if b := args.Get(0); b != nil {
		return b.(*boards.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBoards) CreateTx(ctx context.Context, tx bun.IDB, board *boards.Board) (*boards.Board, error) {
	args := m.Called(ctx, tx, board)
	if b := args.Get(0); b != nil {
		return b.(*boards.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBoards) Update(ctx context.Context, board *boards.Board) (*boards.Board, error) {
	args := m.Called(ctx, board)
	if b := args.Get(0); b != nil {
		return b.(*boards.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBoards) UpdateTx(ctx context.Context, tx bun.IDB, board *boards.Board) (*boards.Board, error) {
	args := m.Called(ctx, tx, board)
	if b := args.Get(0); b != nil {
		return b.(*boards.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBoards) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBoards) DeleteTx(ctx context.Context, tx bun.IDB, id int64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockRepositoryManager implements boards.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
	users  *MockUsers
	boards *MockBoards
}

func NewMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		users:  &MockUsers{},
		boards: &MockBoards{},
	}
}

func (m *MockRepositoryManager) Users() boards.Users   { return m.users }
func (m *MockRepositoryManager) Boards() boards.Boards { return m.boards }

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Validate() error { return nil }
func (m *MockRepositoryManager) MustValidate()   {}

// MockIndexer implements boards.BoardIndexer
type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) Index(doc search.Document) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *MockIndexer) Remove(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}
