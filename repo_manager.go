package boards

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RepositoryManager bundles the repositories behind one handle and exposes
// transactional composition.
type RepositoryManager interface {
	Users() Users
	Boards() Boards
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
	MustValidate()
}

// NewRepositoryManager builds a manager over a live bun handle.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:     db,
		users:  NewUsersRepository(db),
		boards: NewBoardsRepository(db),
	}
}

type mngr struct {
	db     *bun.DB
	users  Users
	boards Boards
}

func (m *mngr) Users() Users   { return m.users }
func (m *mngr) Boards() Boards { return m.boards }

func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	return m.db.RunInTx(ctx, opts, fn)
}

func (m *mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository manager has no database handle", errors.CategoryInternal)
	}
	if m.users == nil {
		return errors.New("repository manager has no users repository", errors.CategoryInternal)
	}
	if m.boards == nil {
		return errors.New("repository manager has no boards repository", errors.CategoryInternal)
	}
	return nil
}

func (m *mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		panic(err)
	}
}
