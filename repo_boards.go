package boards

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Boards is the content repository. Reads eagerly load the author relation
// since every HTTP projection needs the author's nickname and email.
type Boards interface {
	GetByID(ctx context.Context, id int64) (*Board, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*Board, error)
	List(ctx context.Context) ([]*Board, error)
	ListTx(ctx context.Context, tx bun.IDB) ([]*Board, error)
	Create(ctx context.Context, board *Board) (*Board, error)
	CreateTx(ctx context.Context, tx bun.IDB, board *Board) (*Board, error)
	Update(ctx context.Context, board *Board) (*Board, error)
	UpdateTx(ctx context.Context, tx bun.IDB, board *Board) (*Board, error)
	Delete(ctx context.Context, id int64) error
	DeleteTx(ctx context.Context, tx bun.IDB, id int64) error
}

// NewBoardsRepository builds the bun-backed board repository.
func NewBoardsRepository(db *bun.DB) Boards {
	return &boardsRepo{db: db}
}

type boardsRepo struct {
	db *bun.DB
}

func (r *boardsRepo) GetByID(ctx context.Context, id int64) (*Board, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

func (r *boardsRepo) GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*Board, error) {
	board := &Board{}
	err := tx.NewSelect().
		Model(board).
		Relation("User").
		Where("brd.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load board")
	}
	return board, nil
}

func (r *boardsRepo) List(ctx context.Context) ([]*Board, error) {
	return r.ListTx(ctx, r.db)
}

func (r *boardsRepo) ListTx(ctx context.Context, tx bun.IDB) ([]*Board, error) {
	var items []*Board
	err := tx.NewSelect().
		Model(&items).
		Relation("User").
		Order("brd.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list boards")
	}
	return items, nil
}

func (r *boardsRepo) Create(ctx context.Context, board *Board) (*Board, error) {
	return r.CreateTx(ctx, r.db, board)
}

func (r *boardsRepo) CreateTx(ctx context.Context, tx bun.IDB, board *Board) (*Board, error) {
	_, err := tx.NewInsert().
		Model(board).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create board")
	}
	return board, nil
}

func (r *boardsRepo) Update(ctx context.Context, board *Board) (*Board, error) {
	return r.UpdateTx(ctx, r.db, board)
}

func (r *boardsRepo) UpdateTx(ctx context.Context, tx bun.IDB, board *Board) (*Board, error) {
	board.UpdatedAt = time.Now()
	res, err := tx.NewUpdate().
		Model(board).
		Column("title", "content", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update board")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrBoardNotFound
	}
	return board, nil
}

func (r *boardsRepo) Delete(ctx context.Context, id int64) error {
	return r.DeleteTx(ctx, r.db, id)
}

func (r *boardsRepo) DeleteTx(ctx context.Context, tx bun.IDB, id int64) error {
	res, err := tx.NewDelete().
		Model((*Board)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete board")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrBoardNotFound
	}
	return nil
}
