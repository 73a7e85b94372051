package boards

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the account directory. Every method has a Tx variant taking an
// explicit bun.IDB so flows can compose inside a transaction.
type Users interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailTx(ctx context.Context, tx bun.IDB, email string) (bool, error)
	Create(ctx context.Context, user *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	UpdateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Delete(ctx context.Context, id int64) error
	DeleteTx(ctx context.Context, tx bun.IDB, id int64) error
	List(ctx context.Context) ([]*User, error)
	ListTx(ctx context.Context, tx bun.IDB) ([]*User, error)
	UpdateRefreshTokenHash(ctx context.Context, id int64, hash *string) error
	UpdateRefreshTokenHashTx(ctx context.Context, tx bun.IDB, id int64, hash *string) error
	RotateRefreshTokenHash(ctx context.Context, id int64, expected, next *string) error
	RotateRefreshTokenHashTx(ctx context.Context, tx bun.IDB, id int64, expected, next *string) error
}

// NewUsersRepository builds the bun-backed account directory.
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

type users struct {
	db *bun.DB
}

func (r *users) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

func (r *users) GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*User, error) {
	user := &User{}
	err := tx.NewSelect().
		Model(user).
		Where("usr.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load account")
	}
	return user, nil
}

func (r *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.GetByEmailTx(ctx, r.db, email)
}

func (r *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	user := &User{}
	err := tx.NewSelect().
		Model(user).
		Where("usr.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load account")
	}
	return user, nil
}

func (r *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.ExistsByEmailTx(ctx, r.db, email)
}

func (r *users) ExistsByEmailTx(ctx context.Context, tx bun.IDB, email string) (bool, error) {
	exists, err := tx.NewSelect().
		Model((*User)(nil)).
		Where("usr.email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check account email")
	}
	return exists, nil
}

func (r *users) Create(ctx context.Context, user *User) (*User, error) {
	return r.CreateTx(ctx, r.db, user)
}

func (r *users) CreateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	if user.Role == "" {
		user.Role = RoleUser
	}
	_, err := tx.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAccount
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create account")
	}
	return user, nil
}

func (r *users) Update(ctx context.Context, user *User) (*User, error) {
	return r.UpdateTx(ctx, r.db, user)
}

func (r *users) UpdateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	res, err := tx.NewUpdate().
		Model(user).
		Column("nickname", "password_hash", "role").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update account")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrAccountNotFound
	}
	return user, nil
}

func (r *users) Delete(ctx context.Context, id int64) error {
	return r.DeleteTx(ctx, r.db, id)
}

func (r *users) DeleteTx(ctx context.Context, tx bun.IDB, id int64) error {
	res, err := tx.NewDelete().
		Model((*User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete account")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *users) List(ctx context.Context) ([]*User, error) {
	return r.ListTx(ctx, r.db)
}

func (r *users) ListTx(ctx context.Context, tx bun.IDB) ([]*User, error) {
	var items []*User
	err := tx.NewSelect().
		Model(&items).
		Order("usr.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list accounts")
	}
	return items, nil
}

func (r *users) UpdateRefreshTokenHash(ctx context.Context, id int64, hash *string) error {
	return r.UpdateRefreshTokenHashTx(ctx, r.db, id, hash)
}

// UpdateRefreshTokenHashTx overwrites the stored refresh credential
// unconditionally. Zero affected rows is not an error so that clearing a
// vanished account stays idempotent.
func (r *users) UpdateRefreshTokenHashTx(ctx context.Context, tx bun.IDB, id int64, hash *string) error {
	_, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("refresh_token_hash = ?", hash).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to update refresh credential")
	}
	return nil
}

func (r *users) RotateRefreshTokenHash(ctx context.Context, id int64, expected, next *string) error {
	return r.RotateRefreshTokenHashTx(ctx, r.db, id, expected, next)
}

// RotateRefreshTokenHashTx swaps the stored refresh credential only if it
// still holds the expected value. When two refreshes race, the row matches
// exactly one of them; the loser gets ErrRefreshCredentialStale.
func (r *users) RotateRefreshTokenHashTx(ctx context.Context, tx bun.IDB, id int64, expected, next *string) error {
	q := tx.NewUpdate().
		Model((*User)(nil)).
		Set("refresh_token_hash = ?", next).
		Where("id = ?", id)

	if expected == nil {
		q = q.Where("refresh_token_hash IS NULL")
	} else {
		q = q.Where("refresh_token_hash = ?", *expected)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to rotate refresh credential")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrRefreshCredentialStale
	}
	return nil
}

// isUniqueViolation matches the driver-specific unique constraint errors we
// care about: sqlite and postgres phrasing.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
