package boards_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	boards "github.com/goliatone/go-boards"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// newTestDB opens a per-test in-memory sqlite database with the schema
// created from the models.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*boards.User)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewCreateTable().Model((*boards.Board)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func seedUser(t *testing.T, repo boards.Users, email, nickname string) *boards.User {
	t.Helper()

	user, err := repo.Create(context.Background(), &boards.User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: "x-hash",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	return user
}
