package boards_test

import (
	"context"
	"testing"

	boards "github.com/goliatone/go-boards"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBoardControllerCreate(t *testing.T) {
	repo := NewMockRepositoryManager()
	indexer := &MockIndexer{}
	controller := boards.NewBoardController(repo, indexer, "user")

	created := &boards.Board{ID: 9, Title: "hello", Content: "world", UserID: 42}
	loaded := &boards.Board{
		ID: 9, Title: "hello", Content: "world", UserID: 42,
		User: &boards.User{ID: 42, Email: "a@example.com", Nickname: "author"},
	}

	repo.boards.On("Create", mock.Anything, mock.AnythingOfType("*boards.Board")).Return(created, nil)
	repo.boards.On("GetByID", mock.Anything, int64(9)).Return(loaded, nil)
	indexer.On("Index", mock.AnythingOfType("search.Document")).Return(nil)

	ctx := router.NewMockContext()
	ctx.LocalsMock["user"] = &boards.Identity{ID: 42, Role: boards.RoleUser}
	ctx.On("Bind", mock.Anything).
		Run(func(args mock.Arguments) {
			p := args.Get(0).(*boards.CreateBoardPayload)
			p.Title = "hello"
			p.Content = "world"
		}).
		Return(nil)
	ctx.On("Context").Return(context.Background())

	var payload any
	ctx.On("JSON", router.StatusCreated, mock.Anything).
		Run(func(args mock.Arguments) {
			payload = args.Get(1)
		}).
		Return(nil)

	require.NoError(t, controller.Create(ctx))

	data := envelopeOf(t, payload)["data"].(map[string]any)
	assert.Equal(t, "hello", data["title"])
	assert.Equal(t, "author", data["userNickname"])

	indexer.AssertExpectations(t)
	repo.boards.AssertExpectations(t)
}

func TestBoardControllerCreateWithoutIdentity(t *testing.T) {
	repo := NewMockRepositoryManager()
	controller := boards.NewBoardController(repo, nil, "user")

	ctx := router.NewMockContext()
	ctx.On("OriginalURL").Return("/api/boards")

	var status int
	ctx.On("JSON", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			status = args.Get(0).(int)
		}).
		Return(nil)

	require.NoError(t, controller.Create(ctx))
	assert.Equal(t, router.StatusUnauthorized, status)
	repo.boards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBoardControllerUpdateRejectsNonOwner(t *testing.T) {
	repo := NewMockRepositoryManager()
	controller := boards.NewBoardController(repo, nil, "user")

	stored := &boards.Board{ID: 5, Title: "theirs", UserID: 1}
	repo.boards.On("GetByID", mock.Anything, int64(5)).Return(stored, nil)

	ctx := router.NewMockContext()
	ctx.ParamsM["id"] = "5"
	ctx.LocalsMock["user"] = &boards.Identity{ID: 99, Role: boards.RoleUser}
	ctx.On("Bind", mock.Anything).Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("OriginalURL").Return("/api/boards/5")

	var status int
	ctx.On("JSON", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			status = args.Get(0).(int)
		}).
		Return(nil)

	require.NoError(t, controller.Update(ctx))
	assert.Equal(t, router.StatusUnauthorized, status)
	repo.boards.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBoardControllerUpdateAllowsAdmin(t *testing.T) {
	repo := NewMockRepositoryManager()
	controller := boards.NewBoardController(repo, nil, "user")

	stored := &boards.Board{ID: 5, Title: "theirs", Content: "x", UserID: 1}
	repo.boards.On("GetByID", mock.Anything, int64(5)).Return(stored, nil)
	repo.boards.On("Update", mock.Anything, mock.AnythingOfType("*boards.Board")).Return(stored, nil)

	ctx := router.NewMockContext()
	ctx.ParamsM["id"] = "5"
	ctx.LocalsMock["user"] = &boards.Identity{ID: 99, Role: boards.RoleAdmin}
	ctx.On("Bind", mock.Anything).
		Run(func(args mock.Arguments) {
			p := args.Get(0).(*boards.UpdateBoardPayload)
			title := "moderated"
			p.Title = &title
		}).
		Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("JSON", router.StatusOK, mock.Anything).Return(nil)

	require.NoError(t, controller.Update(ctx))
	assert.Equal(t, "moderated", stored.Title)
	repo.boards.AssertExpectations(t)
}

func TestBoardControllerDeleteRemovesFromIndex(t *testing.T) {
	repo := NewMockRepositoryManager()
	indexer := &MockIndexer{}
	controller := boards.NewBoardController(repo, indexer, "user")

	stored := &boards.Board{ID: 5, Title: "mine", UserID: 42}
	repo.boards.On("GetByID", mock.Anything, int64(5)).Return(stored, nil)
	repo.boards.On("Delete", mock.Anything, int64(5)).Return(nil)
	indexer.On("Remove", int64(5)).Return(nil)

	ctx := router.NewMockContext()
	ctx.ParamsM["id"] = "5"
	ctx.LocalsMock["user"] = &boards.Identity{ID: 42, Role: boards.RoleUser}
	ctx.On("Context").Return(context.Background())
	ctx.On("Status", router.StatusNoContent).Return(ctx)
	ctx.On("SendString", "").Return(nil)

	require.NoError(t, controller.Delete(ctx))
	indexer.AssertExpectations(t)
	repo.boards.AssertExpectations(t)
}

func TestBoardControllerGetUnknownBoard(t *testing.T) {
	repo := NewMockRepositoryManager()
	controller := boards.NewBoardController(repo, nil, "user")

	repo.boards.On("GetByID", mock.Anything, int64(404)).Return(nil, boards.ErrBoardNotFound)

	ctx := router.NewMockContext()
	ctx.ParamsM["id"] = "404"
	ctx.On("Context").Return(context.Background())
	ctx.On("OriginalURL").Return("/api/boards/404")

	var status int
	ctx.On("JSON", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			status = args.Get(0).(int)
		}).
		Return(nil)

	require.NoError(t, controller.Get(ctx))
	assert.Equal(t, router.StatusNotFound, status)
}
