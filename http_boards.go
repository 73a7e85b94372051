package boards

import (
	"context"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-boards/search"
	"github.com/goliatone/go-router"
)

// BoardIndexer is the slice of the search service the board controller
// needs to keep the index in sync with writes.
type BoardIndexer interface {
	Index(doc search.Document) error
	Remove(id int64) error
}

// BoardController serves board CRUD. Reads are public; writes require an
// authenticated principal and mutations are owner-only (admins may manage
// any board).
type BoardController struct {
	repo       RepositoryManager
	indexer    BoardIndexer
	logger     Logger
	contextKey string
}

// NewBoardController builds the controller. indexer may be nil when search
// is disabled.
func NewBoardController(repo RepositoryManager, indexer BoardIndexer, contextKey string) *BoardController {
	return &BoardController{
		repo:       repo,
		indexer:    indexer,
		logger:     defLogger{},
		contextKey: contextKey,
	}
}

// WithLogger replaces the fallback logger.
func (c *BoardController) WithLogger(logger Logger) *BoardController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// CreateBoardPayload carries a new board. Limits follow the content model:
// short required title, content capped at 100 characters.
type CreateBoardPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks field lengths.
func (p CreateBoardPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(2, 0)),
		validation.Field(&p.Content, validation.Length(0, 100)),
	)
}

// UpdateBoardPayload carries a partial board update; nil fields are left
// untouched.
type UpdateBoardPayload struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Validate checks whichever fields are present.
func (p UpdateBoardPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(2, 0)),
		validation.Field(&p.Content, validation.Length(0, 100)),
	)
}

// List handles GET /api/boards.
func (c *BoardController) List(ctx router.Context) error {
	items, err := c.repo.Boards().List(ctx.Context())
	if err != nil {
		return RespondError(ctx, err)
	}
	return RespondSuccess(ctx, router.StatusOK, BoardResponses(items))
}

// Get handles GET /api/boards/:id.
func (c *BoardController) Get(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RespondError(ctx, ErrBoardNotFound)
	}

	board, err := c.repo.Boards().GetByID(ctx.Context(), id)
	if err != nil {
		return RespondError(ctx, err)
	}

	return RespondSuccess(ctx, router.StatusOK, board.Response())
}

// Create handles POST /api/boards.
func (c *BoardController) Create(ctx router.Context) error {
	identity, ok := RouterIdentity(ctx, c.contextKey)
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	payload := CreateBoardPayload{}
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Debug("board create bind failed: %v", err)
		return RespondError(ctx, ErrNoEmptyString)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, err)
	}

	board, err := c.repo.Boards().Create(ctx.Context(), &Board{
		Title:   payload.Title,
		Content: payload.Content,
		UserID:  identity.ID,
	})
	if err != nil {
		return RespondError(ctx, err)
	}

	// reload with the author relation for the response and the index doc
	board, err = c.repo.Boards().GetByID(ctx.Context(), board.ID)
	if err != nil {
		return RespondError(ctx, err)
	}

	c.indexBoard(board)

	return RespondSuccess(ctx, router.StatusCreated, board.Response())
}

// Update handles PATCH /api/boards/:id.
func (c *BoardController) Update(ctx router.Context) error {
	identity, ok := RouterIdentity(ctx, c.contextKey)
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	id, err := pathID(ctx)
	if err != nil {
		return RespondError(ctx, ErrBoardNotFound)
	}

	payload := UpdateBoardPayload{}
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Debug("board update bind failed: %v", err)
		return RespondError(ctx, ErrNoEmptyString)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, err)
	}

	board, err := c.repo.Boards().GetByID(ctx.Context(), id)
	if err != nil {
		return RespondError(ctx, err)
	}

	if !identity.CanManage(board.UserID) {
		return RespondError(ctx, ErrNotOwner)
	}

	if payload.Title != nil {
		board.Title = *payload.Title
	}
	if payload.Content != nil {
		board.Content = *payload.Content
	}

	if _, err := c.repo.Boards().Update(ctx.Context(), board); err != nil {
		return RespondError(ctx, err)
	}

	c.indexBoard(board)

	return RespondSuccess(ctx, router.StatusOK, board.Response())
}

// Delete handles DELETE /api/boards/:id.
func (c *BoardController) Delete(ctx router.Context) error {
	identity, ok := RouterIdentity(ctx, c.contextKey)
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	id, err := pathID(ctx)
	if err != nil {
		return RespondError(ctx, ErrBoardNotFound)
	}

	board, err := c.repo.Boards().GetByID(ctx.Context(), id)
	if err != nil {
		return RespondError(ctx, err)
	}

	if !identity.CanManage(board.UserID) {
		return RespondError(ctx, ErrNotOwner)
	}

	if err := c.repo.Boards().Delete(ctx.Context(), id); err != nil {
		return RespondError(ctx, err)
	}

	if c.indexer != nil {
		if err := c.indexer.Remove(id); err != nil {
			c.logger.Warn("failed to remove board %d from index: %v", id, err)
		}
	}

	return RespondNoContent(ctx)
}

// ReindexAll rebuilds the search index from the repository. Called at boot
// so the index survives restarts of the in-memory engine.
func (c *BoardController) ReindexAll(ctx context.Context) error {
	if c.indexer == nil {
		return nil
	}

	items, err := c.repo.Boards().List(ctx)
	if err != nil {
		return err
	}

	for _, board := range items {
		if err := c.indexer.Index(boardDocument(board)); err != nil {
			return err
		}
	}

	c.logger.Info("search index rebuilt: %d boards", len(items))
	return nil
}

func (c *BoardController) indexBoard(board *Board) {
	if c.indexer == nil {
		return
	}
	if err := c.indexer.Index(boardDocument(board)); err != nil {
		c.logger.Warn("failed to index board %d: %v", board.ID, err)
	}
}

func boardDocument(b *Board) search.Document {
	doc := search.Document{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		UserID:    b.UserID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.User != nil {
		doc.UserName = b.User.Nickname
	}
	return doc
}

func pathID(ctx router.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param("id"), 10, 64)
}
