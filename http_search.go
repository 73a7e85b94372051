package boards

import (
	"context"
	"strconv"

	"github.com/goliatone/go-boards/search"
	"github.com/goliatone/go-router"
)

const (
	searchDefaultLimit = 10
	searchMaxLimit     = 50
)

// BoardSearcher is the query slice of the search service.
type BoardSearcher interface {
	Search(ctx context.Context, query string, page, limit int) (*search.Response, error)
}

// SearchController serves fuzzy board search.
type SearchController struct {
	searcher BoardSearcher
	logger   Logger
}

// NewSearchController builds the controller.
func NewSearchController(searcher BoardSearcher) *SearchController {
	return &SearchController{
		searcher: searcher,
		logger:   defLogger{},
	}
}

// WithLogger replaces the fallback logger.
func (c *SearchController) WithLogger(logger Logger) *SearchController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Boards handles GET /api/search/boards?query=&page=&limit=.
func (c *SearchController) Boards(ctx router.Context) error {
	query := ctx.Query("query", "")
	if query == "" {
		return RespondError(ctx, ErrNoEmptyString)
	}

	page := queryInt(ctx, "page", 1)
	if page < 1 {
		page = 1
	}

	limit := queryInt(ctx, "limit", searchDefaultLimit)
	if limit < 1 {
		limit = searchDefaultLimit
	}
	if limit > searchMaxLimit {
		limit = searchMaxLimit
	}

	resp, err := c.searcher.Search(ctx.Context(), query, page, limit)
	if err != nil {
		c.logger.Error("board search failed: query=%q err=%v", query, err)
		return RespondError(ctx, err)
	}

	return RespondSuccess(ctx, router.StatusOK, resp)
}

func queryInt(ctx router.Context, name string, def int) int {
	raw := ctx.Query(name, "")
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
