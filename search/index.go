// Package search maintains a full-text index of board documents and serves
// fuzzy multi-field queries over it. Titles weigh three times as much as
// content or author names, matches come back with <mark> highlights, and
// ties between scores break on recency.
package search

import (
	"context"
	"strconv"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/goliatone/go-errors"
)

const (
	fieldTitle     = "title"
	fieldContent   = "content"
	fieldUserID    = "user_id"
	fieldUserName  = "user_name"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"

	titleBoost = 3.0
	fuzziness  = 1
)

// Document is one indexed board.
type Document struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Result is one search hit: the document, its relevance score, and the
// highlighted fragments keyed by field.
type Result struct {
	Document
	Score     float64             `json:"score"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// Meta describes the page of results returned.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Response is a page of search results.
type Response struct {
	Data []Result `json:"data"`
	Meta Meta     `json:"meta"`
}

// Logger is the minimal logging surface the service depends on.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Service wraps a bleve index of board documents.
type Service struct {
	index  bleve.Index
	logger Logger
}

// New opens the index at path, creating it when missing. An empty path
// yields an in-memory index that lives as long as the process.
func New(path string) (*Service, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(indexMapping())
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create in-memory search index")
		}
		return &Service{index: idx, logger: nopLogger{}}, nil
	}

	idx, err := bleve.Open(path)
	if err != nil {
		if !errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open search index")
		}
		idx, err = bleve.New(path, indexMapping())
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create search index")
		}
	}

	return &Service{index: idx, logger: nopLogger{}}, nil
}

// WithLogger replaces the fallback logger.
func (s *Service) WithLogger(logger Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Close releases the underlying index.
func (s *Service) Close() error {
	return s.index.Close()
}

// Index adds or replaces one document.
func (s *Service) Index(doc Document) error {
	err := s.index.Index(docID(doc.ID), map[string]any{
		fieldTitle:     doc.Title,
		fieldContent:   doc.Content,
		fieldUserID:    doc.UserID,
		fieldUserName:  doc.UserName,
		fieldCreatedAt: doc.CreatedAt.UTC().Format(time.RFC3339),
		fieldUpdatedAt: doc.UpdatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to index document").
			WithMetadata(map[string]any{"id": doc.ID})
	}
	return nil
}

// Remove drops one document. Removing an unknown id succeeds.
func (s *Service) Remove(id int64) error {
	if err := s.index.Delete(docID(id)); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to remove document").
			WithMetadata(map[string]any{"id": id})
	}
	return nil
}

// Search runs a fuzzy disjunction over title, content and author name.
// page is 1-based.
func (s *Service) Search(ctx context.Context, query string, page, limit int) (*Response, error) {
	title := bleve.NewMatchQuery(query)
	title.SetField(fieldTitle)
	title.SetBoost(titleBoost)
	title.SetFuzziness(fuzziness)

	content := bleve.NewMatchQuery(query)
	content.SetField(fieldContent)
	content.SetFuzziness(fuzziness)

	author := bleve.NewMatchQuery(query)
	author.SetField(fieldUserName)
	author.SetFuzziness(fuzziness)

	req := bleve.NewSearchRequestOptions(
		bleve.NewDisjunctionQuery(title, content, author),
		limit,
		(page-1)*limit,
		false,
	)
	req.Fields = []string{"*"}
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField(fieldTitle)
	req.Highlight.AddField(fieldContent)
	req.SortBy([]string{"-_score", "-" + fieldCreatedAt})

	s.logger.Debug("search: query=%q page=%d limit=%d", query, page, limit)

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "search query failed").
			WithMetadata(map[string]any{"query": query})
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		result := Result{
			Score:     hit.Score,
			Highlight: hit.Fragments,
		}
		result.Document = documentFromFields(hit.ID, hit.Fields)
		results = append(results, result)
	}

	total := int(res.Total)
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &Response{
		Data: results,
		Meta: Meta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// indexMapping declares every field explicitly: text for the searchable
// fields, keyword for the RFC3339 timestamps so recency sorting compares
// whole terms, numeric for the author id.
func indexMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	keyword := bleve.NewKeywordFieldMapping()
	numeric := bleve.NewNumericFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(fieldTitle, text)
	doc.AddFieldMappingsAt(fieldContent, text)
	doc.AddFieldMappingsAt(fieldUserName, text)
	doc.AddFieldMappingsAt(fieldUserID, numeric)
	doc.AddFieldMappingsAt(fieldCreatedAt, keyword)
	doc.AddFieldMappingsAt(fieldUpdatedAt, keyword)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func documentFromFields(id string, fields map[string]any) Document {
	doc := Document{}
	doc.ID, _ = strconv.ParseInt(id, 10, 64)
	doc.Title = stringField(fields, fieldTitle)
	doc.Content = stringField(fields, fieldContent)
	doc.UserName = stringField(fields, fieldUserName)
	if v, ok := fields[fieldUserID].(float64); ok {
		doc.UserID = int64(v)
	}
	doc.CreatedAt = timeField(fields, fieldCreatedAt)
	doc.UpdatedAt = timeField(fields, fieldUpdatedAt)
	return doc
}

func stringField(fields map[string]any, name string) string {
	v, _ := fields[name].(string)
	return v
}

func timeField(fields map[string]any, name string) time.Time {
	raw, ok := fields[name].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
