package repository

import (
	"context"

	"docmeta/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here; strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a filtered page of documents, newest first, and the filtered total.
	List(ctx context.Context, q ListQuery) (*PageResult[model.Document], error)

	// Update writes the mutable metadata fields and updated_at. Returns sql.ErrNoRows if the row is gone.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// All returns every document, for aggregate statistics.
	All(ctx context.Context) ([]model.Document, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// ListQuery combines pagination with optional filters. Empty filters are ignored.
type ListQuery struct {
	PageQuery
	Category string
	FileType string
	// Search is a case-insensitive substring match over title, author and description.
	Search string
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
