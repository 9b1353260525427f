package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"docmeta/internal/model"
	"docmeta/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, title, author, category, tags, description, file_name, file_type, file_size, file_url, storage_path, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(s rowScanner) (*model.Document, error) {
	var (
		d           model.Document
		author      sql.NullString
		description sql.NullString
		category    string
		tags        []byte
	)
	if err := s.Scan(
		&d.ID,
		&d.Title,
		&author,
		&category,
		&tags,
		&description,
		&d.FileName,
		&d.FileType,
		&d.FileSize,
		&d.FileURL,
		&d.StoragePath,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if author.Valid {
		d.Author = &author.String
	}
	if description.Valid {
		d.Description = &description.String
	}
	d.Category = model.Category(category)
	d.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return &d, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	q := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		nullString(doc.Author),
		string(doc.Category),
		tags,
		nullString(doc.Description),
		doc.FileName,
		doc.FileType,
		doc.FileSize,
		doc.FileURL,
		doc.StoragePath,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// buildFilter renders the WHERE clause for q and its positional arguments.
func buildFilter(q repository.ListQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if q.Category != "" {
		args = append(args, q.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if q.FileType != "" {
		args = append(args, q.FileType)
		conds = append(conds, fmt.Sprintf("file_type = $%d", len(args)))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns documents using LIMIT/OFFSET pagination and the filtered total count.
func (r *DocumentPostgres) List(ctx context.Context, q repository.ListQuery) (*repository.PageResult[model.Document], error) {
	where, args := buildFilter(q)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	n := len(args)
	qList := `SELECT ` + documentColumns + ` FROM documents` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collect(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Update writes the mutable fields of doc and returns the stored record.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	q := `
		UPDATE documents
		SET title = $2, author = $3, category = $4, tags = $5, description = $6, updated_at = $7
		WHERE id = $1
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		nullString(doc.Author),
		string(doc.Category),
		tags,
		nullString(doc.Description),
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// All returns the whole collection in creation order.
func (r *DocumentPostgres) All(ctx context.Context) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]model.Document, error) {
	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
