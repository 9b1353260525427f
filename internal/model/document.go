package model

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength  = 255
	MaxAuthorLength = 100
)

// ErrValidation marks malformed client input.
var ErrValidation = errors.New("validation error")

// Document represents a stored file and its metadata.
// This is a pure domain model with no database-specific dependencies or tags.
// FileName, FileType, FileSize, FileURL and StoragePath are set once at upload;
// Title, Author, Category, Tags and Description change through DocumentPatch.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      *string   `json:"author"`
	Category    Category  `json:"category"`
	Tags        []string  `json:"tags"`
	Description *string   `json:"description"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	FileURL     string    `json:"file_url"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DocumentPatch is a partial metadata update. A nil field is "not provided";
// a non-nil field, including an empty string or empty list, overwrites.
// Clearing an optional field to null is not expressible.
type DocumentPatch struct {
	Title       *string   `json:"title,omitempty"`
	Author      *string   `json:"author,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Description *string   `json:"description,omitempty"`
}

// Empty reports whether no field is set.
func (p DocumentPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Category == nil && p.Tags == nil && p.Description == nil
}

// Validate checks field lengths of the provided fields.
func (p DocumentPatch) Validate() error {
	if p.Title != nil {
		n := utf8.RuneCountInString(*p.Title)
		if n == 0 || n > MaxTitleLength {
			return fmt.Errorf("%w: title must be 1-%d characters", ErrValidation, MaxTitleLength)
		}
	}
	if p.Author != nil && utf8.RuneCountInString(*p.Author) > MaxAuthorLength {
		return fmt.Errorf("%w: author must be at most %d characters", ErrValidation, MaxAuthorLength)
	}
	return nil
}

// UploadResult is the envelope returned by upload endpoints.
type UploadResult struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Document *Document `json:"document,omitempty"`
}
