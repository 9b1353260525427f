package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docmeta/internal/ai"
	"docmeta/internal/metadata"
	"docmeta/internal/model"
	"docmeta/internal/preview"
	"docmeta/internal/repository"
	"docmeta/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("document not found")
	ErrReaderNil        = errors.New("reader is nil")
	ErrFilenameRequired = fmt.Errorf("%w: filename is required", model.ErrValidation)
	ErrInvalidCategory  = fmt.Errorf("%w: unknown category", model.ErrValidation)
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100

	DefaultDownloadExpiry = 15 * time.Minute
)

// ListParams are the caller-facing list filters. Zero values mean "no filter".
type ListParams struct {
	Limit    int
	Offset   int
	Category string
	FileType string
	Search   string
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items  []model.Document `json:"data"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// AnalyzedUpload is the outcome of an upload followed by AI enrichment.
type AnalyzedUpload struct {
	Document *model.Document         `json:"document"`
	Analysis *model.AIAnalysisResult `json:"ai_analysis"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload stores the content under a generated key, then saves its metadata.
	// If the metadata write fails the object is deleted again, best effort.
	Upload(ctx context.Context, r io.Reader, filename string, contentType string, size int64) (*model.Document, error)

	// List returns a filtered page of documents, newest first, and the filtered total.
	List(ctx context.Context, p ListParams) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Update applies a partial metadata update.
	Update(ctx context.Context, id string, patch model.DocumentPatch) (*model.Document, error)

	// Delete removes the stored object, best effort, then the record.
	Delete(ctx context.Context, id string) error

	// Analyze returns an AI suggestion for an existing document without persisting it.
	Analyze(ctx context.Context, id string) (*model.AIAnalysisResult, error)

	// UploadAndAnalyze uploads a file and merges the AI suggestion into the new record.
	UploadAndAnalyze(ctx context.Context, r io.Reader, filename string, contentType string, size int64) (*AnalyzedUpload, error)

	// SuggestTags proposes tags for an existing document.
	SuggestTags(ctx context.Context, id string) ([]string, error)

	// DownloadURL returns a presigned, time-limited URL for the stored object.
	DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error)

	// ClearAICache drops cached AI suggestions, if the analyzer caches.
	ClearAICache()
}

type documentService struct {
	store    storage.Storage
	repo     repository.DocumentRepository
	analyzer ai.Analyzer
	log      zerolog.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, analyzer ai.Analyzer, log zerolog.Logger) DocumentService {
	return &documentService{
		store:    store,
		repo:     repo,
		analyzer: analyzer,
		log:      log.With().Str("component", "document_service").Logger(),
	}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, filename string, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, ErrFilenameRequired
	}

	fileType := metadata.FileTypeFromName(filename)
	id := uuid.New().String()
	key := objectKey(id, fileType)

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			storage.MetaOriginalFilename: filename,
			storage.MetaDocumentID:       id,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	if objInfo.Key == "" {
		objInfo.Key = key
	}
	if objInfo.Size <= 0 {
		objInfo.Size = max(size, 0)
	}

	ts := time.Now().UTC()
	doc := &model.Document{
		ID:          id,
		Title:       metadata.TitleFromName(filename),
		Category:    model.DefaultCategory,
		Tags:        []string{},
		FileName:    filename,
		FileType:    fileType,
		FileSize:    objInfo.Size,
		FileURL:     s.store.URL(objInfo.Key),
		StoragePath: objInfo.Key,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, objInfo.Key); delErr != nil {
			s.log.Error().Err(delErr).Str("storage_path", objInfo.Key).Msg("orphaned object after failed metadata write")
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func objectKey(id, fileType string) string {
	if fileType == "" {
		return "documents/" + id
	}
	return "documents/" + id + "." + fileType
}

func (s *documentService) List(ctx context.Context, p ListParams) (*DocumentListResult, error) {
	limit := p.Limit
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	offset := max(p.Offset, 0)

	q := repository.ListQuery{
		PageQuery: repository.PageQuery{Limit: limit, Offset: offset},
		FileType:  strings.ToLower(strings.TrimSpace(p.FileType)),
		Search:    strings.TrimSpace(p.Search),
	}
	if c := strings.TrimSpace(p.Category); c != "" {
		cat, ok := metadata.ParseCategory(c)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
		}
		q.Category = string(cat)
	}

	res, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	items := res.Items
	if items == nil {
		items = []model.Document{}
	}
	return &DocumentListResult{Items: items, Total: res.Total, Limit: limit, Offset: offset}, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, id string, patch model.DocumentPatch) (*model.Document, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, metadata.MergePartialUpdate(*existing, patch))
}

func (s *documentService) save(ctx context.Context, doc model.Document) (*model.Document, error) {
	updated, err := s.repo.Update(ctx, &doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		s.log.Warn().Err(err).Str("document_id", id).Str("storage_path", doc.StoragePath).
			Msg("object delete failed; removing record anyway")
	}
	return s.repo.Delete(ctx, id)
}

func (s *documentService) Analyze(ctx context.Context, id string) (*model.AIAnalysisResult, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	excerpt := ""
	if doc.Description != nil {
		excerpt = strings.TrimSpace(*doc.Description)
	}
	if excerpt == "" {
		excerpt = s.storedPreview(ctx, doc)
	}
	res, err := s.analyzer.SuggestMetadata(ctx, doc.FileName, doc.FileType, excerpt)
	return s.suggestionOrDefault(res, err, doc.FileName), nil
}

// storedPreview reads the head of the stored object. Failures yield "".
func (s *documentService) storedPreview(ctx context.Context, doc *model.Document) string {
	if !preview.Supported(doc.FileType) || doc.StoragePath == "" {
		return ""
	}
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Debug().Str("document_id", doc.ID).Msg("preview: object missing")
		return ""
	}
	if err != nil {
		s.log.Warn().Err(err).Str("document_id", doc.ID).Msg("preview: read object")
		return ""
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, preview.MaxSourceBytes))
	if err != nil {
		s.log.Warn().Err(err).Str("document_id", doc.ID).Msg("preview: read object")
		return ""
	}
	return preview.Extract(data, doc.FileType)
}

func (s *documentService) UploadAndAnalyze(ctx context.Context, r io.Reader, filename string, contentType string, size int64) (*AnalyzedUpload, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	// The head is buffered for the preview; the remainder streams to storage.
	var excerpt string
	fileType := metadata.FileTypeFromName(strings.TrimSpace(filename))
	if preview.Supported(fileType) {
		head, err := io.ReadAll(io.LimitReader(r, preview.MaxSourceBytes))
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		excerpt = preview.Extract(head, fileType)
		r = io.MultiReader(bytes.NewReader(head), r)
	}

	doc, err := s.Upload(ctx, r, filename, contentType, size)
	if err != nil {
		return nil, err
	}

	res, err := s.analyzer.SuggestMetadata(ctx, doc.FileName, doc.FileType, excerpt)
	res = s.suggestionOrDefault(res, err, doc.FileName)

	merged := metadata.MergePartialUpdate(*doc, metadata.PatchFromAnalysis(*doc, *res))
	updated, err := s.save(ctx, merged)
	if err != nil {
		s.log.Warn().Err(err).Str("document_id", doc.ID).Msg("persist ai metadata failed; returning unenriched document")
		return &AnalyzedUpload{Document: doc, Analysis: res}, nil
	}
	return &AnalyzedUpload{Document: updated, Analysis: res}, nil
}

func (s *documentService) SuggestTags(ctx context.Context, id string) ([]string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	description := ""
	if doc.Description != nil {
		description = *doc.Description
	}
	tags, err := s.analyzer.SuggestTags(ctx, doc.Title, description)
	if err != nil {
		s.log.Warn().Err(err).Str("document_id", id).Msg("tag suggestion failed")
		return []string{}, nil
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (s *documentService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = DefaultDownloadExpiry
	}
	url, err := s.store.PresignGet(ctx, doc.StoragePath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

func (s *documentService) ClearAICache() {
	if p, ok := s.analyzer.(interface{ Purge() }); ok {
		p.Purge()
	}
}

// suggestionOrDefault is the single place AI failures are absorbed: any error
// or missing result becomes the zero-confidence default for fileName.
func (s *documentService) suggestionOrDefault(res *model.AIAnalysisResult, err error, fileName string) *model.AIAnalysisResult {
	if err != nil {
		s.log.Warn().Err(err).Str("file_name", fileName).Msg("ai analysis failed; using default suggestion")
		return ai.DefaultResult(fileName)
	}
	if res == nil {
		return ai.DefaultResult(fileName)
	}
	return res
}
