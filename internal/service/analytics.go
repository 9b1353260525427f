package service

import (
	"context"
	"fmt"
	"io"

	"docmeta/internal/analytics"
	"docmeta/internal/model"
	"docmeta/internal/repository"
)

// AnalyticsService computes collection-wide statistics on demand.
type AnalyticsService interface {
	// Stats aggregates every stored document into a fresh snapshot.
	Stats(ctx context.Context) (*model.AnalyticsSnapshot, error)
	// Export writes the current snapshot as an XLSX workbook.
	Export(ctx context.Context, w io.Writer) error
}

type analyticsService struct {
	repo repository.DocumentRepository
}

func NewAnalyticsService(repo repository.DocumentRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

func (s *analyticsService) Stats(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	docs, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	snap := analytics.Compute(docs)
	return &snap, nil
}

func (s *analyticsService) Export(ctx context.Context, w io.Writer) error {
	snap, err := s.Stats(ctx)
	if err != nil {
		return err
	}
	return analytics.WriteXLSX(*snap, w)
}
