// Package ai suggests document metadata using an OpenAI-compatible chat completion API.
package ai

import (
	"context"
	"errors"

	"docmeta/internal/model"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("ai: api key not configured")

// Analyzer produces metadata suggestions. Implementations return an error on
// any failure; choosing a fallback is the caller's decision.
type Analyzer interface {
	// SuggestMetadata analyzes a file by name, type and optional content preview.
	SuggestMetadata(ctx context.Context, fileName, fileType, preview string) (*model.AIAnalysisResult, error)
	// SuggestTags proposes up to MaxSuggestedTags tags for a title and optional description.
	SuggestTags(ctx context.Context, title, description string) ([]string, error)
}

// MaxSuggestedTags caps SuggestTags results.
const MaxSuggestedTags = 5

// DefaultResult is the zero-confidence suggestion used when analysis fails.
func DefaultResult(fileName string) *model.AIAnalysisResult {
	res := &model.AIAnalysisResult{
		SuggestedCategory: model.DefaultCategory,
		SuggestedTags:     []string{},
		Confidence:        0,
	}
	if fileName != "" {
		title := fileName
		res.SuggestedTitle = &title
	}
	return res
}
