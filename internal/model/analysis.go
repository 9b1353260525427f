package model

import "math"

// AIAnalysisResult is a metadata suggestion produced by the enrichment client.
// It is never persisted on its own; its values are merged into a Document.
type AIAnalysisResult struct {
	SuggestedTitle    *string  `json:"suggested_title"`
	SuggestedAuthor   *string  `json:"suggested_author"`
	SuggestedCategory Category `json:"suggested_category"`
	SuggestedTags     []string `json:"suggested_tags"`
	Summary           *string  `json:"summary"`
	Confidence        float64  `json:"confidence"`
}

// ClampConfidence bounds c to [0, 1].
func ClampConfidence(c float64) float64 {
	if c < 0 || math.IsNaN(c) {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
