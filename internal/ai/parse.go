package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"docmeta/internal/metadata"
	"docmeta/internal/model"
)

const defaultConfidence = 0.5

type analysisPayload struct {
	Title      *string  `json:"title"`
	Author     *string  `json:"author"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Summary    *string  `json:"summary"`
	Confidence *float64 `json:"confidence"`
}

func parseAnalysis(raw string) (*model.AIAnalysisResult, error) {
	var p analysisPayload
	if err := json.Unmarshal([]byte(extractJSON(stripCodeFence(raw), '{', '}')), &p); err != nil {
		return nil, fmt.Errorf("parse analysis json: %w", err)
	}

	confidence := defaultConfidence
	if p.Confidence != nil {
		confidence = *p.Confidence
	}

	return &model.AIAnalysisResult{
		SuggestedTitle:    optional(p.Title),
		SuggestedAuthor:   optional(p.Author),
		SuggestedCategory: metadata.NormalizeCategory(p.Category),
		SuggestedTags:     cleanTags(p.Tags, 0),
		Summary:           optional(p.Summary),
		Confidence:        model.ClampConfidence(confidence),
	}, nil
}

func parseTags(raw string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(extractJSON(stripCodeFence(raw), '[', ']')), &tags); err != nil {
		return nil, fmt.Errorf("parse tags json: %w", err)
	}
	return cleanTags(tags, MaxSuggestedTags), nil
}

// optional drops empty strings and the literal "null" some models emit.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}

func cleanTags(tags []string, limit int) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return strings.Trim(raw, "`")
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func extractJSON(raw string, open, close byte) string {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
