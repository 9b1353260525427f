// Package metadata holds the pure rules for classifying and merging document metadata.
// Nothing here performs I/O or returns an error.
package metadata

import (
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"docmeta/internal/model"
)

var categoryLabels = map[string]model.Category{
	"financeiro": model.CategoryFinancial,
	"financial":  model.CategoryFinancial,
	"finance":    model.CategoryFinancial,
	"rh":         model.CategoryHR,
	"hr":         model.CategoryHR,
	"técnico":    model.CategoryTechnical,
	"tecnico":    model.CategoryTechnical,
	"technical":  model.CategoryTechnical,
	"marketing":  model.CategoryMarketing,
	"legal":      model.CategoryLegal,
	"geral":      model.CategoryGeneral,
	"general":    model.CategoryGeneral,
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// ParseCategory resolves a free-text label case-insensitively and reports whether it was recognized.
func ParseCategory(input string) (model.Category, bool) {
	c, ok := categoryLabels[strings.ToLower(strings.TrimSpace(input))]
	if !ok {
		return model.DefaultCategory, false
	}
	return c, true
}

// NormalizeCategory resolves a free-text label, falling back to the default category.
func NormalizeCategory(input string) model.Category {
	c, _ := ParseCategory(input)
	return c
}

// FileTypeFromName derives the file type from the extension: lower-case, without the dot.
func FileTypeFromName(name string) string {
	ext := filepath.Ext(name)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// TitleFromName truncates a file name to a valid document title.
func TitleFromName(name string) string {
	if utf8.RuneCountInString(name) <= model.MaxTitleLength {
		return name
	}
	return string([]rune(name)[:model.MaxTitleLength])
}

// MergePartialUpdate applies the provided patch fields to a copy of existing.
// UpdatedAt always moves forward, even when no value changed.
func MergePartialUpdate(existing model.Document, patch model.DocumentPatch) model.Document {
	out := existing
	if existing.Tags != nil {
		out.Tags = append([]string(nil), existing.Tags...)
	}

	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Author != nil {
		v := *patch.Author
		out.Author = &v
	}
	if patch.Category != nil {
		out.Category = NormalizeCategory(*patch.Category)
	}
	if patch.Tags != nil {
		out.Tags = append(make([]string, 0, len(*patch.Tags)), *patch.Tags...)
	}
	if patch.Description != nil {
		v := *patch.Description
		out.Description = &v
	}

	ts := now()
	if !ts.After(existing.UpdatedAt) {
		ts = existing.UpdatedAt.Add(time.Microsecond)
	}
	out.UpdatedAt = ts
	return out
}

// PatchFromAnalysis turns an AI suggestion into a patch for current.
// Category and tags are always applied; title falls back to the current title;
// author and description are only set when suggested.
func PatchFromAnalysis(current model.Document, res model.AIAnalysisResult) model.DocumentPatch {
	title := current.Title
	if res.SuggestedTitle != nil && strings.TrimSpace(*res.SuggestedTitle) != "" {
		title = TitleFromName(strings.TrimSpace(*res.SuggestedTitle))
	}
	category := string(NormalizeCategory(string(res.SuggestedCategory)))
	tags := make([]string, 0, len(res.SuggestedTags))
	tags = append(tags, res.SuggestedTags...)

	patch := model.DocumentPatch{
		Title:    &title,
		Category: &category,
		Tags:     &tags,
	}
	if res.SuggestedAuthor != nil {
		author := *res.SuggestedAuthor
		if utf8.RuneCountInString(author) > model.MaxAuthorLength {
			author = string([]rune(author)[:model.MaxAuthorLength])
		}
		patch.Author = &author
	}
	if res.Summary != nil {
		summary := *res.Summary
		patch.Description = &summary
	}
	return patch
}
