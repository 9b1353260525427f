package metadata

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmeta/internal/model"
)

func strPtr(s string) *string { return &s }

func withClock(t *testing.T, ts time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		input string
		want  model.Category
	}{
		{"Financeiro", model.CategoryFinancial},
		{"financeiro", model.CategoryFinancial},
		{"FINANCIAL", model.CategoryFinancial},
		{"rh", model.CategoryHR},
		{"HR", model.CategoryHR},
		{"TÉCNICO", model.CategoryTechnical},
		{"tecnico", model.CategoryTechnical},
		{"Técnico", model.CategoryTechnical},
		{"technical", model.CategoryTechnical},
		{" Marketing ", model.CategoryMarketing},
		{"legal", model.CategoryLegal},
		{"Geral", model.CategoryGeneral},
		{"", model.CategoryGeneral},
		{"invoices", model.CategoryGeneral},
		{"Technical Docs", model.CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeCategory(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("legal")
	assert.True(t, ok)
	assert.Equal(t, model.CategoryLegal, c)

	c, ok = ParseCategory("unknown")
	assert.False(t, ok)
	assert.Equal(t, model.DefaultCategory, c)
}

func TestFileTypeFromName(t *testing.T) {
	assert.Equal(t, "pdf", FileTypeFromName("report.PDF"))
	assert.Equal(t, "gz", FileTypeFromName("archive.tar.gz"))
	assert.Equal(t, "", FileTypeFromName("README"))
}

func TestTitleFromName(t *testing.T) {
	assert.Equal(t, "a.txt", TitleFromName("a.txt"))
	long := strings.Repeat("ã", 300)
	assert.Equal(t, model.MaxTitleLength, len([]rune(TitleFromName(long))))
}

func baseDocument() model.Document {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return model.Document{
		ID:          "doc-1",
		Title:       "Original",
		Author:      strPtr("Ana"),
		Category:    model.CategoryLegal,
		Tags:        []string{"contract", "2024"},
		Description: strPtr("desc"),
		FileName:    "contract.pdf",
		FileType:    "pdf",
		FileSize:    2048,
		FileURL:     "http://minio/documents/x.pdf",
		StoragePath: "documents/x.pdf",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestMergePartialUpdate_EmptyPatchPreservesFields(t *testing.T) {
	ts := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	withClock(t, ts)

	doc := baseDocument()
	got := MergePartialUpdate(doc, model.DocumentPatch{})

	assert.Equal(t, ts, got.UpdatedAt)
	got.UpdatedAt = doc.UpdatedAt
	assert.Equal(t, doc, got)
}

func TestMergePartialUpdate_OverwritesProvidedFields(t *testing.T) {
	withClock(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	doc := baseDocument()
	tags := []string{}
	patch := model.DocumentPatch{
		Title:       strPtr("New title"),
		Author:      strPtr(""),
		Category:    strPtr("financeiro"),
		Tags:        &tags,
		Description: strPtr(""),
	}

	got := MergePartialUpdate(doc, patch)

	assert.Equal(t, "New title", got.Title)
	require.NotNil(t, got.Author)
	assert.Equal(t, "", *got.Author)
	assert.Equal(t, model.CategoryFinancial, got.Category)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
	require.NotNil(t, got.Description)
	assert.Equal(t, "", *got.Description)

	// immutable fields
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.FileName, got.FileName)
	assert.Equal(t, doc.FileType, got.FileType)
	assert.Equal(t, doc.FileSize, got.FileSize)
	assert.Equal(t, doc.FileURL, got.FileURL)
	assert.Equal(t, doc.CreatedAt, got.CreatedAt)
}

func TestMergePartialUpdate_InvalidCategoryDegradesToDefault(t *testing.T) {
	got := MergePartialUpdate(baseDocument(), model.DocumentPatch{Category: strPtr("nonsense")})
	assert.Equal(t, model.CategoryGeneral, got.Category)
}

func TestMergePartialUpdate_DoesNotAlias(t *testing.T) {
	doc := baseDocument()
	newTags := []string{"x"}
	got := MergePartialUpdate(doc, model.DocumentPatch{Tags: &newTags, Author: strPtr("Bia")})

	newTags[0] = "mutated"
	got.Tags = append(got.Tags[:0], "changed")
	*got.Author = "Carla"

	assert.Equal(t, []string{"contract", "2024"}, doc.Tags)
	assert.Equal(t, "Ana", *doc.Author)

	kept := MergePartialUpdate(doc, model.DocumentPatch{})
	kept.Tags[0] = "other"
	assert.Equal(t, "contract", doc.Tags[0])
}

func TestMergePartialUpdate_UpdatedAtMonotonic(t *testing.T) {
	doc := baseDocument()

	t.Run("clock ahead", func(t *testing.T) {
		withClock(t, doc.UpdatedAt.Add(time.Hour))
		got := MergePartialUpdate(doc, model.DocumentPatch{})
		assert.True(t, got.UpdatedAt.After(doc.UpdatedAt))
	})

	t.Run("clock equal", func(t *testing.T) {
		withClock(t, doc.UpdatedAt)
		got := MergePartialUpdate(doc, model.DocumentPatch{})
		assert.True(t, got.UpdatedAt.After(doc.UpdatedAt))
	})

	t.Run("clock behind", func(t *testing.T) {
		withClock(t, doc.UpdatedAt.Add(-time.Hour))
		got := MergePartialUpdate(doc, model.DocumentPatch{})
		assert.False(t, got.UpdatedAt.Before(doc.UpdatedAt))
	})

	t.Run("real clock", func(t *testing.T) {
		got := MergePartialUpdate(doc, model.DocumentPatch{Title: strPtr("t")})
		assert.False(t, got.UpdatedAt.Before(doc.UpdatedAt))
		assert.Equal(t, time.UTC, got.UpdatedAt.Location())
	})
}

func TestPatchFromAnalysis(t *testing.T) {
	doc := baseDocument()

	t.Run("full suggestion", func(t *testing.T) {
		res := model.AIAnalysisResult{
			SuggestedTitle:    strPtr("Service Agreement"),
			SuggestedAuthor:   strPtr("Legal Team"),
			SuggestedCategory: model.CategoryLegal,
			SuggestedTags:     []string{"contract", "services"},
			Summary:           strPtr("Agreement for services."),
			Confidence:        0.9,
		}
		patch := PatchFromAnalysis(doc, res)
		got := MergePartialUpdate(doc, patch)

		assert.Equal(t, "Service Agreement", got.Title)
		assert.Equal(t, "Legal Team", *got.Author)
		assert.Equal(t, model.CategoryLegal, got.Category)
		assert.Equal(t, []string{"contract", "services"}, got.Tags)
		assert.Equal(t, "Agreement for services.", *got.Description)
	})

	t.Run("zero confidence default is a usable patch", func(t *testing.T) {
		res := model.AIAnalysisResult{
			SuggestedCategory: model.CategoryGeneral,
			SuggestedTags:     []string{},
		}
		patch := PatchFromAnalysis(doc, res)
		require.NoError(t, patch.Validate())

		got := MergePartialUpdate(doc, patch)
		assert.Equal(t, doc.Title, got.Title)
		assert.Equal(t, doc.Author, got.Author)
		assert.Equal(t, doc.Description, got.Description)
		assert.Equal(t, model.CategoryGeneral, got.Category)
		assert.Empty(t, got.Tags)
	})

	t.Run("unrecognized category and blank title", func(t *testing.T) {
		res := model.AIAnalysisResult{SuggestedTitle: strPtr("  "), SuggestedCategory: "Misc"}
		patch := PatchFromAnalysis(doc, res)
		assert.Equal(t, doc.Title, *patch.Title)
		assert.Equal(t, string(model.CategoryGeneral), *patch.Category)
	})
}
