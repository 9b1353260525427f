package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	analysisSystemPrompt = "You are an expert document analyst. Analyze documents and extract metadata accurately."
	tagsSystemPrompt     = "You are a helpful assistant that suggests relevant tags."

	maxPromptPreviewRunes = 500
)

func buildAnalysisPrompt(fileName, fileType, preview string) string {
	var b strings.Builder
	b.WriteString("Analyze this document and extract metadata:\n\n")
	fmt.Fprintf(&b, "File Name: %s\nFile Type: %s\n", fileName, fileType)

	preview = strings.TrimSpace(preview)
	source := "file name"
	if preview != "" {
		if utf8.RuneCountInString(preview) > maxPromptPreviewRunes {
			preview = string([]rune(preview)[:maxPromptPreviewRunes])
		}
		fmt.Fprintf(&b, "\nContent Preview:\n%s\n", preview)
		source = "file name and content"
	}

	fmt.Fprintf(&b, `
Based on the %s, provide:

1. A clear, descriptive title (max 100 chars)
2. Suggested author (if identifiable, otherwise null)
3. Category (choose ONE from: Financeiro, RH, Técnico, Marketing, Legal, Geral)
4. 3-5 relevant tags
5. A brief summary (max 200 chars)
6. Confidence score (0.0 to 1.0)

Respond ONLY with valid JSON in this exact format:
{
    "title": "Document Title",
    "author": "Author Name or null",
    "category": "Category",
    "tags": ["tag1", "tag2", "tag3"],
    "summary": "Brief summary",
    "confidence": 0.85
}
`, source)
	return b.String()
}

func buildTagsPrompt(title, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d relevant tags for this document:\nTitle: %s", MaxSuggestedTags, title)
	if description = strings.TrimSpace(description); description != "" {
		fmt.Fprintf(&b, "\nDescription: %s", description)
	}
	b.WriteString("\n\nRespond with ONLY a JSON array of tags, e.g., [\"tag1\", \"tag2\", \"tag3\"]")
	return b.String()
}
