// Package preview extracts a short plain-text excerpt from uploaded files for AI enrichment.
package preview

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	// MaxRunes bounds the excerpt handed to the language model.
	MaxRunes = 500
	// MaxSourceBytes bounds how much of a file is read to build an excerpt.
	MaxSourceBytes = 10 << 20
)

var textTypes = map[string]bool{
	"txt":  true,
	"md":   true,
	"csv":  true,
	"tsv":  true,
	"json": true,
	"xml":  true,
	"html": true,
	"htm":  true,
	"yaml": true,
	"yml":  true,
	"log":  true,
	"rtf":  true,
}

// Supported reports whether Extract can produce text for fileType.
func Supported(fileType string) bool {
	return fileType == "pdf" || textTypes[fileType]
}

// Extract returns up to MaxRunes of whitespace-collapsed text from data.
// Unsupported or unreadable content yields an empty string.
func Extract(data []byte, fileType string) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > MaxSourceBytes {
		data = data[:MaxSourceBytes]
	}

	var text string
	switch {
	case fileType == "pdf":
		text = extractPDF(data)
	case textTypes[fileType]:
		if !utf8.Valid(data) {
			data = bytes.ToValidUTF8(data, nil)
		}
		text = string(data)
	default:
		return ""
	}
	return truncate(normalize(text), MaxRunes)
}

// extractPDF reads the text layer; the pdf library panics on some malformed files.
func extractPDF(data []byte) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	b, err := io.ReadAll(io.LimitReader(plain, int64(MaxRunes*utf8.UTFMax*4)))
	if err != nil {
		return ""
	}
	return string(b)
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\x00", " ")
	text = strings.ToValidUTF8(text, "")
	return strings.Join(strings.Fields(text), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
