// Package pdfext extracts plain text from uploaded PDF documents so an
// excerpt can be spliced into the user message before the model turn.
package pdfext

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MaxExcerptLen caps how much extracted text is forwarded to the model,
// keeping large documents inside the prompt budget.
const MaxExcerptLen = 8000

const truncationNote = "... (content truncated due to length)"

// ExtractText parses data as a PDF and returns its plain text content.
func ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// Excerpt truncates text to MaxExcerptLen and reports whether truncation
// happened. The cut backs off to a rune boundary so a multi-byte character
// is never split mid-sequence.
func Excerpt(text string) (string, bool) {
	if len(text) <= MaxExcerptLen {
		return text, false
	}
	cut := MaxExcerptLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}

// ExcerptWithNote returns the excerpt followed by a truncation marker when
// the document exceeded the cap.
func ExcerptWithNote(text string) string {
	excerpt, truncated := Excerpt(text)
	if truncated {
		return excerpt + "\n" + truncationNote
	}
	return excerpt
}
