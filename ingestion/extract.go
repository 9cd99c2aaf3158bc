package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

var (
	ErrEmptyDocument = errors.New("document contains no extractable text")
)

// ExtractText converts an uploaded document into plain text. PDF and DOCX
// files go through their respective parsers; anything else is treated as
// UTF-8 text with invalid bytes dropped.
func ExtractText(filename, contentType string, data []byte) (string, error) {
	name := strings.ToLower(filename)
	ctype := strings.ToLower(contentType)

	var (
		text string
		err  error
	)

	switch {
	case strings.HasSuffix(name, ".pdf") || strings.Contains(ctype, "pdf"):
		text, err = extractPDF(data)
	case strings.HasSuffix(name, ".docx") || strings.Contains(ctype, "word"):
		text, err = extractDOCX(data)
	default:
		text = decodeUTF8(data)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// extractPDF pulls plain text from every page and joins them with blank
// lines. The parser panics on some malformed files, so the recover converts
// that into a normal error.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n\n"), nil
}

func extractDOCX(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse DOCX: %w", err)
	}
	return text, nil
}

// decodeUTF8 returns the input as a string with invalid UTF-8 sequences
// removed
func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r != utf8.RuneError || size > 1 {
			b.WriteRune(r)
		}
		data = data[size:]
	}
	return b.String()
}
