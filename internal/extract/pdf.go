package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

type TextExtractor interface {
	Extract(content []byte) (string, error)
}

type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns the plain text of every page. Documents that cannot be
// parsed or contain only whitespace, such as scanned images, return
// ErrNoExtractableText.
func (e *PDFExtractor) Extract(content []byte) (text string, err error) {
	if len(content) == 0 {
		return "", ErrEmptyDocument
	}

	// The parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed document: %v", ErrNoExtractableText, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoExtractableText, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoExtractableText, err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoExtractableText, err)
	}

	if strings.TrimSpace(string(raw)) == "" {
		return "", ErrNoExtractableText
	}
	return string(raw), nil
}
