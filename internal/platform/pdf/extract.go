// Package pdf extracts plain text from uploaded PDF documents.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
)

// ErrNoText is returned when a PDF parses but yields no extractable text,
// which usually means a scanned image without an OCR layer.
var ErrNoText = errors.New("pdf contains no extractable text")

// TextExtractor pulls plain text out of a PDF byte stream.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// Extractor implements TextExtractor with the ledongthuc/pdf parser.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

func (e *Extractor) ExtractText(data []byte) (string, error) {
	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
