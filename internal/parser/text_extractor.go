package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFileType is returned for file extensions the pipeline cannot
// read. DOCX in particular is rejected up front rather than failing later.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// CVTextExtractor turns an uploaded CV file into plain text.
type CVTextExtractor struct {
	pdf *EinoPDFTextExtractor
}

// NewCVTextExtractor builds the dispatching extractor.
func NewCVTextExtractor(ctx context.Context) (*CVTextExtractor, error) {
	pdfExtractor, err := NewEinoPDFTextExtractor(ctx)
	if err != nil {
		return nil, err
	}
	return &CVTextExtractor{pdf: pdfExtractor}, nil
}

// SupportedExtension reports whether uploads with the given extension are
// accepted at all.
func SupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".txt":
		return true
	default:
		return false
	}
}

// Extract dispatches on the file extension. Plain-text uploads pass through
// unchanged; PDFs go through the Eino parser.
func (c *CVTextExtractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	ext := strings.ToLower(filenameExt(filename))
	switch ext {
	case ".pdf":
		text, _, err := c.pdf.ExtractTextFromBytes(ctx, data, filename)
		return text, err
	case ".txt":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("text file %s is not valid UTF-8", filename)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
}

func filenameExt(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return filename[idx:]
}
