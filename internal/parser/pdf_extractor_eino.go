package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"

	"smart-recruit/internal/logger"
)

// parseTimeout bounds a single PDF parse.
const parseTimeout = 30 * time.Second

// EinoPDFTextExtractor extracts plain text from PDF files through the Eino
// PDF parser.
type EinoPDFTextExtractor struct {
	parser *pdf.PDFParser
	log    zerolog.Logger
}

// EinoPDFOption configures the extractor.
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoLogger overrides the extractor's logger.
func WithEinoLogger(log zerolog.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.log = log
	}
}

// NewEinoPDFTextExtractor initializes the extractor. ToPages is disabled so
// the whole document comes back as one continuous string.
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser: p,
		log:    logger.Logger.With().Str("component", "pdf_extractor").Logger(),
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// ExtractTextFromReader parses the stream and returns the full text plus
// parser metadata.
func (e *EinoPDFTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	extraMeta := map[string]interface{}{
		"source_uri":      uri,
		"extraction_time": startTime.Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(ctx, parseTimeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(extraMeta),
	)

	duration := time.Since(startTime)
	if err != nil {
		e.log.Error().Err(err).Str("uri", uri).Dur("duration", duration).Msg("PDF parse failed")
		return "", extraMeta, fmt.Errorf("eino PDF parser failed for URI %s: %w", uri, err)
	}
	if len(docs) == 0 {
		return "", extraMeta, fmt.Errorf("eino PDF parser returned no documents for URI %s", uri)
	}

	var fullContent string
	for i, doc := range docs {
		fullContent += doc.Content
		if i < len(docs)-1 {
			fullContent += "\n\n"
		}
	}

	finalMetadata := make(map[string]interface{})
	if docs[0].MetaData != nil {
		finalMetadata = docs[0].MetaData
	}
	for k, v := range extraMeta {
		finalMetadata[k] = v
	}
	finalMetadata["processing_duration_ms"] = duration.Milliseconds()
	finalMetadata["document_count"] = len(docs)
	finalMetadata["text_length"] = len(fullContent)

	e.log.Debug().
		Str("uri", uri).
		Int("chars", len(fullContent)).
		Dur("duration", duration).
		Msg("PDF text extracted")
	return fullContent, finalMetadata, nil
}

// ExtractTextFromBytes parses an in-memory PDF.
func (e *EinoPDFTextExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	return e.ExtractTextFromReader(ctx, bytes.NewReader(data), uri)
}
