package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension(".pdf"))
	assert.True(t, SupportedExtension(".PDF"))
	assert.True(t, SupportedExtension(".txt"))
	assert.False(t, SupportedExtension(".docx"))
	assert.False(t, SupportedExtension(""))
}

func TestExtractPlainTextPassthrough(t *testing.T) {
	extractor, err := NewCVTextExtractor(context.Background())
	require.NoError(t, err)

	content := "Budi Santoso\nbudi@email.com\nPython, Go"
	text, err := extractor.Extract(context.Background(), []byte(content), "cv.txt")
	require.NoError(t, err)
	assert.Equal(t, content, text)
}

func TestExtractRejectsInvalidUTF8Text(t *testing.T) {
	extractor, err := NewCVTextExtractor(context.Background())
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), []byte{0xff, 0xfe, 0xfd}, "cv.txt")
	assert.Error(t, err)
}

func TestExtractRejectsUnsupportedExtension(t *testing.T) {
	extractor, err := NewCVTextExtractor(context.Background())
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), []byte("irrelevant"), "cv.docx")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestFilenameExt(t *testing.T) {
	assert.Equal(t, ".pdf", filenameExt("resume.pdf"))
	assert.Equal(t, ".txt", filenameExt("archive.tar.txt"))
	assert.Equal(t, "", filenameExt("no-extension"))
}
