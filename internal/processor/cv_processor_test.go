package processor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-recruit/internal/storage"
	"smart-recruit/internal/textproc"
	"smart-recruit/internal/types"
)

func TestPermanentErrorClassification(t *testing.T) {
	base := errors.New("file is corrupt")

	perm := permanent(base)
	assert.True(t, isPermanent(perm))
	assert.True(t, isPermanent(fmt.Errorf("wrapped: %w", perm)), "classification must survive wrapping")
	assert.ErrorIs(t, perm, base)

	assert.False(t, isPermanent(base))
	assert.False(t, isPermanent(nil))
}

func TestMD5Hex(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", md5Hex(""))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", md5Hex("hello"))
}

func TestTextDedupMD5NormalizesBeforeHashing(t *testing.T) {
	// The same resume re-exported with different whitespace or a dropped URL
	// must hash identically, otherwise dedup never fires.
	base := textDedupMD5("Backend engineer. Python, Go.")
	assert.Equal(t, base, textDedupMD5("Backend   engineer.\n\nPython,  Go."))
	assert.Equal(t, base, textDedupMD5("Backend engineer. https://example.com/cv Python, Go."))

	assert.NotEqual(t, base, textDedupMD5("Frontend engineer. React."))
}

func TestExtractionDegraded(t *testing.T) {
	stopwords := textproc.NewStopwordSet([]string{"dan", "yang", "the"})

	empty := &types.CandidateProfile{}
	assert.True(t, extractionDegraded("dan yang the", stopwords, empty), "stopword-only text carries no signal")
	assert.True(t, extractionDegraded("lorem ipsum dolor", stopwords, empty))

	withContact := &types.CandidateProfile{Email: "budi@example.com"}
	assert.False(t, extractionDegraded("budi santoso budi@example.com", stopwords, withContact))

	withSkills := &types.CandidateProfile{Skills: []string{"python"}}
	assert.False(t, extractionDegraded("menguasai python dan go", stopwords, withSkills))
}

func TestNewCVProcessorAppliesOptions(t *testing.T) {
	store := &storage.Storage{}

	p := NewCVProcessor(
		[]ComponentOpt{WithStorage(store)},
		WithParserVersion("2.3"),
		WithDebug(true),
	)

	assert.Same(t, store, p.Storage)
	assert.Equal(t, "2.3", p.Settings.ParserVersion)
	assert.True(t, p.Settings.Debug)
}

func TestNewCVProcessorDefaultParserVersion(t *testing.T) {
	p := NewCVProcessor(nil)
	assert.Equal(t, defaultParserVersion, p.Settings.ParserVersion)
}

func TestPublishUploadWithoutQueue(t *testing.T) {
	p := NewCVProcessor([]ComponentOpt{WithStorage(&storage.Storage{})})

	err := p.PublishUpload(context.Background(), UploadMessage{ResumeID: "r1", ObjectKey: "k1"})
	assert.Error(t, err)
}

func TestProcessUploadMessageRejectsIncompletePayload(t *testing.T) {
	p := NewCVProcessor([]ComponentOpt{WithStorage(&storage.Storage{})})

	_, err := p.ProcessUploadMessage(context.Background(), UploadMessage{})
	require.Error(t, err)
	assert.True(t, isPermanent(err), "a malformed message must never be requeued")
}
