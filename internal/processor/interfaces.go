package processor

import (
	"context"

	"smart-recruit/internal/types"
)

// FileTextExtractor turns an uploaded CV file into plain text.
type FileTextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// ProfileExtractor turns resume text into a structured candidate profile.
type ProfileExtractor interface {
	Extract(text string) types.CandidateProfile
	Stopwords() map[string]struct{}
}

// UploadMessage is the queue payload published for each accepted upload.
type UploadMessage struct {
	ResumeID  string `json:"resume_id"`
	ObjectKey string `json:"object_key"`
	Filename  string `json:"filename"`
	JobID     string `json:"job_id,omitempty"`
}

// ProcessResult summarizes one pipeline run over a resume.
type ProcessResult struct {
	ResumeID      string
	CandidateID   string
	TextLength    int
	DuplicateText bool
	// ExtractionDegraded is set when entity extraction produced only the
	// fallback profile. The resume still completes and stays rankable.
	ExtractionDegraded bool
}
