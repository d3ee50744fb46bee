package constants

import "time"

const (
	// Messaging topology for the CV processing pipeline.
	ProcessingExchange  = "cv.processing"
	ProcessingQueue     = "cv.processing.queue"
	ResumeUploadedRKey  = "resume.uploaded"
	ProcessingQueueType = "direct"

	// Resume processing statuses persisted on the resumes table.
	StatusPendingParse = "PENDING_PARSE"
	StatusProcessing   = "PROCESSING"
	StatusCompleted    = "COMPLETED"
	StatusFailed       = "FAILED"

	// ScoreDistributionCacheTTL bounds staleness of the cached
	// analytics overview.
	ScoreDistributionCacheTTL = 10 * time.Minute

	// RankingRunLockTTL caps how long a stuck run can block the next one.
	RankingRunLockTTL = 5 * time.Minute
)
