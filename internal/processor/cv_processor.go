package processor

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"smart-recruit/internal/config"
	"smart-recruit/internal/constants"
	"smart-recruit/internal/extractor"
	"smart-recruit/internal/logger"
	"smart-recruit/internal/parser"
	"smart-recruit/internal/storage"
	"smart-recruit/internal/storage/models"
	"smart-recruit/internal/textproc"
	"smart-recruit/internal/types"
)

const defaultParserVersion = "1.0"

// permanentError marks a failure no retry will fix, so the message is acked
// after the resume row is marked FAILED instead of being requeued forever.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}

func isPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

func md5Hex(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// textDedupMD5 hashes the normalized text so whitespace and URL noise does
// not defeat duplicate detection across re-uploads of the same resume.
func textDedupMD5(text string) string {
	return md5Hex(textproc.Preprocess(text))
}

// extractionDegraded reports whether the pipeline produced only a fallback
// profile: either the text carries no meaningful tokens at all, or extraction
// found neither contact, skills nor experience in it.
func extractionDegraded(text string, stopwords map[string]struct{}, profile *types.CandidateProfile) bool {
	if len(textproc.CleanTokens(text, stopwords)) == 0 {
		return true
	}
	return profile.Email == "" && len(profile.Skills) == 0 && len(profile.Experience) == 0
}

// CVProcessor runs the upload pipeline: file text extraction, entity
// extraction and persistence.
type CVProcessor struct {
	FileExtractor    FileTextExtractor
	ProfileExtractor ProfileExtractor
	Storage          *storage.Storage

	Settings Settings
}

// NewCVProcessor assembles a processor from component and setting options.
func NewCVProcessor(compOpts []ComponentOpt, setOpts ...SettingOpt) *CVProcessor {
	components := &Components{}
	for _, opt := range compOpts {
		opt(components)
	}

	settings := &Settings{
		ParserVersion: defaultParserVersion,
		Logger:        logger.Logger.With().Str("component", "cv_processor").Logger(),
	}
	for _, opt := range setOpts {
		opt(settings)
	}

	return &CVProcessor{
		FileExtractor:    components.FileExtractor,
		ProfileExtractor: components.ProfileExtractor,
		Storage:          components.Storage,
		Settings:         *settings,
	}
}

// NewProcessorFromConfig wires the default components for production use.
func NewProcessorFromConfig(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) (*CVProcessor, error) {
	fileExtractor, err := parser.NewCVTextExtractor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create file text extractor: %w", err)
	}

	vocab, err := extractor.LoadVocabulary(cfg.Vocabulary.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	profileExtractor, err := extractor.New(vocab)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile extractor: %w", err)
	}

	return NewCVProcessor(
		[]ComponentOpt{
			WithFileExtractor(fileExtractor),
			WithProfileExtractor(profileExtractor),
			WithStorage(storageManager),
		},
		WithDebug(cfg.Logger.Level == "debug"),
	), nil
}

// EnsureTopology declares the processing exchange, queue and binding.
func (p *CVProcessor) EnsureTopology() error {
	mq := p.Storage.RabbitMQ
	if mq == nil {
		return fmt.Errorf("rabbitmq is not available")
	}
	if err := mq.EnsureExchange(constants.ProcessingExchange, constants.ProcessingQueueType, true); err != nil {
		return err
	}
	if err := mq.EnsureQueue(constants.ProcessingQueue, true); err != nil {
		return err
	}
	return mq.BindQueue(constants.ProcessingQueue, constants.ProcessingExchange, constants.ResumeUploadedRKey)
}

// PublishUpload enqueues an accepted upload for asynchronous processing.
func (p *CVProcessor) PublishUpload(ctx context.Context, msg UploadMessage) error {
	mq := p.Storage.RabbitMQ
	if mq == nil {
		return fmt.Errorf("rabbitmq is not available")
	}
	return mq.PublishJSON(ctx, constants.ProcessingExchange, constants.ResumeUploadedRKey, msg, true)
}

// StartConsuming begins consuming upload messages. Closing the returned
// channel stops the consumer.
func (p *CVProcessor) StartConsuming(ctx context.Context) (chan<- struct{}, error) {
	if err := p.EnsureTopology(); err != nil {
		return nil, fmt.Errorf("failed to ensure messaging topology: %w", err)
	}

	prefetch := p.Storage.RabbitMQ.Config().PrefetchCount
	if prefetch <= 0 {
		prefetch = 1
	}

	return p.Storage.RabbitMQ.StartConsumer(constants.ProcessingQueue, prefetch, func(body []byte) bool {
		var msg UploadMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			p.Settings.Logger.Error().Err(err).Msg("dropping malformed upload message")
			return true
		}

		_, err := p.ProcessUploadMessage(ctx, msg)
		if err == nil {
			return true
		}
		if isPermanent(err) {
			p.Settings.Logger.Error().Err(err).Str("resume_id", msg.ResumeID).Msg("resume processing failed permanently")
			return true
		}
		p.Settings.Logger.Warn().Err(err).Str("resume_id", msg.ResumeID).Msg("resume processing failed, requeueing")
		return false
	})
}

// ProcessUploadMessage runs the full pipeline for one uploaded resume.
// Entity-extraction weakness never fails the resume: a thin or empty profile
// is persisted as-is so the candidate remains visible to ranking.
func (p *CVProcessor) ProcessUploadMessage(ctx context.Context, msg UploadMessage) (*ProcessResult, error) {
	if msg.ResumeID == "" || msg.ObjectKey == "" {
		return nil, permanent(fmt.Errorf("upload message missing resume_id or object_key"))
	}
	db := p.Storage.MySQL
	if db == nil {
		return nil, fmt.Errorf("mysql is not available")
	}

	if err := db.UpdateResumeProcessingStatus(ctx, msg.ResumeID, constants.StatusProcessing, ""); err != nil {
		return nil, fmt.Errorf("failed to mark resume %s processing: %w", msg.ResumeID, err)
	}

	result, err := p.process(ctx, msg)
	if err != nil {
		reason := err.Error()
		if statusErr := db.UpdateResumeProcessingStatus(ctx, msg.ResumeID, constants.StatusFailed, reason); statusErr != nil {
			p.Settings.Logger.Error().Err(statusErr).Str("resume_id", msg.ResumeID).Msg("failed to record failure status")
		}
		return nil, err
	}

	if err := db.UpdateResumeProcessingStatus(ctx, msg.ResumeID, constants.StatusCompleted, ""); err != nil {
		return nil, fmt.Errorf("failed to mark resume %s completed: %w", msg.ResumeID, err)
	}

	p.Settings.Logger.Info().
		Str("resume_id", result.ResumeID).
		Str("candidate_id", result.CandidateID).
		Int("text_length", result.TextLength).
		Bool("duplicate_text", result.DuplicateText).
		Bool("extraction_degraded", result.ExtractionDegraded).
		Msg("resume processed")
	return result, nil
}

func (p *CVProcessor) process(ctx context.Context, msg UploadMessage) (*ProcessResult, error) {
	data, err := p.Storage.MinIO.GetResumeFile(ctx, msg.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download resume file: %w", err)
	}

	text, err := p.FileExtractor.Extract(ctx, data, msg.Filename)
	if err != nil {
		// A file the parser cannot read will never parse on retry.
		return nil, permanent(fmt.Errorf("failed to extract text from %s: %w", msg.Filename, err))
	}

	result := &ProcessResult{
		ResumeID:   msg.ResumeID,
		TextLength: len(text),
	}

	if p.Storage.Redis != nil {
		textMD5 := textDedupMD5(text)
		duplicate, dedupErr := p.Storage.Redis.CheckAndAddParsedTextMD5(ctx, textMD5)
		if dedupErr != nil {
			p.Settings.Logger.Warn().Err(dedupErr).Msg("parsed-text dedup check failed, continuing")
		} else if duplicate {
			// Same text uploaded under a different file. Keep processing so
			// the resume completes, but record the duplication.
			result.DuplicateText = true
		}
	}

	parsedKey, err := p.Storage.MinIO.UploadParsedText(ctx, msg.ResumeID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to store parsed text: %w", err)
	}

	profile := p.ProfileExtractor.Extract(text)
	result.ExtractionDegraded = extractionDegraded(text, p.ProfileExtractor.Stopwords(), &profile)

	candidate := &models.Candidate{}
	if err := candidate.ApplyProfile(&profile); err != nil {
		return nil, permanent(fmt.Errorf("failed to encode profile: %w", err))
	}
	if err := p.Storage.MySQL.FindOrCreateCandidate(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to persist candidate: %w", err)
	}
	result.CandidateID = candidate.CandidateID

	updates := map[string]interface{}{
		"candidate_id":         candidate.CandidateID,
		"parsed_text_path_oss": parsedKey,
		"parser_version":       p.Settings.ParserVersion,
	}
	if err := p.Storage.MySQL.UpdateResumeFields(ctx, msg.ResumeID, updates); err != nil {
		return nil, fmt.Errorf("failed to update resume record: %w", err)
	}

	return result, nil
}
