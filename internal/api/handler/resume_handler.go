package handler

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"smart-recruit/internal/config"
	"smart-recruit/internal/constants"
	"smart-recruit/internal/logger"
	"smart-recruit/internal/parser"
	"smart-recruit/internal/processor"
	"smart-recruit/internal/storage"
	"smart-recruit/internal/storage/models"
)

// Upload outcome statuses reported to the client.
const (
	UploadStatusQueued        = "QUEUED"
	UploadStatusDuplicateFile = "DUPLICATE_FILE"
)

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = errors.New("uploaded file exceeds size limit")

// ResumeHandler coordinates CV uploads into the processing pipeline.
type ResumeHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	processor *processor.CVProcessor
}

// NewResumeHandler creates the upload handler.
func NewResumeHandler(cfg *config.Config, storage *storage.Storage, proc *processor.CVProcessor) *ResumeHandler {
	return &ResumeHandler{
		cfg:       cfg,
		storage:   storage,
		processor: proc,
	}
}

// ResumeUploadResponse is the upload endpoint's reply.
type ResumeUploadResponse struct {
	ResumeID string `json:"resume_id"`
	Status   string `json:"status"`
}

// HandleResumeUpload validates an uploaded CV, stores it, and queues it for
// asynchronous processing. Re-uploads of a byte-identical file short-circuit
// to the resume that already owns it.
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, jobID string) (*ResumeUploadResponse, error) {

	if h.cfg.Upload.MaxFileSizeBytes > 0 && fileSize > h.cfg.Upload.MaxFileSizeBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, fileSize)
	}

	ext := filepath.Ext(filename)
	if !parser.SupportedExtension(ext) {
		return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedFileType, ext)
	}

	// The reader can only be consumed once and the MD5 is needed before
	// anything is stored.
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	sum := md5.Sum(fileBytes)
	fileMD5 := hex.EncodeToString(sum[:])

	duplicate, err := h.storage.Redis.CheckAndAddRawFileMD5(ctx, fileMD5)
	if err != nil {
		return nil, fmt.Errorf("failed to check file MD5 for duplicates: %w", err)
	}
	if duplicate {
		existingID, lookupErr := h.storage.Redis.GetMD5ToResumeID(ctx, fileMD5)
		if lookupErr != nil && !errors.Is(lookupErr, storage.ErrNotFound) {
			logger.Warn().Err(lookupErr).Str("md5", fileMD5).Msg("failed to resolve duplicate resume ID")
		}
		logger.Info().Str("md5", fileMD5).Str("filename", filename).Msg("duplicate file upload skipped")
		return &ResumeUploadResponse{
			ResumeID: existingID,
			Status:   UploadStatusDuplicateFile,
		}, nil
	}

	resume := &models.Resume{
		OriginalFilename: filename,
		RawFileMD5:       fileMD5,
	}
	if jobID != "" {
		resume.JobID = &jobID
	}
	if err := h.storage.MySQL.CreateResume(ctx, resume); err != nil {
		h.rollbackMD5(ctx, fileMD5)
		return nil, fmt.Errorf("failed to create resume record: %w", err)
	}

	objectKey, _, err := h.storage.MinIO.UploadResumeFile(ctx, resume.ResumeID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		h.rollbackMD5(ctx, fileMD5)
		return nil, fmt.Errorf("failed to store resume file: %w", err)
	}

	if err := h.storage.MySQL.UpdateResumeFields(ctx, resume.ResumeID, map[string]interface{}{
		"original_file_path_oss": objectKey,
	}); err != nil {
		return nil, fmt.Errorf("failed to record file location: %w", err)
	}

	if err := h.storage.Redis.SetMD5ToResumeID(ctx, fileMD5, resume.ResumeID); err != nil {
		// Dedup still works through the set; only duplicate resolution
		// degrades, so log and continue.
		logger.Warn().Err(err).Str("md5", fileMD5).Msg("failed to map MD5 to resume ID")
	}

	msg := processor.UploadMessage{
		ResumeID:  resume.ResumeID,
		ObjectKey: objectKey,
		Filename:  filename,
		JobID:     jobID,
	}
	if err := h.processor.PublishUpload(ctx, msg); err != nil {
		if statusErr := h.storage.MySQL.UpdateResumeProcessingStatus(ctx, resume.ResumeID, constants.StatusFailed, "failed to enqueue for processing"); statusErr != nil {
			logger.Error().Err(statusErr).Str("resume_id", resume.ResumeID).Msg("failed to mark resume failed")
		}
		return nil, fmt.Errorf("failed to enqueue resume for processing: %w", err)
	}

	return &ResumeUploadResponse{
		ResumeID: resume.ResumeID,
		Status:   UploadStatusQueued,
	}, nil
}

func (h *ResumeHandler) rollbackMD5(ctx context.Context, fileMD5 string) {
	if err := h.storage.Redis.RemoveRawFileMD5(ctx, fileMD5); err != nil {
		logger.Warn().Err(err).Str("md5", fileMD5).Msg("failed to roll back MD5 dedup record")
	}
}

// GetResumeStatus reports where a resume is in the pipeline.
func (h *ResumeHandler) GetResumeStatus(ctx context.Context, resumeID string) (*models.Resume, error) {
	return h.storage.MySQL.GetResumeByID(ctx, resumeID)
}
