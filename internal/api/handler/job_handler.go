package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"smart-recruit/internal/config"
	"smart-recruit/internal/storage"
	"smart-recruit/internal/storage/models"
)

// JobHandler manages job postings.
type JobHandler struct {
	cfg     *config.Config
	storage *storage.Storage
}

// NewJobHandler creates the job handler.
func NewJobHandler(cfg *config.Config, storage *storage.Storage) *JobHandler {
	return &JobHandler{
		cfg:     cfg,
		storage: storage,
	}
}

// CreateJobRequest is the job creation payload.
type CreateJobRequest struct {
	Title              string   `json:"title"`
	Department         string   `json:"department"`
	Description        string   `json:"description"`
	Requirements       string   `json:"requirements"`
	SkillsRequired     []string `json:"skills_required"`
	MinExperienceYears int      `json:"min_experience_years"`
	EducationLevel     string   `json:"education_level"`
}

// CreateJob validates and persists a new job posting.
func (h *JobHandler) CreateJob(ctx context.Context, req *CreateJobRequest) (*models.Job, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("job title is required")
	}
	if req.Description == "" {
		return nil, fmt.Errorf("job description is required")
	}

	skills, err := json.Marshal(req.SkillsRequired)
	if err != nil {
		return nil, fmt.Errorf("failed to encode required skills: %w", err)
	}

	job := &models.Job{
		Title:              req.Title,
		Department:         req.Department,
		Description:        req.Description,
		RequirementsText:   req.Requirements,
		SkillsRequiredJSON: skills,
		MinExperienceYears: req.MinExperienceYears,
		EducationLevel:     req.EducationLevel,
	}
	if err := h.storage.MySQL.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob loads one job posting.
func (h *JobHandler) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	return h.storage.MySQL.GetJobByID(ctx, jobID)
}
