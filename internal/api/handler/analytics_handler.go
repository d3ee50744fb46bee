package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smart-recruit/internal/audit"
	"smart-recruit/internal/config"
	"smart-recruit/internal/constants"
	"smart-recruit/internal/logger"
	"smart-recruit/internal/storage"
	"smart-recruit/internal/types"
)

// AnalyticsHandler serves score-distribution and bias-audit reports.
type AnalyticsHandler struct {
	cfg     *config.Config
	storage *storage.Storage
	auditor *audit.Auditor
}

// NewAnalyticsHandler creates the analytics handler.
func NewAnalyticsHandler(cfg *config.Config, storage *storage.Storage, auditor *audit.Auditor) *AnalyticsHandler {
	return &AnalyticsHandler{
		cfg:     cfg,
		storage: storage,
		auditor: auditor,
	}
}

// ScoreDistribution summarizes every stored ranking score, grouped by job.
// The result is cached briefly since it scans the whole rankings table.
func (h *AnalyticsHandler) ScoreDistribution(ctx context.Context) (*types.DistributionReport, error) {
	if cached, err := h.storage.Redis.Get(ctx, constants.KeyScoreDistribution); err == nil {
		var report types.DistributionReport
		if unmarshalErr := json.Unmarshal([]byte(cached), &report); unmarshalErr == nil {
			return &report, nil
		}
		logger.Warn().Msg("discarding undecodable cached analytics overview")
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn().Err(err).Msg("analytics cache read failed, computing fresh")
	}

	scores, jobIDs, err := h.storage.MySQL.ListAllRankingScores(ctx)
	if err != nil {
		return nil, err
	}

	report, err := h.auditor.AnalyzeScoreDistribution(scores, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze score distribution: %w", err)
	}

	if payload, marshalErr := json.Marshal(report); marshalErr == nil {
		if cacheErr := h.storage.Redis.Set(ctx, constants.KeyScoreDistribution, string(payload), constants.ScoreDistributionCacheTTL); cacheErr != nil {
			logger.Warn().Err(cacheErr).Msg("failed to cache analytics overview")
		}
	}

	return &report, nil
}

// BiasReport audits one job's stored ranking with the four-fifths rule over
// score quartiles.
func (h *AnalyticsHandler) BiasReport(ctx context.Context, jobID string) (*types.JobAuditReport, error) {
	rows, err := h.storage.MySQL.GetJobRankings(ctx, jobID)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, row.OverallScore)
	}

	report := h.auditor.AuditJobRanking(scores)
	return &report, nil
}
