package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"smart-recruit/internal/config"
	"smart-recruit/internal/constants"
	"smart-recruit/internal/logger"
	"smart-recruit/internal/ranker"
	"smart-recruit/internal/storage"
	"smart-recruit/internal/storage/models"
	"smart-recruit/internal/types"
)

// ErrRankingInProgress is returned when a run is requested while another run
// for the same job holds the lock.
var ErrRankingInProgress = errors.New("ranking run already in progress for this job")

// RankingHandler runs and serves candidate rankings.
type RankingHandler struct {
	cfg     *config.Config
	storage *storage.Storage
	ranker  *ranker.Ranker
}

// NewRankingHandler creates the ranking handler.
func NewRankingHandler(cfg *config.Config, storage *storage.Storage, rk *ranker.Ranker) *RankingHandler {
	return &RankingHandler{
		cfg:     cfg,
		storage: storage,
		ranker:  rk,
	}
}

// RankedCandidateView is one row of the ranking endpoints' replies.
type RankedCandidateView struct {
	CandidateID        string   `json:"candidate_id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	RankPosition       int      `json:"rank_position"`
	OverallScore       float64  `json:"overall_score"`
	SkillScore         float64  `json:"skill_score"`
	ExperienceScore    float64  `json:"experience_score"`
	EducationScore     float64  `json:"education_score"`
	CertificationScore float64  `json:"certification_score"`
	SemanticSimilarity float64  `json:"semantic_similarity"`
	MatchedSkills      []string `json:"matched_skills"`
	MissingSkills      []string `json:"missing_skills"`
	Explanation        string   `json:"explanation"`
}

// RunRanking scores every processed candidate of a job and replaces the
// job's stored ranking with the result.
func (h *RankingHandler) RunRanking(ctx context.Context, jobID string) ([]types.ScoreBreakdown, error) {
	token, err := h.storage.Redis.AcquireRankingRunLock(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrRankingInProgress
	}
	defer func() {
		if _, releaseErr := h.storage.Redis.ReleaseRankingRunLock(ctx, jobID, token); releaseErr != nil {
			logger.Warn().Err(releaseErr).Str("job_id", jobID).Msg("failed to release ranking run lock")
		}
	}()

	jobRow, err := h.storage.MySQL.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job, err := jobRow.Requirement()
	if err != nil {
		return nil, fmt.Errorf("failed to decode job requirements: %w", err)
	}

	candidateRows, err := h.storage.MySQL.ListCandidatesForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	candidates := make([]ranker.Candidate, 0, len(candidateRows))
	for i := range candidateRows {
		profile, profErr := candidateRows[i].Profile()
		if profErr != nil {
			logger.Warn().Err(profErr).Str("candidate_id", candidateRows[i].CandidateID).Msg("skipping candidate with undecodable profile")
			continue
		}
		candidates = append(candidates, ranker.Candidate{
			ID:      candidateRows[i].CandidateID,
			Profile: *profile,
		})
	}

	breakdowns := h.ranker.Rank(*job, candidates)

	rows := make([]models.Ranking, 0, len(breakdowns))
	for _, b := range breakdowns {
		matched, marshalErr := json.Marshal(b.MatchedSkills)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to encode matched skills: %w", marshalErr)
		}
		missing, marshalErr := json.Marshal(b.MissingSkills)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to encode missing skills: %w", marshalErr)
		}
		rows = append(rows, models.Ranking{
			JobID:              jobID,
			CandidateID:        b.CandidateID,
			OverallScore:       b.OverallScore,
			SkillScore:         b.SkillScore,
			ExperienceScore:    b.ExperienceScore,
			EducationScore:     b.EducationScore,
			CertificationScore: b.CertificationScore,
			SimilarityScore:    b.SemanticSimilarity,
			RankPosition:       b.RankPosition,
			MatchedSkillsJSON:  matched,
			MissingSkillsJSON:  missing,
			Explanation:        b.Explanation,
		})
	}

	if err := h.storage.MySQL.ReplaceJobRankings(ctx, jobID, rows); err != nil {
		return nil, err
	}

	// The pool-wide analytics overview is now stale.
	if err := h.storage.Redis.Delete(ctx, constants.KeyScoreDistribution); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate analytics cache")
	}

	logger.Info().Str("job_id", jobID).Int("candidates", len(breakdowns)).Msg("ranking run completed")
	return breakdowns, nil
}

// GetJobRanking returns the stored ranking for a job, best first.
func (h *RankingHandler) GetJobRanking(ctx context.Context, jobID string) ([]RankedCandidateView, error) {
	rows, err := h.storage.MySQL.GetJobRankings(ctx, jobID)
	if err != nil {
		return nil, err
	}

	views := make([]RankedCandidateView, 0, len(rows))
	for i := range rows {
		view, viewErr := rankingRowToView(&rows[i])
		if viewErr != nil {
			return nil, viewErr
		}
		views = append(views, *view)
	}
	return views, nil
}

func rankingRowToView(row *models.Ranking) (*RankedCandidateView, error) {
	view := &RankedCandidateView{
		CandidateID:        row.CandidateID,
		RankPosition:       row.RankPosition,
		OverallScore:       row.OverallScore,
		SkillScore:         row.SkillScore,
		ExperienceScore:    row.ExperienceScore,
		EducationScore:     row.EducationScore,
		CertificationScore: row.CertificationScore,
		SemanticSimilarity: row.SimilarityScore,
		Explanation:        row.Explanation,
	}
	if row.Candidate != nil {
		view.Name = row.Candidate.Name
		view.Email = row.Candidate.Email
	}
	if len(row.MatchedSkillsJSON) > 0 {
		if err := json.Unmarshal(row.MatchedSkillsJSON, &view.MatchedSkills); err != nil {
			return nil, fmt.Errorf("failed to decode matched skills: %w", err)
		}
	}
	if len(row.MissingSkillsJSON) > 0 {
		if err := json.Unmarshal(row.MissingSkillsJSON, &view.MissingSkills); err != nil {
			return nil, fmt.Errorf("failed to decode missing skills: %w", err)
		}
	}
	return view, nil
}

// ExportRankingCSV renders the stored ranking of a job as a CSV document.
func (h *RankingHandler) ExportRankingCSV(ctx context.Context, jobID string) ([]byte, error) {
	views, err := h.GetJobRanking(ctx, jobID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"rank", "candidate_id", "name", "email",
		"overall_score", "skill_score", "experience_score",
		"education_score", "certification_score", "semantic_similarity",
		"matched_skills", "missing_skills", "explanation",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, v := range views {
		record := []string{
			strconv.Itoa(v.RankPosition),
			v.CandidateID,
			v.Name,
			v.Email,
			strconv.FormatFloat(v.OverallScore, 'f', 2, 64),
			strconv.FormatFloat(v.SkillScore, 'f', 2, 64),
			strconv.FormatFloat(v.ExperienceScore, 'f', 2, 64),
			strconv.FormatFloat(v.EducationScore, 'f', 2, 64),
			strconv.FormatFloat(v.CertificationScore, 'f', 2, 64),
			strconv.FormatFloat(v.SemanticSimilarity, 'f', 4, 64),
			strings.Join(v.MatchedSkills, "; "),
			strings.Join(v.MissingSkills, "; "),
			v.Explanation,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
