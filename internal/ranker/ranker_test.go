package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-recruit/internal/config"
	"smart-recruit/internal/scorer"
	"smart-recruit/internal/similarity"
	"smart-recruit/internal/types"
)

func newTestRanker(t *testing.T) *Ranker {
	t.Helper()
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Ranking.Validate())
	sim := similarity.NewEngine()
	return New(cfg.Ranking, scorer.New(cfg.Scoring, sim), sim)
}

func testJob() types.JobRequirement {
	return types.JobRequirement{
		Title:          "Backend Engineer",
		Description:    "Python backend development with Django and PostgreSQL",
		Requirements:   "REST API design, relational databases",
		SkillsRequired: []string{"Python", "Django", "PostgreSQL"},
	}
}

func strongCandidate(id string) Candidate {
	return Candidate{
		ID: id,
		Profile: types.CandidateProfile{
			Name:   "Budi Santoso",
			Email:  "budi@email.com",
			Skills: []string{"Python", "Django", "PostgreSQL", "Docker"},
			Experience: []types.ExperienceEntry{{
				Title:       "Backend Engineer",
				Company:     "PT Teknologi Nusantara",
				Duration:    "2020 - present",
				Description: "Built Python Django services backed by PostgreSQL",
			}},
			Education: []types.EducationEntry{{
				Degree:      "Sarjana Teknik Informatika",
				Institution: "Universitas Indonesia",
				Year:        "2019",
			}},
			Certifications: []string{"AWS Certified Developer"},
			Summary:        "Backend engineer focused on Python web services",
		},
	}
}

func weakCandidate(id string) Candidate {
	return Candidate{
		ID: id,
		Profile: types.CandidateProfile{
			Name:    "Siti Rahayu",
			Skills:  []string{"Photoshop", "Illustrator"},
			Summary: "Graphic designer for print media",
		},
	}
}

func TestRankOrdersByOverallScore(t *testing.T) {
	r := newTestRanker(t)

	// 1. Rank a clearly matching profile against a clearly mismatched one.
	results := r.Rank(testJob(), []Candidate{weakCandidate("weak"), strongCandidate("strong")})
	require.Len(t, results, 2)

	// 2. The matching profile wins rank 1 regardless of input order.
	assert.Equal(t, "strong", results[0].CandidateID)
	assert.Equal(t, 1, results[0].RankPosition)
	assert.Equal(t, "weak", results[1].CandidateID)
	assert.Equal(t, 2, results[1].RankPosition)
	assert.Greater(t, results[0].OverallScore, results[1].OverallScore)

	// 3. Breakdown fields are populated for the winner.
	top := results[0]
	assert.Equal(t, 100.0, top.SkillScore, "all three required skills are present")
	assert.Greater(t, top.ExperienceScore, 0.0)
	assert.Greater(t, top.EducationScore, 0.0)
	assert.Greater(t, top.CertificationScore, 0.0)
	assert.Len(t, top.MatchedSkills, 3)
	assert.Empty(t, top.MissingSkills)
	assert.NotEmpty(t, top.Explanation)

	// 4. The mismatched profile misses every requirement.
	assert.Len(t, results[1].MissingSkills, 3)
	assert.Contains(t, results[1].Explanation, "Tidak ada data pengalaman.")
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	r := newTestRanker(t)

	// Identical profiles produce identical scores; the stable sort keeps
	// submission order.
	results := r.Rank(testJob(), []Candidate{strongCandidate("first"), strongCandidate("second")})
	require.Len(t, results, 2)

	assert.Equal(t, results[0].OverallScore, results[1].OverallScore)
	assert.Equal(t, "first", results[0].CandidateID)
	assert.Equal(t, "second", results[1].CandidateID)
	assert.Equal(t, 1, results[0].RankPosition)
	assert.Equal(t, 2, results[1].RankPosition)
}

func TestRankEmptyBatch(t *testing.T) {
	r := newTestRanker(t)
	assert.Empty(t, r.Rank(testJob(), nil))
}

func TestRankScoresAreBounded(t *testing.T) {
	r := newTestRanker(t)

	results := r.Rank(testJob(), []Candidate{
		strongCandidate("a"), weakCandidate("b"), {ID: "empty"},
	})
	require.Len(t, results, 3)

	for _, res := range results {
		assert.GreaterOrEqual(t, res.OverallScore, 0.0)
		assert.LessOrEqual(t, res.OverallScore, 100.0)
		assert.GreaterOrEqual(t, res.SemanticSimilarity, 0.0)
		assert.LessOrEqual(t, res.SemanticSimilarity, 1.0)
	}
}

func TestRankDeterministic(t *testing.T) {
	r := newTestRanker(t)
	batch := []Candidate{strongCandidate("a"), weakCandidate("b")}

	first := r.Rank(testJob(), batch)
	second := r.Rank(testJob(), batch)

	// Same inputs, same scores and explanations, run after run.
	assert.Equal(t, first, second)
}
