// Package ranker scores and ranks candidate profiles against one job
// requirement. Per-candidate scoring is independent and runs on a bounded
// worker pool; the final sort and rank assignment is the only serialization
// point and uses a stable sort so ties keep submission order.
package ranker

import (
	"math"
	"sort"
	"strings"
	"sync"

	"smart-recruit/internal/config"
	"smart-recruit/internal/matcher"
	"smart-recruit/internal/scorer"
	"smart-recruit/internal/similarity"
	"smart-recruit/internal/types"
)

// Candidate pairs a candidate identifier with its extracted profile.
type Candidate struct {
	ID      string
	Profile types.CandidateProfile
}

// Ranker computes weighted overall scores for a batch of candidates.
type Ranker struct {
	cfg     config.RankingConfig
	scorers *scorer.FactorScorer
	sim     *similarity.Engine
}

// New builds a Ranker. The ranking weights must already be validated
// (config.RankingConfig.Validate).
func New(cfg config.RankingConfig, scorers *scorer.FactorScorer, sim *similarity.Engine) *Ranker {
	return &Ranker{cfg: cfg, scorers: scorers, sim: sim}
}

// Rank scores every candidate against the job and returns the batch ordered
// by descending overall score with dense 1-based rank positions. The output
// length always equals the input length; ties keep the candidates' input
// order.
func (r *Ranker) Rank(job types.JobRequirement, candidates []Candidate) []types.ScoreBreakdown {
	jobText := strings.TrimSpace(job.Title + " " + job.Description + " " + job.Requirements)

	results := make([]types.ScoreBreakdown, len(candidates))

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = r.scoreCandidate(job, jobText, candidates[i])
			}
		}()
	}
	for i := range candidates {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].OverallScore > results[j].OverallScore
	})
	for i := range results {
		results[i].RankPosition = i + 1
	}
	return results
}

func (r *Ranker) scoreCandidate(job types.JobRequirement, jobText string, candidate Candidate) types.ScoreBreakdown {
	profile := candidate.Profile

	skillResult := matcher.MatchSkills(profile.Skills, job.SkillsRequired)
	experienceScore := r.scorers.ExperienceScore(profile.Experience, jobText)
	educationScore := r.scorers.EducationScore(profile.Education)
	certificationScore := r.scorers.CertificationScore(profile.Certifications)

	semanticSim := r.sim.Similarity(composeCandidateText(profile), jobText)

	factorScore := skillResult.Score*r.cfg.SkillWeight +
		experienceScore*r.cfg.ExperienceWeight +
		educationScore*r.cfg.EducationWeight +
		certificationScore*r.cfg.CertificationWeight
	overall := factorScore*r.cfg.FactorBlend + semanticSim*100*r.cfg.SemanticBlend

	return types.ScoreBreakdown{
		CandidateID:        candidate.ID,
		OverallScore:       round2(overall),
		SkillScore:         round2(skillResult.Score),
		ExperienceScore:    round2(experienceScore),
		EducationScore:     round2(educationScore),
		CertificationScore: round2(certificationScore),
		SemanticSimilarity: round4(semanticSim),
		MatchedSkills:      skillResult.Matched,
		MissingSkills:      skillResult.Missing,
		Explanation: explain(skillResult, experienceScore, educationScore,
			semanticSim),
	}
}

// composeCandidateText joins the profile parts that describe the candidate
// as free text: summary, skills and experience titles/descriptions.
func composeCandidateText(profile types.CandidateProfile) string {
	var b strings.Builder
	b.WriteString(profile.Summary)
	for _, skill := range profile.Skills {
		b.WriteString(" ")
		b.WriteString(skill)
	}
	for _, exp := range profile.Experience {
		b.WriteString(" ")
		b.WriteString(exp.Title)
		b.WriteString(" ")
		b.WriteString(exp.Description)
	}
	return strings.TrimSpace(b.String())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
