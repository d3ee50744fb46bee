// Package scorer holds the three independent factor scorers (experience,
// education, certification). Each returns a bounded [0,100] score and takes
// its bonus/cap constants from configuration rather than literals.
package scorer

import (
	"strings"

	"smart-recruit/internal/config"
	"smart-recruit/internal/similarity"
	"smart-recruit/internal/types"
)

// FactorScorer evaluates one candidate profile factor at a time. It is
// stateless between calls and safe for concurrent use.
type FactorScorer struct {
	cfg config.ScoringConfig
	sim *similarity.Engine
}

// New builds a FactorScorer from the scoring constants and a similarity
// engine for experience relevance.
func New(cfg config.ScoringConfig, sim *similarity.Engine) *FactorScorer {
	return &FactorScorer{cfg: cfg, sim: sim}
}

// ExperienceScore rates work history against the job text: a capped base for
// the number of entries, an uncapped relevance accumulation per entry, and a
// one-time bonus for an ongoing role; only the final total is clamped.
func (s *FactorScorer) ExperienceScore(entries []types.ExperienceEntry, jobText string) float64 {
	if len(entries) == 0 {
		return 0.0
	}
	cfg := s.cfg.Experience

	score := min(float64(len(entries))*cfg.PerEntryBase, cfg.BaseCap)

	for _, entry := range entries {
		text := strings.TrimSpace(entry.Title + " " + entry.Company + " " + entry.Description)
		if text == "" {
			continue
		}
		score += s.sim.Similarity(text, jobText) * cfg.RelevanceScale
	}

	for _, entry := range entries {
		duration := strings.ToLower(entry.Duration)
		if strings.Contains(duration, "present") || strings.Contains(duration, "sekarang") {
			score += cfg.OngoingBonus
			break
		}
	}

	return min(score, cfg.MaxScore)
}

// EducationScore rates education history. Candidates without extracted
// education keep a partial-credit floor rather than zero, since absence of
// the section usually means the parser missed it.
func (s *FactorScorer) EducationScore(entries []types.EducationEntry) float64 {
	if len(entries) == 0 {
		return s.cfg.Education.NoDataScore
	}
	cfg := s.cfg.Education

	score := cfg.BaseScore

	maxLevel := 0.0
	for _, entry := range entries {
		degree := strings.ToLower(entry.Degree + " " + entry.Institution)
		for keyword, level := range cfg.DegreeLevels {
			if strings.Contains(degree, keyword) && level > maxLevel {
				maxLevel = level
			}
		}
	}
	if maxLevel > score {
		score = maxLevel
	}

	for _, entry := range entries {
		institution := strings.ToLower(entry.Institution)
		bonus := false
		for _, keyword := range cfg.InstitutionKeywords {
			if strings.Contains(institution, keyword) {
				score += cfg.InstitutionBonus
				bonus = true
				break
			}
		}
		if bonus {
			break
		}
	}

	return min(score, cfg.MaxScore)
}

// CertificationScore rates certifications: a capped count base plus an
// uncapped premium-vendor bonus, clamped at the end.
func (s *FactorScorer) CertificationScore(certifications []string) float64 {
	if len(certifications) == 0 {
		return 0.0
	}
	cfg := s.cfg.Certification

	score := min(float64(len(certifications))*cfg.PerCertBase, cfg.BaseCap)

	for _, cert := range certifications {
		lower := strings.ToLower(cert)
		for _, keyword := range cfg.PremiumKeywords {
			if strings.Contains(lower, keyword) {
				score += cfg.PremiumBonus
				break
			}
		}
	}

	return min(score, cfg.MaxScore)
}
