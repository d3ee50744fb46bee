package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smart-recruit/internal/config"
	"smart-recruit/internal/similarity"
	"smart-recruit/internal/types"
)

func newTestScorer() *FactorScorer {
	return New(config.DefaultConfig().Scoring, similarity.NewEngine())
}

const jobText = "Backend Engineer Python Django PostgreSQL REST API development"

func TestExperienceScoreEmptyHistory(t *testing.T) {
	s := newTestScorer()
	assert.Equal(t, 0.0, s.ExperienceScore(nil, jobText))
}

func TestExperienceScoreOngoingBonus(t *testing.T) {
	s := newTestScorer()

	past := []types.ExperienceEntry{{
		Title:       "Backend Engineer",
		Company:     "PT Teknologi Nusantara",
		Duration:    "2018 - 2020",
		Description: "Python Django development",
	}}
	ongoing := []types.ExperienceEntry{{
		Title:       "Backend Engineer",
		Company:     "PT Teknologi Nusantara",
		Duration:    "2020 - present",
		Description: "Python Django development",
	}}

	pastScore := s.ExperienceScore(past, jobText)
	ongoingScore := s.ExperienceScore(ongoing, jobText)

	// Same entry, same relevance; only the one-time ongoing bonus differs.
	assert.InDelta(t, 10.0, ongoingScore-pastScore, 1e-9)
	assert.GreaterOrEqual(t, ongoingScore-pastScore, 10.0)
}

func TestExperienceScoreRecognizesIndonesianOngoingMarker(t *testing.T) {
	s := newTestScorer()

	entries := []types.ExperienceEntry{{
		Title:    "Software Engineer",
		Company:  "PT Digital Maju",
		Duration: "2021 - sekarang",
	}}
	baseline := []types.ExperienceEntry{{
		Title:    "Software Engineer",
		Company:  "PT Digital Maju",
		Duration: "2019 - 2021",
	}}

	assert.InDelta(t, 10.0, s.ExperienceScore(entries, jobText)-s.ExperienceScore(baseline, jobText), 1e-9)
}

func TestExperienceScoreEntryBaseIsCapped(t *testing.T) {
	s := newTestScorer()

	// Five entries with no text relevant to the job: base 15 each, capped
	// at 40, no relevance, no ongoing bonus.
	entries := make([]types.ExperienceEntry, 5)
	for i := range entries {
		entries[i] = types.ExperienceEntry{Duration: "2010 - 2012"}
	}

	assert.Equal(t, 40.0, s.ExperienceScore(entries, jobText))
}

func TestExperienceScoreClampedAtMax(t *testing.T) {
	s := newTestScorer()

	entries := make([]types.ExperienceEntry, 10)
	for i := range entries {
		entries[i] = types.ExperienceEntry{
			Title:       "Backend Engineer",
			Company:     "PT Teknologi",
			Duration:    "2015 - present",
			Description: "Backend Engineer Python Django PostgreSQL REST API development",
		}
	}

	score := s.ExperienceScore(entries, jobText)
	assert.LessOrEqual(t, score, 100.0)
	assert.Greater(t, score, 40.0)
}

func TestEducationScoreNoDataFloor(t *testing.T) {
	s := newTestScorer()
	assert.Equal(t, 20.0, s.EducationScore(nil))
}

func TestEducationScoreDegreeLevelAndInstitutionBonus(t *testing.T) {
	s := newTestScorer()

	sarjana := []types.EducationEntry{{
		Degree:      "Sarjana Teknik Informatika",
		Institution: "Universitas Indonesia",
		Year:        "2019",
	}}
	// Level 40 for sarjana, +10 institution bonus.
	assert.Equal(t, 50.0, s.EducationScore(sarjana))

	magister := []types.EducationEntry{{
		Degree:      "Magister Teknik Elektro",
		Institution: "Institut Teknologi Bandung",
		Year:        "2022",
	}}
	// Level 60 for magister, +10 institution bonus.
	assert.Equal(t, 70.0, s.EducationScore(magister))
}

func TestEducationScoreUnknownDegreeKeepsBase(t *testing.T) {
	s := newTestScorer()

	entries := []types.EducationEntry{{
		Degree:      "Kursus Singkat Pemrograman",
		Institution: "Pusat Kursus Jakarta",
	}}
	assert.Equal(t, 40.0, s.EducationScore(entries))
}

func TestCertificationScore(t *testing.T) {
	s := newTestScorer()

	assert.Equal(t, 0.0, s.CertificationScore(nil))

	// One premium certification: base 20 + premium 15.
	assert.Equal(t, 35.0, s.CertificationScore([]string{"AWS Certified Solutions Architect"}))

	// Two generic entries: base 40, no premium bonus.
	generic := []string{"Internal Onboarding Course", "First Aid Basics"}
	assert.Equal(t, 40.0, s.CertificationScore(generic))
}

func TestCertificationScoreClampedAtMax(t *testing.T) {
	s := newTestScorer()

	certs := make([]string, 6)
	for i := range certs {
		certs[i] = "AWS Certified Solutions Architect"
	}
	assert.Equal(t, 100.0, s.CertificationScore(certs))
}
