package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-recruit/internal/types"
)

const sampleCV = `Budi Santoso
budi.santoso@email.com
+62 812 3456 7890
Jakarta, Indonesia

Summary
Backend engineer with five years building web services in Python and Go.

Work Experience
Senior Backend Engineer - 2021 - present
PT Teknologi Nusantara
Built REST API services with Python, Django and PostgreSQL on AWS.
Backend Engineer - 2019 - 2021
PT Digital Maju
Developed backend services in Go and Docker.

Education
Sarjana Teknik Informatika - Universitas Indonesia 2019

Certifications
- AWS Certified Solutions Architect
- Scrum Master Certification
`

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(nil)
	require.NoError(t, err)
	return e
}

func TestExtractEmptyTextDegradesToDefaults(t *testing.T) {
	e := newTestExtractor(t)

	profile := e.Extract("")

	assert.Equal(t, "Unknown", profile.Name)
	assert.Empty(t, profile.Email)
	assert.Empty(t, profile.Phone)
	assert.Empty(t, profile.Skills)
	assert.Empty(t, profile.Experience)
	assert.Empty(t, profile.Education)
	assert.Empty(t, profile.Certifications)
	assert.Empty(t, profile.Summary)
}

func TestExtractContactDetails(t *testing.T) {
	e := newTestExtractor(t)

	profile := e.Extract(sampleCV)

	assert.Equal(t, "Budi Santoso", profile.Name)
	assert.Equal(t, "budi.santoso@email.com", profile.Email)
	assert.Equal(t, "+62 812 3456 7890", profile.Phone)
}

func TestExtractNameSkipsDocumentBoilerplate(t *testing.T) {
	e := newTestExtractor(t)

	text := "Curriculum Vitae\nSiti Rahayu\nsiti@email.com"
	profile := e.Extract(text)

	assert.Equal(t, "Siti Rahayu", profile.Name)
}

func TestExtractSkills(t *testing.T) {
	e := newTestExtractor(t)

	profile := e.Extract(sampleCV)

	assert.Contains(t, profile.Skills, "Python")
	assert.Contains(t, profile.Skills, "Django")
	assert.Contains(t, profile.Skills, "Docker")
	assert.Contains(t, profile.Skills, "AWS")
	assert.NotContains(t, profile.Skills, "Rust", "a skill the CV never mentions must not appear")

	// No duplicates even though Python occurs more than once.
	seen := make(map[string]int)
	for _, s := range profile.Skills {
		seen[s]++
	}
	for skill, count := range seen {
		assert.Equal(t, 1, count, "skill %q extracted more than once", skill)
	}
}

func TestExtractExperienceEntries(t *testing.T) {
	e := newTestExtractor(t)

	profile := e.Extract(sampleCV)

	require.Len(t, profile.Experience, 2)

	first := profile.Experience[0]
	assert.Equal(t, "Senior Backend Engineer", first.Title)
	assert.Equal(t, "2021 - present", first.Duration)
	assert.Equal(t, "PT Teknologi Nusantara", first.Company)
	assert.Contains(t, first.Description, "Built REST API services")

	second := profile.Experience[1]
	assert.Equal(t, "Backend Engineer", second.Title)
	assert.Equal(t, "2019 - 2021", second.Duration)
	assert.Equal(t, "PT Digital Maju", second.Company)
}

func TestExtractEducation(t *testing.T) {
	e := newTestExtractor(t)

	profile := e.Extract(sampleCV)

	require.Len(t, profile.Education, 1)
	entry := profile.Education[0]
	assert.Equal(t, "Sarjana Teknik Informatika", entry.Degree)
	assert.Equal(t, "Universitas Indonesia", entry.Institution)
	assert.Equal(t, "2019", entry.Year)
}

func TestExtractEducationLengthChangingRunes(t *testing.T) {
	e := newTestExtractor(t)

	// Lowercasing U+023A grows it from 2 to 3 bytes, so byte offsets into a
	// lowered copy of the line are invalid for the original. Extraction must
	// stay panic-free on such input and still split the line.
	line := strings.Repeat("Ⱥ", 40) + " Universitas Merdeka"
	var profile types.CandidateProfile
	require.NotPanics(t, func() {
		profile = e.Extract("Education\n" + line)
	})

	require.Len(t, profile.Education, 1)
	assert.Equal(t, "Universitas Merdeka", profile.Education[0].Institution)
}

func TestExtractCertifications(t *testing.T) {
	e := newTestExtractor(t)

	profile := e.Extract(sampleCV)

	require.Len(t, profile.Certifications, 2)
	assert.Equal(t, "AWS Certified Solutions Architect", profile.Certifications[0])
	assert.Equal(t, "Scrum Master Certification", profile.Certifications[1])
}

func TestExtractSummary(t *testing.T) {
	e := newTestExtractor(t)

	profile := e.Extract(sampleCV)

	assert.Contains(t, profile.Summary, "Backend engineer with five years")
}

func TestLoadVocabularyMergesOverDefaults(t *testing.T) {
	// 1. Write a vocabulary file that overrides only the tech skill table.
	content := `
version: "test.1"
tech_skills:
  - cobol
  - fortran
`
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// 2. Load and build an extractor from it.
	vocab, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, "test.1", vocab.Version)
	assert.Equal(t, []string{"cobol", "fortran"}, vocab.TechSkills)

	// 3. Tables the file omits keep the built-in defaults.
	assert.NotEmpty(t, vocab.SectionPatterns)
	assert.NotEmpty(t, vocab.Stopwords)

	e, err := New(vocab)
	require.NoError(t, err)
	profile := e.Extract("Legacy maintenance of COBOL batch jobs.")
	assert.Contains(t, profile.Skills, "Cobol")
	assert.NotContains(t, profile.Skills, "Python")
}

func TestLoadVocabularyMissingFile(t *testing.T) {
	vocab, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Nil(t, vocab)
}
