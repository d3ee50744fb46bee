package ranker

import (
	"fmt"
	"strings"

	"smart-recruit/internal/types"
)

// Score buckets for the templated explanation. Rendering is deterministic:
// identical scores always produce byte-identical text.
const (
	skillExcellent = 80
	skillGood      = 60
	skillFair      = 40

	experienceStrong = 70
	experienceFair   = 40

	educationStrong = 60
	educationFair   = 30

	similarityStrong = 0.5
	similarityFair   = 0.3

	maxMissingSkillsListed = 5
)

// explain renders the recruiter-facing explanation in Indonesian from the
// score buckets.
func explain(skillResult types.SkillMatchResult, experienceScore, educationScore, semanticSim float64) string {
	var parts []string

	matchedCount := len(skillResult.Matched)
	totalRequired := matchedCount + len(skillResult.Missing)

	if totalRequired > 0 {
		var quality string
		switch {
		case skillResult.Score >= skillExcellent:
			quality = "sangat baik"
		case skillResult.Score >= skillGood:
			quality = "baik"
		case skillResult.Score >= skillFair:
			quality = "cukup"
		default:
			quality = "rendah"
		}
		parts = append(parts, fmt.Sprintf("Kecocokan skill %s (%d/%d skill cocok).", quality, matchedCount, totalRequired))
	}

	if len(skillResult.Missing) > 0 {
		missing := skillResult.Missing
		if len(missing) > maxMissingSkillsListed {
			missing = missing[:maxMissingSkillsListed]
		}
		parts = append(parts, fmt.Sprintf("Skill yang kurang: %s.", strings.Join(missing, ", ")))
	}

	switch {
	case experienceScore >= experienceStrong:
		parts = append(parts, "Pengalaman kerja sangat relevan.")
	case experienceScore >= experienceFair:
		parts = append(parts, "Pengalaman kerja cukup relevan.")
	case experienceScore > 0:
		parts = append(parts, "Pengalaman kerja kurang relevan.")
	default:
		parts = append(parts, "Tidak ada data pengalaman.")
	}

	switch {
	case educationScore >= educationStrong:
		parts = append(parts, "Latar belakang pendidikan sesuai.")
	case educationScore >= educationFair:
		parts = append(parts, "Latar belakang pendidikan cukup.")
	}

	switch {
	case semanticSim >= similarityStrong:
		parts = append(parts, "Profil secara keseluruhan sangat cocok dengan posisi ini.")
	case semanticSim >= similarityFair:
		parts = append(parts, "Profil secara keseluruhan cukup cocok.")
	}

	return strings.Join(parts, " ")
}
