package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchSkillsPartialMatch(t *testing.T) {
	result := MatchSkills([]string{"Python"}, []string{"Python", "React", "Docker"})

	assert.Equal(t, 33.33, result.Score)
	assert.Equal(t, []string{"Python"}, result.Matched)
	assert.Equal(t, []string{"Docker", "React"}, result.Missing)
}

func TestMatchSkillsEmptyRequirementIsVacuous(t *testing.T) {
	result := MatchSkills([]string{"Python", "Go"}, nil)

	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, []string{"Python", "Go"}, result.Matched)
	assert.Empty(t, result.Missing)
}

func TestMatchSkillsCaseInsensitive(t *testing.T) {
	result := MatchSkills([]string{"PYTHON", "docker"}, []string{"python", "Docker"})

	assert.Equal(t, 100.0, result.Score)
	assert.Empty(t, result.Missing)
}

func TestMatchSkillsContainmentFallback(t *testing.T) {
	// "react" is not an exact member of the candidate set but is contained
	// in "react.js", so the requirement still counts as matched.
	result := MatchSkills([]string{"React.js"}, []string{"react"})

	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, []string{"React"}, result.Matched)
	assert.Empty(t, result.Missing)
}

func TestMatchSkillsNoOverlap(t *testing.T) {
	result := MatchSkills([]string{"Photoshop"}, []string{"Python", "Go"})

	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Matched)
	assert.Len(t, result.Missing, 2)
}

func TestMatchSkillsEmptyCandidate(t *testing.T) {
	result := MatchSkills(nil, []string{"Python", "React"})

	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Matched)
	assert.Equal(t, []string{"Python", "React"}, result.Missing)
}
