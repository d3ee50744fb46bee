// Package matcher compares a candidate's skill set against a job's required
// skills: exact case-insensitive intersection first, then a containment pass
// so "react" still matches "react.js".
package matcher

import (
	"math"
	"sort"
	"strings"

	"smart-recruit/internal/textproc"
	"smart-recruit/internal/types"
)

// MatchSkills scores candidateSkills against requiredSkills. An empty
// requirement list is a vacuous match: score 100, every candidate skill
// reported as matched, nothing missing. Matching is case-insensitive and the
// returned skill names are re-cased for display.
func MatchSkills(candidateSkills, requiredSkills []string) types.SkillMatchResult {
	if len(requiredSkills) == 0 {
		matched := make([]string, len(candidateSkills))
		copy(matched, candidateSkills)
		return types.SkillMatchResult{
			Score:   100.0,
			Matched: matched,
			Missing: []string{},
		}
	}

	candidateSet := toLowerSet(candidateSkills)
	requiredSet := toLowerSet(requiredSkills)

	matched := make(map[string]struct{})
	missing := make(map[string]struct{})
	for req := range requiredSet {
		if _, ok := candidateSet[req]; ok {
			matched[req] = struct{}{}
		} else {
			missing[req] = struct{}{}
		}
	}

	// Containment pass: a still-missing requirement is reclassified when any
	// candidate skill contains it or is contained by it.
	for req := range missing {
		for cand := range candidateSet {
			if strings.Contains(cand, req) || strings.Contains(req, cand) {
				matched[req] = struct{}{}
				delete(missing, req)
				break
			}
		}
	}

	score := float64(len(matched)) / float64(len(requiredSet)) * 100
	return types.SkillMatchResult{
		Score:   math.Round(score*100) / 100,
		Matched: displayList(matched),
		Missing: displayList(missing),
	}
}

func toLowerSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}

// displayList renders a lowercase skill set sorted and display-cased.
func displayList(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, textproc.DisplayCaseSkill(s))
	}
	sort.Strings(out)
	return out
}
