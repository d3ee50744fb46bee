package types

// ScoreBreakdown is the complete scoring record for one candidate within one
// ranking run. Factor scores are in [0,100], SemanticSimilarity in [0,1].
type ScoreBreakdown struct {
	CandidateID        string   `json:"candidate_id"`
	OverallScore       float64  `json:"overall_score"`
	SkillScore         float64  `json:"skill_score"`
	ExperienceScore    float64  `json:"experience_score"`
	EducationScore     float64  `json:"education_score"`
	CertificationScore float64  `json:"certification_score"`
	SemanticSimilarity float64  `json:"semantic_similarity"`
	RankPosition       int      `json:"rank_position"`
	MatchedSkills      []string `json:"matched_skills"`
	MissingSkills      []string `json:"missing_skills"`
	Explanation        string   `json:"explanation"`
}

// SkillMatchResult holds the outcome of matching a candidate's skills against
// a job's required skills. Matched and Missing carry display-cased names.
type SkillMatchResult struct {
	Score   float64  `json:"score"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// ComplianceReport is the result of a four-fifths rule check.
type ComplianceReport struct {
	Compliant      bool                     `json:"compliant"`
	MaxRate        float64                  `json:"max_rate"`
	Threshold80Pct float64                  `json:"threshold_80pct"`
	Violations     map[string]RateViolation `json:"violations,omitempty"`
	Details        string                   `json:"details"`
}

// RateViolation describes one group whose selection rate fell below the
// four-fifths threshold.
type RateViolation struct {
	Rate      float64 `json:"rate"`
	Threshold float64 `json:"threshold"`
	// Ratio is the group's rate relative to the highest group's rate.
	Ratio float64 `json:"ratio"`
}

// DistributionReport summarizes a score distribution. Percentile markers are
// index-based (not interpolated) over the sorted scores.
type DistributionReport struct {
	Count       int                   `json:"count"`
	Mean        float64               `json:"mean"`
	Std         float64               `json:"std"`
	Min         float64               `json:"min"`
	Max         float64               `json:"max"`
	Percentiles map[string]float64    `json:"percentiles"`
	ByGroup     map[string]GroupStats `json:"by_group,omitempty"`
}

// GroupStats holds the per-group slice of a distribution analysis.
type GroupStats struct {
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
	Std   float64 `json:"std"`
}

// JobAuditReport is the job-level fairness audit over a completed ranking,
// using score quartiles as a proxy for demographic groups.
type JobAuditReport struct {
	TotalCandidates int     `json:"total_candidates"`
	AverageScore    float64 `json:"average_score"`
	// SelectionRate is the fraction of all candidates scoring at or above
	// the selection threshold.
	SelectionRate       float64            `json:"selection_rate"`
	QuartileSizes       map[string]int     `json:"quartile_sizes"`
	QuartileAverages    map[string]float64 `json:"quartile_averages"`
	FourFifthsCompliant bool               `json:"four_fifths_compliant"`
	Compliance          ComplianceReport   `json:"compliance"`
	Details             string             `json:"details"`
}
