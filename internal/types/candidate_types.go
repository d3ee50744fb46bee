package types

// CandidateProfile is the structured result of entity extraction over one CV.
// Every field is best-effort: a field the extractor could not detect holds its
// zero value ("Unknown" for Name), never an error.
type CandidateProfile struct {
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Skills         []string          `json:"skills"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Certifications []string          `json:"certifications"`
	Summary        string            `json:"summary"`
}

// ExperienceEntry is one work-history record in document order.
type ExperienceEntry struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	// Duration keeps the raw matched date-range token, e.g. "2019 - present".
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// EducationEntry is one education record in document order.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	// Year is a 4-digit string, or "" when no year token was found.
	Year string `json:"year"`
}

// JobRequirement describes the position candidates are ranked against.
type JobRequirement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Requirements is optional free text appended to the job description
	// when building the comparison text.
	Requirements   string   `json:"requirements,omitempty"`
	SkillsRequired []string `json:"skills_required"`
	// MinExperienceYears and EducationLevel are part of the contract but
	// currently unused by the scoring functions.
	MinExperienceYears int    `json:"min_experience_years"`
	EducationLevel     string `json:"education_level,omitempty"`
}
