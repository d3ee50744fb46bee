package extractor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Section identifies a logical CV section.
type Section string

const (
	// SectionExperience work-history section
	SectionExperience Section = "experience"
	// SectionEducation education section
	SectionEducation Section = "education"
	// SectionSkills skills section
	SectionSkills Section = "skills"
	// SectionCertifications certifications/training section
	SectionCertifications Section = "certifications"
)

// sectionOrder fixes the priority order in which section header patterns are
// evaluated, in particular when deciding whether a line exits the current
// section. The order is deterministic by contract; callers must not depend on
// map iteration.
var sectionOrder = []Section{
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionCertifications,
}

// Vocabulary holds every term table the entity extractor matches against.
// The tables are data, not code: they can be loaded from a YAML file and
// versioned independently of the extraction logic.
type Vocabulary struct {
	Version string `yaml:"version"`

	// TechSkills and SoftSkills are matched whole-word, case-insensitive,
	// over the full document text.
	TechSkills []string `yaml:"tech_skills"`
	SoftSkills []string `yaml:"soft_skills"`

	// EducationKeywords mark lines that start an education entry.
	EducationKeywords []string `yaml:"education_keywords"`
	// InstitutionKeywords split an education line into degree/institution
	// and earn the institution bonus during scoring.
	InstitutionKeywords []string `yaml:"institution_keywords"`

	// SectionPatterns maps each section to its header regex.
	SectionPatterns map[Section]string `yaml:"section_patterns"`

	// DocumentHeaderPattern rejects candidate-name lines that are document
	// boilerplate ("Curriculum Vitae", "Resume", ...).
	DocumentHeaderPattern string `yaml:"document_header_pattern"`
	// SummaryHeaderPattern finds the profile/summary heading.
	SummaryHeaderPattern string `yaml:"summary_header_pattern"`

	// Stopwords is the bilingual list used by the normalization pipeline.
	Stopwords []string `yaml:"stopwords"`
}

// DefaultVocabulary returns the built-in English/Indonesian term tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Version: "2024.1",
		TechSkills: []string{
			// Programming languages
			"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "php",
			"swift", "kotlin", "go", "golang", "rust", "scala", "perl", "r", "matlab",
			"dart", "lua", "haskell", "elixir", "clojure", "objective-c",
			// Web frameworks
			"react", "reactjs", "react.js", "angular", "vue", "vuejs", "vue.js",
			"next.js", "nextjs", "nuxt", "svelte", "django", "flask", "fastapi",
			"spring", "spring boot", "express", "expressjs", "laravel", "rails",
			"ruby on rails", "asp.net", ".net", "node.js", "nodejs",
			// Databases
			"mysql", "postgresql", "postgres", "mongodb", "redis", "elasticsearch",
			"sqlite", "oracle", "sql server", "cassandra", "dynamodb", "firebase",
			"neo4j", "mariadb", "couchdb",
			// Cloud & DevOps
			"aws", "azure", "gcp", "google cloud", "docker", "kubernetes", "k8s",
			"terraform", "ansible", "jenkins", "gitlab ci", "github actions",
			"ci/cd", "linux", "nginx", "apache",
			// Data science & AI
			"machine learning", "deep learning", "tensorflow", "pytorch", "keras",
			"scikit-learn", "pandas", "numpy", "nlp", "computer vision",
			"data analysis", "data science", "big data", "hadoop", "spark",
			"tableau", "power bi",
			// Mobile
			"android", "ios", "react native", "flutter", "xamarin",
			// Tools & practices
			"git", "github", "gitlab", "bitbucket", "jira", "confluence",
			"figma", "photoshop", "illustrator", "sketch",
			"agile", "scrum", "kanban", "rest api", "graphql", "microservices",
			"html", "css", "sass", "less", "tailwind", "bootstrap",
			"sql", "nosql", "api", "oauth", "jwt",
		},
		SoftSkills: []string{
			"leadership", "communication", "teamwork", "problem solving",
			"critical thinking", "time management", "project management",
			"analytical", "creative", "adaptable", "detail-oriented",
			"collaboration", "presentation", "negotiation", "mentoring",
			"kepemimpinan", "komunikasi", "kerja tim", "manajemen proyek",
			"analitis", "kreatif", "adaptif",
		},
		EducationKeywords: []string{
			"sarjana", "bachelor", "s1", "s.kom", "s.t", "s.si", "s.e",
			"master", "magister", "s2", "m.kom", "m.t", "m.si", "mba",
			"doktor", "phd", "s3", "dr.",
			"diploma", "d3", "d4",
			"sma", "smk", "smp",
			"universitas", "university", "institut", "politeknik",
			"college", "school", "academy", "akademi",
		},
		InstitutionKeywords: []string{
			"universitas", "university", "institut", "politeknik", "college", "akademi",
		},
		SectionPatterns: map[Section]string{
			SectionExperience:     `(?i)(work\s*experience|pengalaman\s*kerja|professional\s*experience|employment|riwayat\s*pekerjaan|experience)`,
			SectionEducation:      `(?i)(education|pendidikan|academic|riwayat\s*pendidikan|qualifications)`,
			SectionSkills:         `(?i)(skills|keahlian|kemampuan|technical\s*skills|competenc|keterampilan)`,
			SectionCertifications: `(?i)(certif|sertif|licenses|lisensi|training|pelatihan)`,
		},
		DocumentHeaderPattern: `(?i)^(curriculum|resume|cv|daftar|phone|email|address|alamat)`,
		SummaryHeaderPattern:  `(?i)(summary|ringkasan|profil|profile|about|tentang)`,
		Stopwords: []string{
			// English
			"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
			"have", "has", "had", "do", "does", "did", "will", "would", "could",
			"should", "may", "might", "shall", "can", "need", "dare", "ought",
			"used", "to", "of", "in", "for", "on", "with", "at", "by", "from",
			"as", "into", "through", "during", "before", "after", "above", "below",
			"between", "out", "off", "over", "under", "again", "further", "then",
			"once", "and", "but", "or", "nor", "not", "so", "very", "just",
			"about", "up", "its", "it", "this", "that", "these", "those",
			// Indonesian
			"yang", "dan", "di", "ke", "dari", "untuk", "pada", "dengan", "ini",
			"itu", "adalah", "juga", "atau", "tidak", "akan", "ada", "sudah",
			"saya", "kami", "kita", "mereka", "anda", "dia", "ia", "nya",
			"dalam", "oleh", "sebagai", "serta", "antara", "setelah", "seperti",
			"karena", "tetapi", "namun", "bahwa", "telah", "dapat", "bisa",
			"lebih", "sangat", "hanya", "masih", "sedang", "menjadi", "hingga",
		},
	}
}

// LoadVocabulary reads a vocabulary table file in YAML format. Tables left
// empty in the file fall back to the built-in defaults, so a deployment can
// override just the skill list without restating section patterns.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	vocab := DefaultVocabulary()
	var loaded Vocabulary
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse vocabulary file: %w", err)
	}

	if loaded.Version != "" {
		vocab.Version = loaded.Version
	}
	if len(loaded.TechSkills) > 0 {
		vocab.TechSkills = loaded.TechSkills
	}
	if len(loaded.SoftSkills) > 0 {
		vocab.SoftSkills = loaded.SoftSkills
	}
	if len(loaded.EducationKeywords) > 0 {
		vocab.EducationKeywords = loaded.EducationKeywords
	}
	if len(loaded.InstitutionKeywords) > 0 {
		vocab.InstitutionKeywords = loaded.InstitutionKeywords
	}
	if len(loaded.SectionPatterns) > 0 {
		vocab.SectionPatterns = loaded.SectionPatterns
	}
	if loaded.DocumentHeaderPattern != "" {
		vocab.DocumentHeaderPattern = loaded.DocumentHeaderPattern
	}
	if loaded.SummaryHeaderPattern != "" {
		vocab.SummaryHeaderPattern = loaded.SummaryHeaderPattern
	}
	if len(loaded.Stopwords) > 0 {
		vocab.Stopwords = loaded.Stopwords
	}

	return vocab, nil
}
