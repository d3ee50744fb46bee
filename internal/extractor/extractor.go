// Package extractor turns raw CV text into a structured candidate profile.
// Extraction is heuristic and best-effort: every field degrades to its zero
// value on malformed input, and Extract never fails.
package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"smart-recruit/internal/textproc"
	"smart-recruit/internal/types"
)

const (
	maxExperienceEntries    = 10
	maxEducationEntries     = 5
	maxCertificationEntries = 20

	maxNameLineLength = 60
	nameScanLines     = 5

	minCertificationLength = 6
	maxCertificationLength = 199

	// Leading/trailing separators stripped from titles and degrees.
	separatorCutset = " -–|,"
)

var (
	emailRe = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	// Indonesian-prefixed numbers are tried before the generic pattern.
	phoneIndonesianRe = regexp.MustCompile(`(?:\+62|62|0)\s*\d{2,4}[\s\-]?\d{3,4}[\s\-]?\d{3,4}`)
	phoneGenericRe    = regexp.MustCompile(`\+?\d{1,3}[\s\-]?\(?\d{2,4}\)?[\s\-]?\d{3,4}[\s\-]?\d{3,4}`)
	// Lines consisting only of digits, separators and parentheses (contact
	// noise, page numbers).
	numericLineRe = regexp.MustCompile(`^[\d\s\-+()]+$`)
	// A year range ("2019 - 2022", "2020 - present") or month-name + year
	// token marks the start of an experience entry.
	dateRangeRe = regexp.MustCompile(`(?i)(\d{4}\s*[-–]\s*(?:\d{4}|present|sekarang|saat ini))|((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|januari|februari|maret|april|mei|juni|juli|agustus|september|oktober|november|desember)\w*\s+\d{4})`)
	yearRe      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	bulletRe    = regexp.MustCompile(`^[\d.\-*•►▪]+\s*`)
)

type skillPattern struct {
	term string
	re   *regexp.Regexp
}

// Extractor implements entity extraction over one vocabulary. It is
// stateless after construction and safe for concurrent use.
type Extractor struct {
	vocab           *Vocabulary
	sections        sectionPatterns
	docHeaderRe     *regexp.Regexp
	summaryHeaderRe *regexp.Regexp
	techSkills      []skillPattern
	softSkills      []skillPattern
	eduKeywords     []string
	institutionKws  []skillPattern
	stopwords       map[string]struct{}
}

// New builds an Extractor from the given vocabulary tables; a nil vocabulary
// selects the built-in defaults. Construction fails only on an invalid
// pattern in a loaded vocabulary.
func New(vocab *Vocabulary) (*Extractor, error) {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	sections, err := compileSectionPatterns(vocab)
	if err != nil {
		return nil, err
	}
	docHeaderRe, err := regexp.Compile(vocab.DocumentHeaderPattern)
	if err != nil {
		return nil, err
	}
	summaryHeaderRe, err := regexp.Compile(vocab.SummaryHeaderPattern)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		vocab:           vocab,
		sections:        sections,
		docHeaderRe:     docHeaderRe,
		summaryHeaderRe: summaryHeaderRe,
		stopwords:       textproc.NewStopwordSet(vocab.Stopwords),
	}
	e.techSkills = compileSkillPatterns(vocab.TechSkills)
	e.softSkills = compileSkillPatterns(vocab.SoftSkills)
	for _, kw := range vocab.EducationKeywords {
		e.eduKeywords = append(e.eduKeywords, strings.ToLower(kw))
	}
	for _, kw := range vocab.InstitutionKeywords {
		// Matched case-insensitively against the original line, not a
		// lowered copy: lowercasing can change byte offsets.
		e.institutionKws = append(e.institutionKws, skillPattern{
			term: kw,
			re:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw)),
		})
	}
	return e, nil
}

func compileSkillPatterns(terms []string) []skillPattern {
	patterns := make([]skillPattern, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, skillPattern{
			term: term,
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(term)) + `\b`),
		})
	}
	return patterns
}

// Stopwords exposes the vocabulary's stop-word set for the normalization
// pipeline.
func (e *Extractor) Stopwords() map[string]struct{} {
	return e.stopwords
}

// Vocabulary returns the term tables this extractor was built from.
func (e *Extractor) Vocabulary() *Vocabulary {
	return e.vocab
}

// Extract parses raw CV text into a structured profile. It never fails: on
// unusable input every field holds its default and the profile is still
// structurally valid.
func (e *Extractor) Extract(text string) types.CandidateProfile {
	return types.CandidateProfile{
		Name:           e.extractName(text),
		Email:          extractEmail(text),
		Phone:          extractPhone(text),
		Skills:         e.extractSkills(text),
		Experience:     e.extractExperience(text),
		Education:      e.extractEducation(text),
		Certifications: e.extractCertifications(text),
		Summary:        e.extractSummary(text),
	}
}

// extractName takes the first of the document's leading lines that looks like
// a person's name rather than contact data or boilerplate.
func (e *Extractor) extractName(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		if i >= nameScanLines {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "@") || numericLineRe.MatchString(line) {
			continue
		}
		if utf8.RuneCountInString(line) > maxNameLineLength {
			continue
		}
		if e.docHeaderRe.MatchString(line) {
			continue
		}
		if words := strings.Fields(line); len(words) >= 1 && len(words) <= 5 {
			return line
		}
	}
	return "Unknown"
}

func extractEmail(text string) string {
	return emailRe.FindString(text)
}

func extractPhone(text string) string {
	if m := phoneIndonesianRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if m := phoneGenericRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

// extractSkills scans the whole lowercased document for every vocabulary
// term with word-boundary matching. The result is deduplicated and carries
// display casing: short terms (acronyms) upper-cased, longer ones
// title-cased.
func (e *Extractor) extractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	seen := make(map[string]struct{})

	appendMatch := func(display string) {
		if _, ok := seen[display]; ok {
			return
		}
		seen[display] = struct{}{}
		found = append(found, display)
	}

	for _, sp := range e.techSkills {
		if sp.re.MatchString(lower) {
			appendMatch(textproc.DisplayCaseSkill(sp.term))
		}
	}
	for _, sp := range e.softSkills {
		if sp.re.MatchString(lower) {
			appendMatch(textproc.TitleCase(sp.term))
		}
	}
	return found
}

func (e *Extractor) extractExperience(text string) []types.ExperienceEntry {
	scanner := newSectionScanner(SectionExperience, e.sections)
	entries := make([]types.ExperienceEntry, 0)
	var current *types.ExperienceEntry

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !scanner.observe(line) {
			continue
		}

		if loc := dateRangeRe.FindStringIndex(line); loc != nil {
			// A new date token flushes the entry in progress.
			if current != nil {
				entries = append(entries, *current)
			}
			current = &types.ExperienceEntry{
				Title:    strings.Trim(line[:loc[0]], separatorCutset),
				Duration: strings.TrimSpace(line[loc[0]:loc[1]]),
			}
		} else if current != nil {
			switch {
			case current.Company == "":
				current.Company = line
			case current.Description == "":
				current.Description = line
			default:
				current.Description += " " + line
			}
		}
	}
	if current != nil {
		entries = append(entries, *current)
	}
	if len(entries) > maxExperienceEntries {
		entries = entries[:maxExperienceEntries]
	}
	return entries
}

func (e *Extractor) extractEducation(text string) []types.EducationEntry {
	scanner := newSectionScanner(SectionEducation, e.sections)
	entries := make([]types.EducationEntry, 0)
	var current *types.EducationEntry

	flush := func() {
		if current != nil && (current.Institution != "" || current.Degree != "") {
			entries = append(entries, *current)
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !scanner.observe(line) {
			continue
		}

		lower := strings.ToLower(line)
		hasKeyword := false
		for _, kw := range e.eduKeywords {
			if strings.Contains(lower, kw) {
				hasKeyword = true
				break
			}
		}
		year := yearRe.FindString(line)

		if hasKeyword || year != "" {
			flush()
			current = &types.EducationEntry{Year: year}

			// An institution-type keyword splits the line into degree
			// (before the keyword) and institution (keyword up to the
			// year token or end of line).
			split := false
			for _, kw := range e.institutionKws {
				loc := kw.re.FindStringIndex(line)
				if loc == nil {
					continue
				}
				current.Degree = strings.Trim(line[:loc[0]], separatorCutset)
				inst := line[loc[0]:]
				if year != "" {
					if j := strings.Index(inst, year); j >= 0 {
						inst = inst[:j]
					}
				}
				current.Institution = strings.Trim(inst, separatorCutset)
				split = true
				break
			}
			if !split {
				rest := line
				if year != "" {
					if j := strings.Index(rest, year); j >= 0 {
						rest = rest[:j]
					}
				}
				current.Degree = strings.Trim(rest, separatorCutset)
			}
		} else if current != nil {
			if current.Institution == "" {
				current.Institution = line
			} else if current.Degree == "" {
				current.Degree = line
			}
		}
	}
	flush()

	if len(entries) > maxEducationEntries {
		entries = entries[:maxEducationEntries]
	}
	return entries
}

func (e *Extractor) extractCertifications(text string) []string {
	scanner := newSectionScanner(SectionCertifications, e.sections)
	certs := make([]string, 0)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !scanner.observe(line) {
			continue
		}
		if n := utf8.RuneCountInString(line); n < minCertificationLength || n > maxCertificationLength {
			continue
		}
		if cleaned := strings.TrimSpace(bulletRe.ReplaceAllString(line, "")); cleaned != "" {
			certs = append(certs, cleaned)
		}
		if len(certs) >= maxCertificationEntries {
			break
		}
	}
	return certs
}

// extractSummary looks for a summary/profile heading anywhere in the
// document and joins up to the next 5 non-empty lines, stopping at the first
// section header. Without such a heading it falls back to the long free-text
// lines just below the contact block.
func (e *Extractor) extractSummary(text string) string {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if !e.summaryHeaderRe.MatchString(line) {
			continue
		}
		var parts []string
		for j := i + 1; j < len(lines) && j <= i+5; j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				continue
			}
			if e.sections.isHeader(next) {
				break
			}
			parts = append(parts, next)
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}

	// Fallback: document positions 4-8, long lines only.
	var content []string
	for i := 3; i < len(lines) && i < 8; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.Contains(line, "@") || numericLineRe.MatchString(line) {
			continue
		}
		if utf8.RuneCountInString(line) > 30 {
			content = append(content, line)
		}
	}
	if len(content) > 3 {
		content = content[:3]
	}
	return strings.Join(content, " ")
}
