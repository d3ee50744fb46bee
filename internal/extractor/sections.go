package extractor

import (
	"fmt"
	"regexp"
)

// sectionPatterns holds the compiled header regex for every section.
type sectionPatterns map[Section]*regexp.Regexp

func compileSectionPatterns(vocab *Vocabulary) (sectionPatterns, error) {
	compiled := make(sectionPatterns, len(vocab.SectionPatterns))
	for _, sec := range sectionOrder {
		pattern, ok := vocab.SectionPatterns[sec]
		if !ok {
			return nil, fmt.Errorf("vocabulary missing header pattern for section %q", sec)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile header pattern for section %q: %w", sec, err)
		}
		compiled[sec] = re
	}
	return compiled, nil
}

// isHeader reports whether the line matches any section's header pattern.
func (p sectionPatterns) isHeader(line string) bool {
	for _, sec := range sectionOrder {
		if p[sec].MatchString(line) {
			return true
		}
	}
	return false
}

// sectionScanner attributes lines to one target section. It is a tiny
// two-state machine: outside the section until the target header appears,
// inside until another section's header appears. Exit checks run in the
// fixed sectionOrder so attribution is deterministic.
type sectionScanner struct {
	target   Section
	patterns sectionPatterns
	inside   bool
}

func newSectionScanner(target Section, patterns sectionPatterns) *sectionScanner {
	return &sectionScanner{target: target, patterns: patterns}
}

// observe consumes one non-empty line and reports whether it is data
// belonging to the target section. A header line is never data: the line that
// enters the section is consumed as a header, and a line matching another
// section's header exits the section before being evaluated.
func (s *sectionScanner) observe(line string) bool {
	if s.inside {
		for _, sec := range sectionOrder {
			if sec == s.target {
				continue
			}
			if s.patterns[sec].MatchString(line) {
				s.inside = false
				return false
			}
		}
		return true
	}
	if s.patterns[s.target].MatchString(line) {
		s.inside = true
	}
	return false
}
