package processor

import (
	"github.com/rs/zerolog"

	"smart-recruit/internal/storage"
)

// ComponentOpt mutates the Components aggregate only.
type ComponentOpt func(*Components)

// SettingOpt mutates the Settings aggregate only.
type SettingOpt func(*Settings)

// Components aggregates the functional dependencies of the pipeline so tests
// can swap them out piecemeal.
type Components struct {
	FileExtractor    FileTextExtractor
	ProfileExtractor ProfileExtractor

	Storage *storage.Storage
}

// Settings holds plain configuration, no business components.
type Settings struct {
	ParserVersion string
	Debug         bool
	Logger        zerolog.Logger
}

// WithFileExtractor sets the file-to-text extractor.
func WithFileExtractor(extractor FileTextExtractor) ComponentOpt {
	return func(c *Components) {
		c.FileExtractor = extractor
	}
}

// WithProfileExtractor sets the text-to-profile extractor.
func WithProfileExtractor(extractor ProfileExtractor) ComponentOpt {
	return func(c *Components) {
		c.ProfileExtractor = extractor
	}
}

// WithStorage sets the aggregated storage manager.
func WithStorage(s *storage.Storage) ComponentOpt {
	return func(c *Components) {
		c.Storage = s
	}
}

// WithParserVersion records the parser version stamped onto resume rows.
func WithParserVersion(version string) SettingOpt {
	return func(s *Settings) {
		s.ParserVersion = version
	}
}

// WithDebug toggles verbose pipeline logging.
func WithDebug(debug bool) SettingOpt {
	return func(s *Settings) {
		s.Debug = debug
	}
}

// WithLogger overrides the pipeline logger.
func WithLogger(logger zerolog.Logger) SettingOpt {
	return func(s *Settings) {
		s.Logger = logger
	}
}
