// Package config provides the configuration structures of the grammar checker.
// Settings are read from YAML; zero values are replaced by ApplyDefaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	internalErrors "github.com/gcbaptista/go-grammar-checker/internal/errors"
)

// Settings is the complete configuration of a checker process
type Settings struct {
	Server      ServerSettings      `yaml:"server" json:"server"`
	Logging     LoggingSettings     `yaml:"logging" json:"logging"`
	Lexicon     LexiconSettings     `yaml:"lexicon" json:"lexicon"`
	Checker     CheckerSettings     `yaml:"checker" json:"checker"`
	Jobs        JobSettings         `yaml:"jobs" json:"jobs"`
	Persistence PersistenceSettings `yaml:"persistence" json:"persistence"`
}

// ServerSettings configures the HTTP API
type ServerSettings struct {
	Port            int      `yaml:"port" json:"port"`
	MaxRequestBytes int64    `yaml:"max_request_bytes" json:"max_request_bytes"`
	CORSOrigins     []string `yaml:"cors_origins" json:"cors_origins"`
}

// LoggingSettings configures the slog handler
type LoggingSettings struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn or error
	Format string `yaml:"format" json:"format"` // text or json
}

// LexiconSettings points at an external lexicon. An empty path selects the
// embedded one.
type LexiconSettings struct {
	Path string `yaml:"path" json:"path"`
}

// CheckerSettings tunes rule selection and evaluation
type CheckerSettings struct {
	EnabledRules            []string `yaml:"enabled_rules" json:"enabled_rules"` // empty means all rules
	FilterSuggestions       *bool    `yaml:"filter_suggestions" json:"filter_suggestions"`
	SuggestAdjectivePhrases bool     `yaml:"suggest_adjective_phrases" json:"suggest_adjective_phrases"`
	MaxSentenceTokens       int      `yaml:"max_sentence_tokens" json:"max_sentence_tokens"`
	Parallelism             int      `yaml:"parallelism" json:"parallelism"`
}

// JobSettings limits background batch checks
type JobSettings struct {
	MaxTexts   int `yaml:"max_texts" json:"max_texts"`
	MaxWorkers int `yaml:"max_workers" json:"max_workers"`
}

// PersistenceSettings configures where rule state and analytics are kept.
// An empty data directory keeps everything in memory.
type PersistenceSettings struct {
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

const (
	DefaultPort              = 8080
	DefaultMaxRequestBytes   = 1 << 20
	DefaultMaxSentenceTokens = 300
	DefaultParallelism       = 4
	DefaultMaxTexts          = 1000
	DefaultMaxWorkers        = 2
)

var (
	logLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats = map[string]bool{"text": true, "json": true}
)

// Default returns settings with all defaults applied
func Default() *Settings {
	s := &Settings{}
	s.ApplyDefaults()
	return s
}

// Load reads settings from a YAML file. An empty path yields the defaults.
// The result has defaults applied and is validated.
func Load(path string) (*Settings, error) {
	settings := &Settings{}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// ApplyDefaults applies default values to unset fields
func (s *Settings) ApplyDefaults() {
	if s.Server.Port == 0 {
		s.Server.Port = DefaultPort
	}
	if s.Server.MaxRequestBytes == 0 {
		s.Server.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if s.Server.CORSOrigins == nil {
		s.Server.CORSOrigins = []string{}
	}

	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}
	s.Logging.Level = strings.ToLower(s.Logging.Level)
	if s.Logging.Format == "" {
		s.Logging.Format = "text"
	}

	if s.Checker.EnabledRules == nil {
		s.Checker.EnabledRules = []string{}
	}
	if s.Checker.FilterSuggestions == nil {
		filter := true
		s.Checker.FilterSuggestions = &filter
	}
	if s.Checker.MaxSentenceTokens == 0 {
		s.Checker.MaxSentenceTokens = DefaultMaxSentenceTokens
	}
	if s.Checker.Parallelism == 0 {
		s.Checker.Parallelism = DefaultParallelism
	}

	if s.Jobs.MaxTexts == 0 {
		s.Jobs.MaxTexts = DefaultMaxTexts
	}
	if s.Jobs.MaxWorkers == 0 {
		s.Jobs.MaxWorkers = DefaultMaxWorkers
	}
}

// ValidationErrors lists every problem found in the settings
func (s *Settings) ValidationErrors() []string {
	var problems []string

	if s.Server.Port < 0 || s.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d is out of range", s.Server.Port))
	}
	if s.Server.MaxRequestBytes < 0 {
		problems = append(problems, "server.max_request_bytes cannot be negative")
	}
	if !logLevels[s.Logging.Level] {
		problems = append(problems, fmt.Sprintf("logging.level '%s' must be one of debug, info, warn, error", s.Logging.Level))
	}
	if !logFormats[s.Logging.Format] {
		problems = append(problems, fmt.Sprintf("logging.format '%s' must be text or json", s.Logging.Format))
	}

	seen := make(map[string]bool)
	for _, id := range s.Checker.EnabledRules {
		if strings.TrimSpace(id) == "" {
			problems = append(problems, "checker.enabled_rules cannot contain empty rule IDs")
			continue
		}
		if seen[id] {
			problems = append(problems, "Duplicate rule '"+id+"' found in checker.enabled_rules")
		}
		seen[id] = true
	}
	if s.Checker.MaxSentenceTokens < 0 {
		problems = append(problems, "checker.max_sentence_tokens cannot be negative")
	}
	if s.Checker.Parallelism < 0 {
		problems = append(problems, "checker.parallelism cannot be negative")
	}
	if s.Jobs.MaxTexts < 0 {
		problems = append(problems, "jobs.max_texts cannot be negative")
	}
	if s.Jobs.MaxWorkers < 0 {
		problems = append(problems, "jobs.max_workers cannot be negative")
	}

	return problems
}

// Validate returns an error matching errors.ErrInvalidInput when the settings
// are unusable. Rule IDs are checked against the registry when the engine
// starts.
func (s *Settings) Validate() error {
	problems := s.ValidationErrors()
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid settings: %w", internalErrors.NewValidationError("", strings.Join(problems, "; ")))
}

// FilterSuggestionsEnabled reports the effective filter_suggestions value
func (c CheckerSettings) FilterSuggestionsEnabled() bool {
	return c.FilterSuggestions == nil || *c.FilterSuggestions
}
