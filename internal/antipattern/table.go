// Package antipattern suppresses rule matches inside known-safe token sequences
// such as idioms, proper names and fixed phrases.
package antipattern

import (
	"embed"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/model"
)

// Names of the built-in tables
const (
	TableAgreement     = "agreement"
	TableAdjectiveNoun = "adjective_noun"
	TableSubjectVerb   = "subject_verb"
	TableVerbAgreement = "verb_agreement"
)

//go:embed data/*.yaml
var tableFS embed.FS

var immunizedTokens = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "grammar_checker_immunized_tokens_total",
	Help: "Tokens excluded from rule matching by anti-patterns",
}, []string{"table"})

// Table is an immutable, ordered list of compiled anti-patterns
type Table struct {
	name     string
	patterns []*Pattern
}

type tableFile struct {
	Patterns [][]Element `yaml:"patterns"`
}

// Load parses and compiles a table from YAML. Any entry that fails to compile
// makes the whole table unusable.
func Load(name string, r io.Reader) (*Table, error) {
	var tf tableFile
	if err := yaml.NewDecoder(r).Decode(&tf); err != nil {
		return nil, errors.NewResourceError("antipattern table "+name, err)
	}
	t := &Table{name: name, patterns: make([]*Pattern, 0, len(tf.Patterns))}
	for i, elements := range tf.Patterns {
		if len(elements) == 0 {
			return nil, errors.NewPatternError(name, i, fmt.Errorf("empty pattern"))
		}
		p, err := CompilePattern(elements...)
		if err != nil {
			return nil, errors.NewPatternError(name, i, err)
		}
		t.patterns = append(t.patterns, p)
	}
	return t, nil
}

// NewTable builds a table from patterns compiled in code.
func NewTable(name string, patterns ...*Pattern) *Table {
	return &Table{name: name, patterns: append([]*Pattern(nil), patterns...)}
}

type builtinTable struct {
	once  sync.Once
	table *Table
	err   error
}

var builtins = map[string]*builtinTable{
	TableAgreement:     {},
	TableAdjectiveNoun: {},
	TableSubjectVerb:   {},
	TableVerbAgreement: {},
}

// Builtin returns one of the embedded tables, compiling it on first use.
func Builtin(name string) (*Table, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, errors.NewResourceError("antipattern table "+name, fmt.Errorf("unknown table"))
	}
	b.once.Do(func() {
		f, err := tableFS.Open("data/" + name + ".yaml")
		if err != nil {
			b.err = errors.NewResourceError("antipattern table "+name, err)
			return
		}
		defer f.Close()
		b.table, b.err = Load(name, f)
		if b.err == nil {
			slog.Info("Anti-pattern table loaded",
				slog.String("table", name),
				slog.Int("patterns", b.table.Len()))
		}
	})
	return b.table, b.err
}

// Name returns the table name
func (t *Table) Name() string { return t.name }

// Len returns the number of patterns
func (t *Table) Len() int { return len(t.patterns) }

// MatchesAny reports whether any pattern matches anywhere in tokens.
func (t *Table) MatchesAny(tokens []model.Token) bool {
	for start := range tokens {
		for _, p := range t.patterns {
			if _, _, ok := p.MatchAt(tokens, start); ok {
				return true
			}
		}
	}
	return false
}

// Immunize marks every token covered by a match of any pattern of the tables.
// The result has one entry per token and is owned by the caller.
func Immunize(tokens []model.Token, tables ...*Table) []bool {
	immune := make([]bool, len(tokens))
	for _, t := range tables {
		if t == nil {
			continue
		}
		marked := 0
		for start := range tokens {
			for _, p := range t.patterns {
				begin, end, ok := p.MatchAt(tokens, start)
				if !ok {
					continue
				}
				for i := begin; i < end; i++ {
					if !immune[i] {
						immune[i] = true
						marked++
					}
				}
			}
		}
		if marked > 0 {
			immunizedTokens.WithLabelValues(t.name).Add(float64(marked))
		}
	}
	return immune
}
