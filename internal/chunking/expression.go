package chunking

import (
	"regexp"
	"strings"
)

// chunkToken is the chunker's working view of a token. tags holds the POS tags
// left after number/gender/case unification inside the noun phrase.
type chunkToken struct {
	text   string
	tags   []string
	chunks []string
}

func (t *chunkToken) hasChunk(tag string) bool {
	for _, c := range t.chunks {
		if c == tag {
			return true
		}
	}
	return false
}

func (t *chunkToken) addChunk(tag string) {
	if !t.hasChunk(tag) {
		t.chunks = append(t.chunks, tag)
	}
}

func (t *chunkToken) removeChunks(tags ...string) {
	kept := t.chunks[:0]
	for _, c := range t.chunks {
		drop := false
		for _, tag := range tags {
			if c == tag {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, c)
		}
	}
	t.chunks = kept
}

type predicate func(t *chunkToken) bool

func chunk(tag string) predicate {
	return func(t *chunkToken) bool { return t.hasChunk(tag) }
}

// word matches the token text case-insensitively against any of the words
func word(words ...string) predicate {
	return func(t *chunkToken) bool {
		for _, w := range words {
			if strings.EqualFold(t.text, w) {
				return true
			}
		}
		return false
	}
}

func re(pattern string) predicate {
	compiled := regexp.MustCompile("(?i)^(?:" + pattern + ")$")
	return func(t *chunkToken) bool { return compiled.MatchString(t.text) }
}

// pos matches when any tag contains part
func pos(part string) predicate {
	return func(t *chunkToken) bool {
		for _, tag := range t.tags {
			if strings.Contains(tag, part) {
				return true
			}
		}
		return false
	}
}

func and(preds ...predicate) predicate {
	return func(t *chunkToken) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

func or(preds ...predicate) predicate {
	return func(t *chunkToken) bool {
		for _, p := range preds {
			if p(t) {
				return true
			}
		}
		return false
	}
}

func not(p predicate) predicate {
	return func(t *chunkToken) bool { return !p(t) }
}

// step matches between min and max consecutive tokens; max < 0 means unbounded.
type step struct {
	match    predicate
	min, max int
}

func one(p predicate) step  { return step{match: p, min: 1, max: 1} }
func opt(p predicate) step  { return step{match: p, min: 0, max: 1} }
func star(p predicate) step { return step{match: p, min: 0, max: -1} }
func plus(p predicate) step { return step{match: p, min: 1, max: -1} }

// np is a complete noun phrase chunk: B-NP followed by any I-NP tokens.
func np() []step {
	return []step{one(chunk(BeginNP)), star(chunk(InsideNP))}
}

// expression is a sequence of steps matched greedily with backtracking
type expression []step

func seq(parts ...interface{}) expression {
	var e expression
	for _, p := range parts {
		switch v := p.(type) {
		case step:
			e = append(e, v)
		case []step:
			e = append(e, v...)
		case predicate:
			e = append(e, one(v))
		default:
			panic("chunking: unsupported expression part")
		}
	}
	return e
}

// matchAt returns the exclusive end of the longest match of e[si:] starting at token at, or -1.
func (e expression) matchAt(tokens []*chunkToken, si, at int) int {
	if si == len(e) {
		return at
	}
	s := e[si]
	n := 0
	for at+n < len(tokens) && (s.max < 0 || n < s.max) && s.match(tokens[at+n]) {
		n++
	}
	for c := n; c >= s.min; c-- {
		if end := e.matchAt(tokens, si+1, at+c); end >= 0 {
			return end
		}
	}
	return -1
}

// findAll returns the non-overlapping matches from left to right as [start, end) pairs.
func (e expression) findAll(tokens []*chunkToken) [][2]int {
	var spans [][2]int
	for start := 0; start < len(tokens); {
		if end := e.matchAt(tokens, 0, start); end > start {
			spans = append(spans, [2]int{start, end})
			start = end
			continue
		}
		start++
	}
	return spans
}
