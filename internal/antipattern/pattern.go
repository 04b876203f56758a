package antipattern

import (
	"github.com/gcbaptista/go-grammar-checker/model"
)

// Pattern is a compiled token sequence template
type Pattern struct {
	elements []*matcher
}

// CompilePattern compiles a sequence of elements. It is used by the table loader
// and by rules that build patterns in code.
func CompilePattern(elements ...Element) (*Pattern, error) {
	p := &Pattern{elements: make([]*matcher, 0, len(elements))}
	for _, el := range elements {
		m, err := compileElement(el)
		if err != nil {
			return nil, err
		}
		p.elements = append(p.elements, m)
	}
	return p, nil
}

// MatchAt tries to match the pattern with its first consumed token at position
// start. It returns the matched span [begin, end) or ok=false.
func (p *Pattern) MatchAt(tokens []model.Token, start int) (begin, end int, ok bool) {
	begin, end = p.matchFrom(tokens, 0, start, 0)
	if end < 0 || begin != start {
		return 0, 0, false
	}
	return begin, end, true
}

// matchFrom matches elements[ei:] with the first of them starting somewhere in
// [from, from+slack]; slack < 0 means no limit. It returns the first consumed
// token (or -1 when every remaining element was optional and skipped) and the
// exclusive end of the match, or end = -1 on failure.
func (p *Pattern) matchFrom(tokens []model.Token, ei, from, slack int) (int, int) {
	if ei == len(p.elements) {
		return -1, from
	}
	el := p.elements[ei]
	last := len(tokens) - 1
	if slack >= 0 && from+slack < last {
		last = from + slack
	}
	for start := from; start <= last; start++ {
		if b, e := p.repeat(tokens, ei, start, 0); e >= 0 {
			return b, e
		}
	}
	if el.min == 0 {
		return p.matchFrom(tokens, ei+1, from, slack)
	}
	return -1, -1
}

// repeat extends element ei, which already consumed count tokens ending before
// pos. Longer repetitions are tried first.
func (p *Pattern) repeat(tokens []model.Token, ei, pos, count int) (int, int) {
	el := p.elements[ei]
	if count < el.max && pos < len(tokens) && el.matches(tokens[pos]) {
		if b, e := p.repeat(tokens, ei, pos+1, count+1); e >= 0 {
			return b, e
		}
	}
	if count == 0 || count < el.min {
		return -1, -1
	}
	if _, e := p.matchFrom(tokens, ei+1, pos, el.skip); e >= 0 {
		return pos - count, e
	}
	return -1, -1
}
