// Package chunking finds noun phrases in tagged sentences and classifies them
// as singular (NPS), plural (NPP) or prepositional (PP) phrases.
package chunking

import (
	"strings"

	"github.com/gcbaptista/go-grammar-checker/internal/morph"
	"github.com/gcbaptista/go-grammar-checker/internal/typoutil"
	"github.com/gcbaptista/go-grammar-checker/model"
)

// Chunker is a rule-based noun phrase chunker. It holds no state and is safe
// for concurrent use.
type Chunker struct{}

// New creates a chunker
func New() *Chunker {
	return &Chunker{}
}

// Chunk replaces the ChunkTags of the tokens in place.
func (c *Chunker) Chunk(tokens []model.Token) {
	work := make([]*chunkToken, len(tokens))
	for i, t := range tokens {
		tags := make([]string, 0, len(t.Readings))
		for _, r := range t.Readings {
			if r.POSTag != "" {
				tags = append(tags, r.POSTag)
			}
		}
		work[i] = &chunkToken{text: t.Text, tags: tags}
	}

	spans := findNounPhrases(tokens)
	numbers := make([]map[morph.Number]bool, len(spans))
	for i, span := range spans {
		work[span[0]].addChunk(BeginNP)
		for j := span[0] + 1; j < span[1]; j++ {
			work[j].addChunk(InsideNP)
		}
		numbers[i] = unify(tokens, work, span)
	}

	for _, rule := range coordinationRules {
		rule.apply(work)
	}
	for i, span := range spans {
		assignNumber(work, span, numbers[i])
	}
	for _, rule := range phraseRules {
		rule.apply(work)
	}

	for i := range tokens {
		tokens[i].ChunkTags = append([]string(nil), work[i].chunks...)
	}
}

// findNounPhrases returns [start, end) spans of determiner/attribute runs that
// end in a noun or name, and of personal pronouns.
func findNounPhrases(tokens []model.Token) [][2]int {
	var spans [][2]int
	for i := 0; i < len(tokens); {
		if isAttribute(tokens[i]) || isNoun(tokens[i]) {
			j := i
			for j < len(tokens) && !isNoun(tokens[j]) && (isAttribute(tokens[j]) || isGradingAdverb(tokens, j)) {
				j++
			}
			if j < len(tokens) && isNoun(tokens[j]) {
				k := j + 1
				for k < len(tokens) && isNameContinuation(tokens[k]) {
					k++
				}
				spans = append(spans, [2]int{i, k})
				i = k
				continue
			}
		}
		if tokens[i].HasPosTagStartingWith("PRO:PER") {
			spans = append(spans, [2]int{i, i + 1})
		}
		i++
	}
	return spans
}

func isNoun(t model.Token) bool {
	return t.HasPosTagStartingWith("SUB") || t.HasPosTagStartingWith("EIG")
}

func isAttribute(t model.Token) bool {
	for _, r := range t.Readings {
		if r.POSTag == "" {
			continue
		}
		tag := morph.ParseTag(r.POSTag)
		switch tag.Category() {
		case "ART", "ZAL":
			return true
		case "PRO":
			if strings.HasSuffix(r.POSTag, ":BEG") || strings.HasSuffix(r.POSTag, ":B/S") {
				return true
			}
		case "ADJ", "PA1", "PA2":
			if tag.Case() != "" {
				return true
			}
		}
	}
	return false
}

// isGradingAdverb accepts "sehr" in "ein sehr kleines Haus".
func isGradingAdverb(tokens []model.Token, i int) bool {
	return tokens[i].HasPosTagStartingWith("ADV") && i+1 < len(tokens) && isAttribute(tokens[i+1])
}

// isNameContinuation accepts "Müller" in "Herr Müller" and "AG" in "Otto Christ AG".
func isNameContinuation(t model.Token) bool {
	if !typoutil.StartsWithUppercase(t.Text) {
		return false
	}
	return t.HasPosTagStartingWith("EIG") || t.HasPartialPosTag(":ABK")
}

func hasInflection(t model.Token) bool {
	for _, r := range t.Readings {
		if r.POSTag == "" {
			continue
		}
		tag := morph.ParseTag(r.POSTag)
		switch tag.Category() {
		case "ART", "PRO", "ADJ", "PA1", "PA2", "SUB", "EIG":
			if tag.Case() != "" {
				return true
			}
		}
	}
	return false
}

// unify narrows the working tags of the phrase to the readings that agree with
// each other and returns the numbers the phrase can have.
func unify(tokens []model.Token, work []*chunkToken, span [2]int) map[morph.Number]bool {
	var members []int
	for i := span[0]; i < span[1]; i++ {
		if hasInflection(tokens[i]) {
			members = append(members, i)
		}
	}
	if len(members) == 0 {
		return nil
	}
	skipSolitary := tokens[members[0]].HasPosTagStartingWith("ART") || tokens[members[0]].HasPosTagStartingWith("PRO")

	memberTokens := make([]model.Token, len(members))
	for i, m := range members {
		memberTokens[i] = tokens[m]
	}
	common := morph.Common(nil, skipSolitary, memberTokens...)
	if common.IsEmpty() {
		numbers := make(map[morph.Number]bool)
		for _, m := range members {
			for _, tag := range work[m].tags {
				if n := morph.ParseTag(tag).Number(); n != "" {
					numbers[n] = true
				}
			}
		}
		return numbers
	}

	for _, m := range members {
		var kept []string
		for _, r := range tokens[m].Readings {
			if r.POSTag == "" {
				continue
			}
			single := tokens[m].WithReadings(r)
			if !morph.Categories(single, nil, skipSolitary).Intersect(common).IsEmpty() {
				kept = append(kept, r.POSTag)
			}
		}
		work[m].tags = kept
	}

	numbers := make(map[morph.Number]bool)
	for _, key := range common.Keys() {
		parts := strings.Split(key, "/")
		if len(parts) > 1 && parts[1] != "" {
			numbers[morph.Number(parts[1])] = true
		}
	}
	return numbers
}

func assignNumber(work []*chunkToken, span [2]int, numbers map[morph.Number]bool) {
	if len(numbers) != 1 {
		return
	}
	first := work[span[0]]
	var phrase string
	switch {
	case numbers[morph.Singular]:
		if first.hasChunk(PhrasePlural) || pos("ZAL")(first) || word("einige")(first) || quantityUnits(first) {
			return
		}
		phrase = PhraseSingular
	case numbers[morph.Plural]:
		if first.hasChunk(PhraseSingular) || word("Ellen")(first) {
			return
		}
		phrase = PhrasePlural
	}
	for i := span[0]; i < span[1]; i++ {
		work[i].addChunk(phrase)
	}
}
