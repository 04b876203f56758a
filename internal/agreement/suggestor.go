package agreement

import (
	"errors"
	"sort"
	"strings"

	internalErrors "github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/morph"
	"github.com/gcbaptista/go-grammar-checker/internal/typoutil"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

// replacementType marks phrases whose determiner was fused with a preposition.
type replacementType int

const (
	replaceNone replacementType = iota
	// replaceIns stands for "ins", "ans", "aufs", ... analyzed as "das"
	replaceIns
	// replaceZur stands for "zur" analyzed as "der"
	replaceZur
)

const (
	detTemplate    = "ART:IND/DEF:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU"
	proPosTemplate = "PRO:POS:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU:BEG"
	adjTemplate    = "ADJ:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU:GRU:IND/DEF"
	pa1Template    = "PA1:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU:GRU:IND/DEF:VER"
	pa2Template    = "PA2:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU:GRU:IND/DEF:VER"
)

var (
	proDemTemplates = []string{
		"PRO:DEM:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU:BEG",
		"PRO:DEM:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU:B/S",
	}
	proIndTemplates = []string{
		"PRO:IND:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU:BEG",
		"PRO:IND:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU:B/S",
	}
	// INF covers nominalized infinitives like "das Züchten"
	nounTemplates = []string{
		"SUB:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU",
		"SUB:NOM/AKK/DAT/GEN:SIN/PLU:MAS/FEM/NEU:INF",
	}
)

// suggestor synthesizes corrected forms of a determiner[, adjective[, adjective]], noun phrase.
type suggestor struct {
	synthesizer services.Synthesizer
	determiner  model.Token
	adjective1  *model.Token
	adjective2  *model.Token
	noun        model.Token
	// skipped is a modifier between determiner and adjective, like "sehr"
	skipped     string
	replacement replacementType
	// preposition is the word before the phrase, if any
	preposition string
}

type suggestion struct {
	phrase         string
	tokenEdits     int
	characterEdits int
}

// suggestions returns corrected phrases, fewest changed words first. With
// filter, only the tier of the first real suggestion is returned.
func (s *suggestor) suggestions(filter bool) ([]string, error) {
	switch s.replacement {
	case replaceZur:
		s.preposition = "zu"
	case replaceIns:
		s.preposition = "in"
	}

	all, err := s.generate()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].tokenEdits != all[j].tokenEdits {
			return all[i].tokenEdits < all[j].tokenEdits
		}
		return all[i].characterEdits < all[j].characterEdits
	})
	all = s.contract(all)

	phrases := make([]string, 0, len(all))
	prevEdits := 0
	if len(all) > 0 {
		prevEdits = all[0].tokenEdits
	}
	hadReal := false
	for _, sg := range all {
		if filter && hadReal && sg.tokenEdits > prevEdits {
			break
		}
		hadReal = sg.tokenEdits > 0
		phrases = append(phrases, sg.phrase)
	}
	return phrases, nil
}

// contract turns "der"/"das" phrases back into the fused preposition forms.
func (s *suggestor) contract(all []suggestion) []suggestion {
	switch s.replacement {
	case replaceZur:
		for i := range all {
			all[i].phrase = replacePrefix(all[i].phrase, map[string]string{
				"der": "zur",
				"den": "zu", // usually sounds more natural than "zu den"
				"dem": "zum",
			})
		}
	case replaceIns:
		kept := all[:0]
		for _, sg := range all {
			contracted := replacePrefix(sg.phrase, map[string]string{
				"das": "ins",
				"dem": "im",
				"den": "in den",
				"die": "in die",
			})
			if contracted != sg.phrase {
				sg.phrase = contracted
				kept = append(kept, sg)
			}
		}
		all = kept
	}
	return all
}

func replacePrefix(phrase string, replacements map[string]string) string {
	for _, prefix := range []string{"der", "den", "dem", "das", "die"} {
		if repl, ok := replacements[prefix]; ok && strings.HasPrefix(phrase, prefix) {
			return repl + phrase[len(prefix):]
		}
	}
	return phrase
}

func (s *suggestor) generate() ([]suggestion, error) {
	cases := s.nounCases()
	original := s.originalPhrase()
	var result []suggestion
	seen := make(map[suggestion]bool)

	for _, num := range morph.Numbers {
		for _, gen := range morph.Genders {
			for _, c := range cases {
				for _, detReading := range s.determiner.Readings {
					dets, err := s.determinerForms(num, gen, c, detReading)
					if err != nil {
						return nil, err
					}
					adj1, err := s.adjectiveForms(num, gen, c, s.adjective1, detReading)
					if err != nil {
						return nil, err
					}
					adj2, err := s.adjectiveForms(num, gen, c, s.adjective2, detReading)
					if err != nil {
						return nil, err
					}
					nouns, err := s.nounForms(num, gen, c)
					if err != nil {
						return nil, err
					}
					result = s.combine(result, seen, original, dets, adj1, adj2, nouns)
				}
			}
		}
	}
	return result, nil
}

func (s *suggestor) nounCases() []morph.Case {
	if s.preposition == "" {
		return morph.Cases
	}
	governed, ok := prepositionCases[typoutil.Lower(s.preposition)]
	if !ok {
		return morph.Cases
	}
	var result []morph.Case
	for _, c := range morph.Cases {
		for _, g := range governed {
			if c == g {
				result = append(result, c)
			}
		}
	}
	return result
}

func (s *suggestor) determinerForms(num morph.Number, gen morph.Gender, c morph.Case, reading model.Reading) ([]string, error) {
	if reading.POSTag == "" {
		return nil, nil
	}
	isDef := strings.Contains(reading.POSTag, ":DEF:")
	var templates []string
	switch {
	case strings.Contains(reading.POSTag, "ART:"):
		templates = []string{detTemplate}
	case strings.Contains(reading.POSTag, "PRO:POS:"):
		templates = []string{proPosTemplate}
	case strings.Contains(reading.POSTag, "PRO:DEM:"):
		templates = proDemTemplates
	case strings.Contains(reading.POSTag, "PRO:IND:"):
		templates = proIndTemplates
	default:
		return nil, nil
	}

	// don't suggest "dein" for "mein"
	origFirst, _ := firstRune(s.determiner.Text)
	var result []string
	for _, template := range templates {
		if isDef {
			template = strings.Replace(template, "IND/DEF", "DEF", 1)
		} else {
			template = strings.Replace(template, "IND/DEF", "IND", 1)
		}
		forms, err := s.synthesize(reading, replaceVars(template, num, gen, c))
		if err != nil {
			return nil, err
		}
		for _, f := range forms {
			if !typoutil.HasPrefixFold(f, origFirst) {
				continue
			}
			if typoutil.StartsWithUppercase(origFirst) {
				f = typoutil.UppercaseFirst(f)
			}
			result = append(result, f)
		}
	}
	return result, nil
}

func (s *suggestor) adjectiveForms(num morph.Number, gen morph.Gender, c morph.Case, adj *model.Token, detReading model.Reading) ([]string, error) {
	if adj == nil {
		// phrase without an adjective
		return []string{""}, nil
	}
	var result []string
	for _, reading := range adj.Readings {
		if reading.POSTag == "" || detReading.POSTag == "" {
			continue
		}
		if adj.Text == "meisten" && num == morph.Singular {
			continue
		}
		if strings.HasPrefix(reading.POSTag, "ADV:") {
			// nothing to inflect
			result = appendUnique(result, adj.Text)
			continue
		}
		detIsDef := strings.Contains(detReading.POSTag, ":DEF:")
		var template string
		switch {
		case strings.HasPrefix(reading.POSTag, "PA1"):
			template = pa1Template
		case strings.HasPrefix(reading.POSTag, "PA2"):
			template = pa2Template
		default:
			template = adjTemplate
		}
		switch morph.ParseTag(reading.POSTag).Degree() {
		case morph.Comparative:
			template = strings.Replace(template, ":GRU:", ":KOM:", 1)
		case morph.Superlative:
			template = strings.Replace(template, ":GRU:", ":SUP:", 1)
		}
		if detIsDef {
			template = strings.Replace(template, "IND/DEF", "DEF", 1)
		} else {
			template = strings.Replace(template, "IND/DEF", "IND", 1)
		}
		forms, err := s.synthesize(reading, replaceVars(template, num, gen, c))
		if err != nil {
			return nil, err
		}
		for _, f := range forms {
			result = appendUnique(result, f)
		}
	}
	return result, nil
}

func (s *suggestor) nounForms(num morph.Number, gen morph.Gender, c morph.Case) ([]string, error) {
	var result []string
	for _, reading := range s.noun.Readings {
		if reading.POSTag == "" {
			continue
		}
		for _, template := range nounTemplates {
			tag := replaceVars(template, num, gen, c)
			forms, err := s.synthesize(reading, tag)
			if err != nil {
				return nil, err
			}
			if len(forms) == 0 && strings.Contains(s.noun.Text, "-") {
				// unknown compound: inflect the last part only
				prefix := s.noun.Text[:strings.LastIndex(s.noun.Text, "-")+1]
				lastLemma := reading.Lemma[strings.LastIndex(reading.Lemma, "-")+1:]
				forms, err = s.synthesize(model.Reading{Lemma: lastLemma}, tag)
				if err != nil {
					return nil, err
				}
				for _, f := range forms {
					result = append(result, prefix+f)
				}
				continue
			}
			result = append(result, forms...)
		}
	}

	// "Blutfluß" next to "Blutfluss" is the old spelling
	oldSpelling := make(map[string]bool)
	for _, f := range result {
		if strings.Contains(f, "ss") {
			oldSpelling[strings.ReplaceAll(f, "ss", "ß")] = true
		}
	}
	filtered := result[:0]
	for _, f := range result {
		if !oldSpelling[f] {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

func (s *suggestor) combine(result []suggestion, seen map[suggestion]bool, original string, dets, adj1, adj2, nouns []string) []suggestion {
	for _, det := range dets {
		for _, a1 := range adj1 {
			for _, a2 := range adj2 {
				for _, noun := range nouns {
					parts := []string{det}
					if s.skipped != "" {
						parts = append(parts, s.skipped)
					}
					if a1 != "" {
						parts = append(parts, a1)
					}
					if a2 != "" {
						parts = append(parts, a2)
					}
					parts = append(parts, noun)
					phrase := strings.Join(parts, " ")

					edits := 0
					if det != s.determiner.Text {
						edits++
					}
					if s.adjective1 != nil && a1 != s.adjective1.Text {
						edits++
					}
					if s.adjective2 != nil && a2 != s.adjective2.Text {
						edits++
					}
					if noun != s.noun.Text {
						edits++
					}
					if edits == 0 {
						continue
					}
					key := suggestion{phrase: phrase, tokenEdits: edits}
					if seen[key] {
						continue
					}
					seen[key] = true
					result = append(result, suggestion{
						phrase:         phrase,
						tokenEdits:     edits,
						characterEdits: typoutil.LevenshteinDistance(phrase, original),
					})
				}
			}
		}
	}
	return result
}

func (s *suggestor) originalPhrase() string {
	parts := []string{s.determiner.Text}
	if s.adjective1 != nil {
		parts = append(parts, s.adjective1.Text)
	}
	if s.adjective2 != nil {
		parts = append(parts, s.adjective2.Text)
	}
	return strings.Join(append(parts, s.noun.Text), " ")
}

// synthesize treats unknown lemmas as having no forms.
func (s *suggestor) synthesize(reading model.Reading, tag string) ([]string, error) {
	forms, err := s.synthesizer.Synthesize(reading, tag)
	if errors.Is(err, internalErrors.ErrWordNotFound) {
		return nil, nil
	}
	return forms, err
}

func replaceVars(template string, num morph.Number, gen morph.Gender, c morph.Case) string {
	template = strings.Replace(template, "SIN/PLU", string(num), 1)
	template = strings.Replace(template, "MAS/FEM/NEU", string(gen), 1)
	return strings.Replace(template, "NOM/AKK/DAT/GEN", string(c), 1)
}

func firstRune(s string) (string, bool) {
	for _, r := range s {
		return string(r), true
	}
	return "", false
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
