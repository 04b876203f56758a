package agreement

import (
	"github.com/gcbaptista/go-grammar-checker/internal/morph"
)

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// modifiers may stand between determiner and adjective: "ein sehr hohes Haus"
var modifiers = set("besonders", "fast", "ganz", "geradezu", "sehr", "überaus", "ziemlich")

// After these words the adjective may use the strong declension: "viele kleine Häuser".
var vieleWenige = set(
	"jegliche", "jeglicher", "andere", "anderer", "anderen", "sämtlicher",
	"etliche", "etlicher", "viele", "vieler", "wenige", "weniger",
	"einige", "einiger", "mehrerer", "mehrere",
)

var relativePronounLemmas = []string{"der", "welch"}

var pronounsToBeIgnored = set(
	"ich", "dir", "dich", "du", "d", "er", "sie", "es", "wir", "mir", "uns",
	"ihnen", "euch", "ihm", "ihr", "ihn", "dessen", "deren", "denen", "sich",
	"aller",
	"allen", // "das allen bekannte Wollnashorn"
	"man", "beide", "beiden", "beider", "wessen", "a", "alle", "etwas",
	"irgendetwas", "irgendwas", "was", "wer",
	"jenen", // "...und mit jenen anderer Arbeitsgruppen verwoben"
	"diejenigen", "jemand", "jemandes", "niemand", "niemandes",
)

var nounsToBeIgnored = set(
	"Prozent", // "mehrere Prozent"
	"Wollen",
	"Gramm",
	"Kilogramm",
	"Piepen",
	"Badlands",
	"Visual",
	"Chief",
	"Carina",
	"Wüstenrot",
	"Meter",
	"Boots",
	"Taxameter",
	"Bild", // die Bild (Zeitung)
	"Emirates",
	"Uhr", // "um ein Uhr"
	"cm",
	"km",
	"Nr",
	"RP",
)

// fused preposition+article forms that behave like "in das"
var insForms = set("ins", "ans", "aufs", "vors", "durchs", "hinters", "unters", "übers", "fürs", "ums")

// prepositionCases lists the cases a preposition governs. Suggestions after a
// known preposition are restricted to these cases.
var prepositionCases = map[string][]morph.Case{
	"ab":           {morph.Dative, morph.Accusative},
	"an":           {morph.Accusative, morph.Dative},
	"anstatt":      {morph.Genitive},
	"auf":          {morph.Accusative, morph.Dative},
	"aufgrund":     {morph.Genitive},
	"aus":          {morph.Dative},
	"außer":        {morph.Dative},
	"außerhalb":    {morph.Genitive},
	"bei":          {morph.Dative},
	"binnen":       {morph.Dative, morph.Genitive},
	"dank":         {morph.Dative, morph.Genitive},
	"durch":        {morph.Accusative},
	"entgegen":     {morph.Dative},
	"entlang":      {morph.Accusative, morph.Dative},
	"für":          {morph.Accusative},
	"gegen":        {morph.Accusative},
	"gegenüber":    {morph.Dative},
	"gemäß":        {morph.Dative},
	"hinsichtlich": {morph.Genitive},
	"hinter":       {morph.Accusative, morph.Dative},
	"in":           {morph.Accusative, morph.Dative},
	"infolge":      {morph.Genitive},
	"innerhalb":    {morph.Genitive},
	"laut":         {morph.Dative, morph.Genitive},
	"mit":          {morph.Dative},
	"mithilfe":     {morph.Genitive},
	"nach":         {morph.Dative},
	"neben":        {morph.Accusative, morph.Dative},
	"oberhalb":     {morph.Genitive},
	"ohne":         {morph.Accusative},
	"samt":         {morph.Dative},
	"seit":         {morph.Dative},
	"statt":        {morph.Genitive},
	"trotz":        {morph.Genitive, morph.Dative},
	"um":           {morph.Accusative},
	"unter":        {morph.Accusative, morph.Dative},
	"unterhalb":    {morph.Genitive},
	"von":          {morph.Dative},
	"vor":          {morph.Accusative, morph.Dative},
	"wegen":        {morph.Genitive, morph.Dative},
	"während":      {morph.Genitive},
	"zu":           {morph.Dative},
	"zufolge":      {morph.Dative, morph.Genitive},
	"zwischen":     {morph.Accusative, morph.Dative},
	"über":         {morph.Accusative, morph.Dative},
}
