package chunking

// Chunk tags produced by the chunker
const (
	// BeginNP starts a noun phrase chunk
	BeginNP = "B-NP"
	// InsideNP continues a noun phrase chunk
	InsideNP = "I-NP"

	// PhraseSingular marks a singular noun phrase
	PhraseSingular = "NPS"
	// PhrasePlural marks a plural noun phrase, including coordinations
	PhrasePlural = "NPP"
	// PhrasePrepositional marks a prepositional phrase and similar non-subject phrases
	PhrasePrepositional = "PP"
)

type filterRule struct {
	expr      expression
	phrase    string
	overwrite bool
}

var personalPronouns = word("ich", "du", "er", "sie", "es", "wir", "ihr")

var timeUnits = word("Sekunden", "Minuten", "Stunden", "Tage", "Wochen", "Monate", "Jahre", "Jahrzehnte", "Jahrhunderte")

// quantityUnits may be singular or plural after a number, e.g. "5 Prozent ist/sind".
var quantityUnits = word("Prozent", "Kilo", "Kilogramm", "Gramm", "Euro", "Pfund")

// coordinationRules run before singular/plural phrases are assigned.
var coordinationRules = []filterRule{
	// "ein Hund und eine Katze"
	{seq(and(chunk(BeginNP), not(re("jede[rs]?"))), star(chunk(InsideNP)), word("und", "sowie"), np()), PhrasePlural, false},
	// "größte und erfolgreichste Erfindung"
	{seq(pos("ADJ"), word("und", "sowie"), and(chunk(BeginNP), not(pos("PLU"))), star(chunk(InsideNP))), PhraseSingular, true},
	// "deren Bestimmung und Funktion"
	{seq(word("deren"), and(chunk(BeginNP), not(pos("PLU"))), word("und", "sowie"), star(chunk(BeginNP))), PhraseSingular, true},
	// "Julia und Karsten ist alt."
	{seq(pos("EIG"), word("und"), pos("EIG")), PhrasePlural, false},
	// "die älteste und bekannteste Maßnahme"
	{seq(pos("ART"), pos("ADJ"), word("und", "sowie"), or(pos("ADJ"), pos("PA2")), plus(and(chunk(InsideNP), not(pos("PLU"))))), PhraseSingular, true},
	// "eine Masseeinheit und keine Gewichtseinheit"
	{seq(and(chunk(BeginNP), not(pos("PLU"))), star(chunk(InsideNP)), word("und", "sowie"), word("keine"), plus(chunk(InsideNP))), PhraseSingular, true},
	// "eins ihrer drei Autos"
	{seq(word("eins", "eines"), chunk(BeginNP), plus(chunk(InsideNP))), PhraseSingular, false},
	// "er und seine Schwester"
	{seq(personalPronouns, word("und", "oder", "sowie"), np()), PhrasePlural, false},
	// "sowohl sein Vater als auch seine Mutter"
	{seq(word("sowohl"), np(), word("als"), word("auch"), np()), PhrasePlural, false},
	// "sowohl Tom als auch Maria"
	{seq(word("sowohl"), pos("EIG"), word("als"), word("auch"), pos("EIG")), PhrasePlural, false},
	// "sowohl er als auch seine Schwester"
	{seq(word("sowohl"), personalPronouns, word("als"), word("auch"), np()), PhrasePlural, false},
	// "Rekonstruktionen oder der Wiederaufbau", but not "Isolation und ihre Überwindung"
	{seq(pos("SUB"), word("und", "oder", "sowie"), and(chunk(BeginNP), not(word("ihre"))), star(chunk(InsideNP))), PhrasePlural, false},
	// "Weder Gerechtigkeit noch Freiheit"
	{seq(word("weder"), pos("SUB"), word("noch"), pos("SUB")), PhrasePlural, false},
	// "drei Katzen": numerals carry no number of their own
	{seq(word("zwei", "drei", "vier", "fünf", "sechs", "sieben", "acht", "neun", "zehn", "elf", "zwölf"), chunk(InsideNP)), PhrasePlural, false},
	// "der von der Regierung geprüfte Hund ist grün"
	{seq(chunk(BeginNP), pos("PRP"), np(), and(chunk(BeginNP), pos("SIN")), star(chunk(InsideNP))), PhraseSingular, false},
	{seq(chunk(BeginNP), pos("PRP"), np(), and(chunk(BeginNP), pos("PLU")), star(chunk(InsideNP))), PhrasePlural, false},
	// "der von der Regierung geprüfte Hund"
	{seq(chunk(BeginNP), pos("PRP"), np(), pos("PA2"), and(chunk(BeginNP), not(pos("PLU"))), star(chunk(InsideNP))), PhraseSingular, false},
	{seq(chunk(BeginNP), pos("PRP"), np(), pos("PA2"), and(chunk(BeginNP), not(pos("SIN"))), star(chunk(InsideNP))), PhrasePlural, false},
	// "Herr und Frau Schröder"
	{seq(word("Herr", "Frau"), word("und"), word("Herr", "Frau"), star(pos("EIG"))), PhrasePlural, false},
}

// phraseRules run after singular/plural phrases are assigned.
var phraseRules = []filterRule{
	// "die hohe Zahl dieser relativ kleinen Verwaltungseinheiten"
	{seq(chunk(PhraseSingular), pos("PRO"), pos("ADJ"), pos("ADJ"), np()), PhraseSingular, false},
	// "eine der am meisten verbreiteten Krankheiten"
	{seq(re("eine[rs]?"), word("der"), word("am"), pos("ADJ"), pos("PA2"), np()), PhraseSingular, false},
	// "xy Prozent": both numbers are fine
	{seq(re(`[\d,.]+`), quantityUnits), PhraseSingular, false},
	{seq(re(`[\d,.]+`), quantityUnits), PhrasePlural, false},
	// "dass sie wie ein Spiel"
	{seq(word("dass"), word("sie"), word("wie"), np()), PhrasePlural, false},
	// "[so dass Knochenbrüche und] Platzwunden die Regel [sind]"
	{seq(pos("PLU"), word("die"), word("Regel")), PhrasePlural, false},
	// "Veranstaltung, die immer wieder ein kultureller Höhepunkt"
	{seq(np(), word(","), word("die"), plus(pos("ADV")), plus(chunk(PhraseSingular))), PhrasePlural, false},

	// genitive phrases

	// "die ältere der beiden Töchter"
	{seq(word("der", "die", "das"), and(pos("ADJ"), not(pos("PLU"))), word("der"), opt(pos("PRO")), pos("SUB")), PhraseSingular, false},
	// "Synthese organischer Verbindungen", but not "Einige der Inhaltsstoffe"
	{seq(and(chunk(PhraseSingular), not(word("einige"))), plus(and(chunk(PhrasePlural), or(pos("GEN"), pos("ZAL"))))), PhraseSingular, true},
	// "die Kenntnisse der Sprache"
	{seq(chunk(PhrasePlural), plus(and(chunk(PhraseSingular), pos("GEN")))), PhrasePlural, true},
	// "die Pyramide des Friedens und der Eintracht"
	{seq(plus(chunk(PhraseSingular)), word("und"), plus(and(or(chunk(PhraseSingular), chunk(PhrasePlural)), pos("GEN")))), PhraseSingular, true},
	// "Teil der dort ausgestellten Bestände"
	{seq(plus(chunk(PhraseSingular)), word("der"), pos("ADV"), pos("PA2"), np()), PhraseSingular, true},
	// "Teil der umfangreichen dort ausgestellten Bestände"
	{seq(plus(chunk(PhraseSingular)), word("der"), pos("ADJ"), pos("ADV"), pos("PA2"), np()), PhraseSingular, true},
	// "die Krankheit unserer heutigen Städte und Siedlungen"
	{seq(plus(chunk(PhraseSingular)), pos("PRO:POS"), pos("ADJ"), np()), PhraseSingular, true},
	// "eine Menge englischer Wörter"
	{seq(word("eine"), word("menge"), plus(chunk(BeginNP)), star(chunk(InsideNP))), PhrasePlural, true},

	// prepositional phrases

	// "bei den sehr niedrigen Oberflächentemperaturen"
	{seq(pos("PRP"), pos("ART:"), star(pos("ADV")), pos("ADJ"), np()), PhrasePrepositional, true},
	// "in den alten Religionen, Mythen und Sagen"
	{seq(pos("PRP"), plus(chunk(PhrasePlural)), word(","), np()), PhrasePrepositional, true},
	// "für die Stadtteile und selbständigen Ortsteile"
	{seq(pos("PRP"), plus(chunk(PhrasePlural))), PhrasePrepositional, true},
	// "in chemischen Komplexverbindungen", "für die Fische"
	{seq(pos("PRP"), np()), PhrasePrepositional, false},
	// "einschließlich der biologischen und sozialen Grundlagen"
	{seq(pos("PRP"), np(), pos("ADJ"), word("und", "oder", "bzw."), np()), PhrasePrepositional, false},
	// "für Ärzte und Ärztinnen festgestelltes Risikoprofil"
	{seq(pos("PRP"), chunk(BeginNP), star(or(chunk(BeginNP), chunk(InsideNP)))), PhrasePrepositional, false},
	// "in den darauf folgenden Wochen"
	{seq(pos("PRP"), chunk(BeginNP), pos("ADV"), np()), PhrasePrepositional, false},
	// "in nur zwei Wochen"
	{seq(pos("PRP"), pos("ADV"), pos("ZAL"), chunk(BeginNP)), PhrasePrepositional, false},
	// "in deren deutschen Installationen"
	{seq(pos("PRP"), pos("PRO"), np()), PhrasePrepositional, false},
	// "nach sachlichen und militärischen Kriterien"
	{seq(pos("PRP"), pos("ADJ"), word("und", "oder", "sowie"), np()), PhrasePrepositional, false},
	// "mit über 1000 Handschriften"
	{seq(pos("PRP"), pos("ADV"), re(`\d+`), np()), PhrasePrepositional, false},
	// "über laufende Sanierungsmaßnahmen"
	{seq(pos("PRP"), pos("PA1"), np()), PhrasePrepositional, false},
	// "durch Einsatz größerer Maschinen und bessere Kapazitätsplanung"
	{seq(pos("PRP"), np(), np(), word("und", "oder"), np()), PhrasePrepositional, false},
	// "bei sehr guten Beobachtungsbedingungen"
	{seq(pos("PRP"), pos("ADV"), pos("ADJ"), np()), PhrasePrepositional, false},
	// "die Beziehungen zwischen Kanada und dem Iran"
	{seq(chunk(PhrasePlural), word("zwischen"), pos("EIG"), word("und", "sowie"), np()), PhrasePlural, false},
	// "die darauffolgenden Jahre" stands for "in den darauffolgenden Jahren"
	{seq(word("die"), pos("ADJ"), timeUnits, opt(chunk(BeginNP)), star(chunk(InsideNP))), PhrasePrepositional, false},
	// "die letzten zwei Monate"
	{seq(word("die"), pos("ADJ"), pos("ZAL"), timeUnits, opt(chunk(BeginNP)), star(chunk(InsideNP))), PhrasePrepositional, false},
	// "letztes Jahr"
	{seq(re("(vor)?letzte[sn]?"), word("Woche", "Monat", "Jahr", "Jahrzehnt", "Jahrhundert")), PhrasePrepositional, false},
	// ", die die hauptsächliche Beute der Eisbären"
	{seq(word(","), word("die", "welche"), np(), plus(and(chunk(PhraseSingular), pos("GEN")))), PhrasePlural, false},
	// "Kommentare, Korrekturen, Kritik"
	{seq(np(), word(","), np(), word(","), np()), PhrasePlural, false},
}

func (r filterRule) apply(tokens []*chunkToken) {
	for _, span := range r.expr.findAll(tokens) {
		for i := span[0]; i < span[1]; i++ {
			if r.overwrite {
				tokens[i].removeChunks(PhraseSingular, PhrasePlural, PhrasePrepositional)
			}
			tokens[i].addChunk(r.phrase)
		}
	}
}
