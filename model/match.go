package model

// Match is a reported grammar problem. Offset and Length count runes in the
// checked text; Replacements are ordered best first.
type Match struct {
	ID           string   `json:"id"`
	RuleID       string   `json:"rule_id"`
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Message      string   `json:"message"`
	ShortMessage string   `json:"short_message,omitempty"`
	Replacements []string `json:"replacements"`
}

// RuleExample pairs an incorrect sentence with its correction
type RuleExample struct {
	Incorrect string `json:"incorrect"`
	Correct   string `json:"correct"`
}

// RuleInfo describes a registered grammar rule
type RuleInfo struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Enabled     bool          `json:"enabled"`
	Examples    []RuleExample `json:"examples,omitempty"`
}

// CheckResult is the outcome of checking one text
type CheckResult struct {
	RequestID string  `json:"request_id"`
	Matches   []Match `json:"matches"`
	Sentences int     `json:"sentences"`
	TookMs    int64   `json:"took_ms"`
}
