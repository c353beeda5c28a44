package utils

// MatchResult records one substring replaced during a redaction pass
type MatchResult struct {
	// Category of the rule that matched (email, ip, token, username)
	Category string `json:"category"`

	// Pass is the zero-based index of the rule in the pattern table
	Pass int `json:"pass"`

	// Offsets into the text as it was when the pass ran
	StartIndex int `json:"start"`
	EndIndex   int `json:"end"`

	// Value is the matched text. It never leaves the process.
	Value string `json:"-"`

	// Placeholder written in place of Value
	Placeholder string `json:"placeholder"`

	// Fingerprint is a hex SHA-256 of Value for correlation across events
	Fingerprint string `json:"fingerprint,omitempty"`
}
