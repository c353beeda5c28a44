package core

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/SamuelRCrider/redact-go/utils"
)

// RedactWithMatches redacts text exactly like Redact and also reports every
// substring it replaced. Offsets refer to the text as it was when the
// matching pass ran, so later passes index into partially redacted text.
func (r *Redactor) RedactWithMatches(text string) (string, []utils.MatchResult) {
	redacted := text
	var matches []utils.MatchResult

	for pass, rule := range r.rules {
		locs := rule.Pattern.FindAllStringIndex(redacted, -1)
		if len(locs) == 0 {
			continue
		}

		for _, loc := range locs {
			value := redacted[loc[0]:loc[1]]
			matches = append(matches, utils.MatchResult{
				Category:    rule.Category,
				Pass:        pass,
				StartIndex:  loc[0],
				EndIndex:    loc[1],
				Value:       value,
				Placeholder: rule.Placeholder,
				Fingerprint: fingerprint(value),
			})
		}

		redacted = rule.Pattern.ReplaceAllLiteralString(redacted, rule.Placeholder)
	}

	return redacted, matches
}

// CountByCategory tallies matches per category
func CountByCategory(matches []utils.MatchResult) map[string]int {
	counts := make(map[string]int)
	for _, match := range matches {
		counts[match.Category]++
	}
	return counts
}

// fingerprint creates a hash of the value so events can be correlated
// without storing it
func fingerprint(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:])
}
