package core

import (
	"regexp"
	"strings"
)

// Category names, in the order their passes run
const (
	CategoryEmail    = "email"
	CategoryIP       = "ip"
	CategoryToken    = "token"
	CategoryUsername = "username"
)

// Rule pairs a category with the pattern that recognizes it
type Rule struct {
	Category    string
	Pattern     *regexp.Regexp
	Placeholder string
}

// defaultRules is the fixed pattern table. Order is significant: each pass
// runs on the output of the previous one.
var defaultRules = []Rule{
	newRule(CategoryEmail, `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`),
	newRule(CategoryIP, `\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	newRule(CategoryToken, `\b[A-Za-z0-9]{32,}\b`),
	newRule(CategoryUsername, `\buser_[a-zA-Z0-9]+\b`),
}

func newRule(category, pattern string) Rule {
	return Rule{
		Category:    category,
		Pattern:     regexp.MustCompile(pattern),
		Placeholder: Placeholder(category),
	}
}

// Placeholder returns the replacement text for a category, e.g. [REDACTED_EMAIL]
func Placeholder(category string) string {
	return "[REDACTED_" + strings.ToUpper(category) + "]"
}

// Redactor replaces sensitive substrings with category placeholders.
// A Redactor is immutable and safe for concurrent use.
type Redactor struct {
	rules []Rule
}

// NewRedactor creates a redactor with the email, ip, token and username rules
func NewRedactor() *Redactor {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return &Redactor{rules: rules}
}

// Redact applies every rule in order, each pass operating on the result of
// the previous one, and returns the redacted text.
func (r *Redactor) Redact(text string) string {
	redacted := text
	for _, rule := range r.rules {
		redacted = rule.Pattern.ReplaceAllLiteralString(redacted, rule.Placeholder)
	}
	return redacted
}

// Categories returns the rule categories in pass order
func (r *Redactor) Categories() []string {
	categories := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		categories = append(categories, rule.Category)
	}
	return categories
}

// Rules returns a copy of the pattern table
func (r *Redactor) Rules() []Rule {
	rules := make([]Rule, len(r.rules))
	copy(rules, r.rules)
	return rules
}
