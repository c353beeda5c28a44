// Package redact replaces emails, IPv4 addresses, long alphanumeric tokens and
// user_ names in text with [REDACTED_<CATEGORY>] placeholders.
package redact

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/SamuelRCrider/redact-go/core"
)

var (
	defaultRedactor *core.Redactor
	redactorOnce    sync.Once
)

func getRedactor() *core.Redactor {
	redactorOnce.Do(func() {
		defaultRedactor = core.NewRedactor()
	})
	return defaultRedactor
}

// Redact returns text with every sensitive substring replaced by its placeholder
func Redact(text string) string {
	return getRedactor().Redact(text)
}

// RunRedaction redacts input and records an audit event for the given role
// through the shared audit logger. The redacted text is returned even when
// the audit write fails.
func RunRedaction(input string, role string) (string, error) {
	requestID := uuid.NewString()

	output, matches := getRedactor().RedactWithMatches(input)

	if err := core.GetAuditLogger().LogRedactionEvent(core.AuditLog{
		RequestID:    requestID,
		ActionSource: "sdk",
		UserRole:     role,
	}, output, matches); err != nil {
		return output, fmt.Errorf("failed to write audit event: %w", err)
	}

	return output, nil
}
