package core

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAuditLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func newTestAuditLogger(t *testing.T, level AuditLogLevel) (*AuditLogger, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	l := NewAuditLogger(AuditConfig{Path: path, Level: level})
	t.Cleanup(func() { l.Close() })
	return l, path
}

func TestAuditLogger_LogRedactionEvent(t *testing.T) {
	l, path := newTestAuditLogger(t, AuditLogLevelVerbose)

	in := "Contact: alice@example.com from 10.0.0.1"
	out, matches := NewRedactor().RedactWithMatches(in)
	require.NoError(t, l.LogRedactionEvent(AuditLog{
		RequestID:    "req-1",
		ActionSource: "test",
		UserRole:     "analyst",
	}, out, matches))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "alice@example.com")
	assert.NotContains(t, string(raw), "10.0.0.1")

	entries := readAuditLines(t, path)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "redaction", entry["event_type"])
	assert.Equal(t, "test", entry["action_source"])
	assert.Equal(t, "info", entry["severity"])
	assert.Equal(t, "analyst", entry["user_role"])
	assert.Equal(t, out, entry["transformed"])
	assert.NotEmpty(t, entry["timestamp"])

	metadata := entry["metadata"].(map[string]interface{})
	assert.Equal(t, "2", metadata["match_count"])
	assert.Equal(t, "1", metadata["count_email"])
	assert.Equal(t, "1", metadata["count_ip"])

	loggedMatches := entry["matches"].([]interface{})
	require.Len(t, loggedMatches, 2)
	first := loggedMatches[0].(map[string]interface{})
	assert.Equal(t, "email", first["category"])
	assert.NotEmpty(t, first["fingerprint"])
	_, hasValue := first["Value"]
	assert.False(t, hasValue)
}

func TestAuditLogger_StandardTruncates(t *testing.T) {
	l, path := newTestAuditLogger(t, AuditLogLevelStandard)

	long := strings.Repeat("x", 150)
	require.NoError(t, l.LogEvent(AuditLog{EventType: "redaction", Transformed: long}))

	entries := readAuditLines(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, strings.Repeat("x", 100)+"... [truncated]", entries[0]["transformed"])
	assert.NotEmpty(t, entries[0]["request_id"], "request id is generated when missing")
}

func TestAuditLogger_MinimalFilters(t *testing.T) {
	l, path := newTestAuditLogger(t, AuditLogLevelMinimal)

	require.NoError(t, l.LogEvent(AuditLog{EventType: "redaction", Severity: SeverityInfo, Transformed: "a"}))
	require.NoError(t, l.LogEvent(AuditLog{EventType: "rejected", Severity: SeverityWarning, Transformed: "b"}))

	entries := readAuditLines(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "rejected", entries[0]["event_type"])
	_, hasContent := entries[0]["transformed"]
	assert.False(t, hasContent)
}

func TestAuditLogger_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewAuditLogger(AuditConfig{Path: path, Level: AuditLogLevelVerbose, RotationSize: 10, RetentionDays: 1})
	defer l.Close()

	require.NoError(t, l.LogEvent(AuditLog{EventType: "first"}))
	require.NoError(t, l.LogEvent(AuditLog{EventType: "second"}))

	rotated, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.Len(t, rotated, 1)

	entries := readAuditLines(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0]["event_type"])
}

func TestAuditLogger_Reconfigure(t *testing.T) {
	l, _ := newTestAuditLogger(t, AuditLogLevelStandard)

	err := l.Reconfigure(AuditConfig{Path: filepath.Join(t.TempDir(), "a.log"), Level: "loud"})
	assert.Error(t, err)

	newPath := filepath.Join(t.TempDir(), "b.log")
	require.NoError(t, l.Reconfigure(AuditConfig{Path: newPath, Level: AuditLogLevelVerbose}))
	require.NoError(t, l.LogEvent(AuditLog{EventType: "moved"}))
	assert.Len(t, readAuditLines(t, newPath), 1)
}
