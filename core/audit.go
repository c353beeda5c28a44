package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SamuelRCrider/redact-go/utils"
)

// AuditLogLevel defines the verbosity of audit logging
type AuditLogLevel string

const (
	// AuditLogLevelMinimal logs only warnings and above, without content
	AuditLogLevelMinimal AuditLogLevel = "minimal"

	// AuditLogLevelStandard logs every event with truncated content
	AuditLogLevelStandard AuditLogLevel = "standard"

	// AuditLogLevelVerbose logs every event with the full redacted content
	AuditLogLevelVerbose AuditLogLevel = "verbose"
)

// Valid reports whether l is a known level
func (l AuditLogLevel) Valid() bool {
	switch l {
	case AuditLogLevelMinimal, AuditLogLevelStandard, AuditLogLevelVerbose:
		return true
	}
	return false
}

// AuditLogSeverity defines the severity of audit log events
type AuditLogSeverity string

const (
	SeverityInfo    AuditLogSeverity = "info"
	SeverityWarning AuditLogSeverity = "warning"
	SeverityError   AuditLogSeverity = "error"
)

// truncateLimit is how much redacted content standard level keeps
const truncateLimit = 100

// AuditLog is one JSON Lines audit entry. The unredacted input is never
// part of an entry.
type AuditLog struct {
	RequestID    string           `json:"request_id"`
	Timestamp    string           `json:"timestamp"`
	EventType    string           `json:"event_type"`
	ActionSource string           `json:"action_source"`
	Severity     AuditLogSeverity `json:"severity"`

	UserRole string `json:"user_role,omitempty"`
	UserID   string `json:"user_id,omitempty"`

	Transformed string              `json:"transformed,omitempty"`
	Matches     []utils.MatchResult `json:"matches,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// AuditConfig configures an AuditLogger
type AuditConfig struct {
	Path          string
	Level         AuditLogLevel
	RotationSize  int64 // bytes; 0 disables rotation
	RetentionDays int   // rotated files older than this are removed
	Console       bool  // also write entries to stdout
}

// DefaultAuditConfig returns the settings used by the shared logger
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Path:          "audit.log",
		Level:         AuditLogLevelStandard,
		RotationSize:  100 * 1024 * 1024,
		RetentionDays: 90,
	}
}

// AuditLogger appends audit events to a file, rotating it by size
type AuditLogger struct {
	mu          sync.Mutex
	config      AuditConfig
	file        *os.File
	writer      io.Writer
	currentSize int64
	initialized bool
	console     io.Writer
}

var (
	defaultLogger *AuditLogger
	loggerOnce    sync.Once
)

// GetAuditLogger returns the shared audit logger. The log file is opened on
// the first event, so obtaining the logger has no side effects.
func GetAuditLogger() *AuditLogger {
	loggerOnce.Do(func() {
		defaultLogger = NewAuditLogger(DefaultAuditConfig())
	})
	return defaultLogger
}

// ConfigureLogger replaces the settings of the shared audit logger
func ConfigureLogger(config AuditConfig) error {
	return GetAuditLogger().Reconfigure(config)
}

// NewAuditLogger creates a logger; the file is opened lazily
func NewAuditLogger(config AuditConfig) *AuditLogger {
	if config.Level == "" {
		config.Level = AuditLogLevelStandard
	}
	return &AuditLogger{config: config, console: os.Stdout}
}

// Reconfigure closes the current file and applies new settings
func (l *AuditLogger) Reconfigure(config AuditConfig) error {
	if config.Level == "" {
		config.Level = AuditLogLevelStandard
	}
	if !config.Level.Valid() {
		return fmt.Errorf("invalid audit level %q", config.Level)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.closeLocked()
	l.config = config
	return l.initialize()
}

// Close flushes and closes the audit file
func (l *AuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *AuditLogger) closeLocked() error {
	l.initialized = false
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.writer = nil
	return err
}

// initialize opens the log file; callers hold l.mu
func (l *AuditLogger) initialize() error {
	dir := filepath.Dir(l.config.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create audit log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.config.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat audit log: %w", err)
	}

	l.file = f
	l.currentSize = info.Size()
	if l.config.Console {
		l.writer = io.MultiWriter(f, l.console)
	} else {
		l.writer = f
	}
	l.initialized = true
	return nil
}

// maybeRotate renames the current file once it reaches the rotation size
func (l *AuditLogger) maybeRotate() error {
	if l.config.RotationSize <= 0 || l.currentSize < l.config.RotationSize {
		return nil
	}

	l.closeLocked()

	rotatedPath := fmt.Sprintf("%s.%s", l.config.Path, time.Now().Format("20060102-150405.000000000"))
	if err := os.Rename(l.config.Path, rotatedPath); err != nil {
		return fmt.Errorf("failed to rotate audit log: %w", err)
	}

	l.cleanupOldLogs()
	return l.initialize()
}

// cleanupOldLogs removes rotated files older than the retention period
func (l *AuditLogger) cleanupOldLogs() {
	if l.config.RetentionDays <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -l.config.RetentionDays)
	files, err := filepath.Glob(l.config.Path + ".*")
	if err != nil {
		return
	}

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(file)
		}
	}
}

// LogEvent writes an audit event, applying level filtering
func (l *AuditLogger) LogEvent(event AuditLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config.Level == AuditLogLevelMinimal && event.Severity == SeverityInfo {
		return nil
	}

	if !l.initialized {
		if err := l.initialize(); err != nil {
			return err
		}
	}

	if err := l.maybeRotate(); err != nil {
		return err
	}

	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if event.RequestID == "" {
		event.RequestID = uuid.NewString()
	}
	if event.Severity == "" {
		event.Severity = SeverityInfo
	}

	switch l.config.Level {
	case AuditLogLevelStandard:
		if len(event.Transformed) > truncateLimit {
			event.Transformed = event.Transformed[:truncateLimit] + "... [truncated]"
		}
	case AuditLogLevelMinimal:
		event.Transformed = ""
	}

	entry, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	n, err := fmt.Fprintln(l.writer, string(entry))
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	l.currentSize += int64(n)

	return nil
}

// LogRedactionEvent fills event with the outcome of a redaction and writes
// it. The caller sets identity fields such as RequestID and UserRole. Match
// values are not serialized; only categories, offsets and fingerprints are.
func (l *AuditLogger) LogRedactionEvent(event AuditLog, redacted string, matches []utils.MatchResult) error {
	metadata := map[string]string{
		"match_count": strconv.Itoa(len(matches)),
	}
	for category, count := range CountByCategory(matches) {
		metadata["count_"+category] = strconv.Itoa(count)
	}
	for k, v := range event.Metadata {
		metadata[k] = v
	}

	event.EventType = "redaction"
	event.Transformed = redacted
	event.Matches = matches
	event.Metadata = metadata
	if event.Severity == "" {
		event.Severity = SeverityInfo
	}

	return l.LogEvent(event)
}

// LogEvent writes an event through the shared logger
func LogEvent(event AuditLog) error {
	return GetAuditLogger().LogEvent(event)
}
