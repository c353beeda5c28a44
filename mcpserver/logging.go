package mcpserver

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// RequestLogger writes one line when a tool call starts and one when it ends.
// Only sizes, ids and counts are logged, never the text itself.
type RequestLogger struct {
	logger hclog.Logger
}

// NewRequestLogger creates a new request logger
func NewRequestLogger(logger hclog.Logger) *RequestLogger {
	return &RequestLogger{logger: logger.Named("request")}
}

// LogRequest logs the start of a tool call
func (l *RequestLogger) LogRequest(requestID, tool, clientID string, inputBytes int) {
	l.logger.Debug("tool call received",
		"request_id", requestID,
		"tool", tool,
		"client_id", clientID,
		"input_bytes", inputBytes,
	)
}

// LogResponse logs a completed tool call with its per-category match counts
func (l *RequestLogger) LogResponse(requestID, tool string, counts map[string]int, duration time.Duration) {
	args := []interface{}{
		"request_id", requestID,
		"tool", tool,
		"duration_ms", duration.Milliseconds(),
	}
	total := 0
	for category, n := range counts {
		args = append(args, "count_"+category, n)
		total += n
	}
	args = append(args, "matches", total)

	l.logger.Info("tool call completed", args...)
}
