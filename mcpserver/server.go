package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/SamuelRCrider/redact-go/core"
)

// Tool names
const (
	ToolRedact     = "redact"
	ToolCategories = "redact_categories"
)

// defaultClientID is used for rate limiting and audit when a call names no client
const defaultClientID = "default"

// Server exposes the redactor as MCP tools
type Server struct {
	config   *Config
	mcp      *server.MCPServer
	redactor *core.Redactor
	logger   hclog.Logger

	requestLog    *RequestLogger
	errorReporter *ErrorReporter
	validator     *InputValidator
	rateLimiter   *RateLimiter
	audit         *core.AuditLogger
}

// NewServer builds a server from config. A nil config uses DefaultConfig and
// a nil logger discards output.
func NewServer(config *Config, logger hclog.Logger) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	s := &Server{
		config:        config,
		redactor:      core.NewRedactor(),
		logger:        logger,
		requestLog:    NewRequestLogger(logger),
		errorReporter: NewErrorReporter(logger),
		validator:     NewInputValidator(config.MaxInputBytes),
	}

	if config.RateLimit.Enabled {
		s.rateLimiter = NewRateLimiter(config.RateLimit.RequestsPerMinute, time.Minute)
	}

	if config.Audit.Enabled {
		s.audit = core.NewAuditLogger(config.Audit.toCore())
	}

	s.mcp = server.NewMCPServer(config.Name, config.Version)
	s.mcp.AddTool(redactTool(), s.handleRedact)
	s.mcp.AddTool(categoriesTool(), s.handleCategories)

	logger.Debug("server configured",
		"name", config.Name,
		"version", config.Version,
		"rate_limit", config.RateLimit.Enabled,
		"audit", config.Audit.Enabled,
	)

	return s, nil
}

func redactTool() mcp.Tool {
	return mcp.NewTool(ToolRedact,
		mcp.WithDescription("Replace email addresses, IPv4 addresses, tokens of 32+ alphanumeric characters and user_ names with [REDACTED_<CATEGORY>] placeholders"),
		mcp.WithString(ArgText,
			mcp.Required(),
			mcp.Description("Text to redact"),
		),
		mcp.WithString(ArgClientID,
			mcp.Description("Caller identifier used for rate limiting and the audit trail"),
		),
	)
}

func categoriesTool() mcp.Tool {
	return mcp.NewTool(ToolCategories,
		mcp.WithDescription("List redaction categories and their placeholders in the order they are applied"),
	)
}

// MCPServer returns the underlying MCP server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves MCP over stdin/stdout until the input is closed
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio", "name", s.config.Name)
	return server.ServeStdio(s.mcp)
}

// Close releases the audit log
func (s *Server) Close() error {
	if s.audit == nil {
		return nil
	}
	return s.audit.Close()
}

func (s *Server) handleRedact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	startTime := time.Now()

	args, err := s.validator.ValidateRedactArgs(request.Params.Arguments)
	if err != nil {
		return s.reject(newRedactError(ErrorCategoryValidation, err, requestID, nil), defaultClientID), nil
	}

	clientID := args.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}

	s.requestLog.LogRequest(requestID, ToolRedact, clientID, len(args.Text))

	if s.rateLimiter != nil {
		status := s.rateLimiter.Check(clientID)
		if status.Limited {
			rateErr := newRedactError(ErrorCategoryRateLimit,
				fmt.Errorf("rate limit exceeded: %d requests (limit: %d)",
					status.Count, s.config.RateLimit.RequestsPerMinute),
				requestID,
				map[string]interface{}{
					"client_id":  clientID,
					"reset_time": status.ResetTime.Format(time.RFC3339),
				})
			return s.reject(rateErr, clientID), nil
		}
	}

	redacted, matches := s.redactor.RedactWithMatches(args.Text)

	if s.audit != nil {
		event := core.AuditLog{
			RequestID:    requestID,
			ActionSource: "mcp." + ToolRedact,
			UserID:       clientID,
		}
		if err := s.audit.LogRedactionEvent(event, redacted, matches); err != nil {
			// Output is withheld when the audit trail cannot be written.
			return s.reject(newRedactError(ErrorCategorySystem,
				fmt.Errorf("failed to write audit event: %w", err), requestID, nil), clientID), nil
		}
	}

	s.requestLog.LogResponse(requestID, ToolRedact, core.CountByCategory(matches), time.Since(startTime))

	return mcp.NewToolResultText(redacted), nil
}

// categoryInfo is one entry of the redact_categories result
type categoryInfo struct {
	Category    string `json:"category"`
	Placeholder string `json:"placeholder"`
}

func (s *Server) handleCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := s.redactor.Rules()
	infos := make([]categoryInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, categoryInfo{Category: rule.Category, Placeholder: rule.Placeholder})
	}

	data, err := json.Marshal(infos)
	if err != nil {
		return nil, fmt.Errorf("failed to encode categories: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}

// reject reports err, records it in the audit trail, and turns it into a
// tool error result
func (s *Server) reject(err RedactError, clientID string) *mcp.CallToolResult {
	s.errorReporter.ReportError(err)

	if s.audit != nil && err.Category != ErrorCategorySystem {
		auditErr := s.audit.LogEvent(core.AuditLog{
			RequestID:    err.RequestID,
			EventType:    "rejected",
			ActionSource: "mcp." + ToolRedact,
			Severity:     core.SeverityWarning,
			UserID:       clientID,
			Metadata: map[string]string{
				"category": string(err.Category),
				"reason":   err.OriginalErr.Error(),
			},
		})
		if auditErr != nil {
			s.logger.Error("failed to audit rejected request", "request_id", err.RequestID, "error", auditErr)
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: err.Error(),
			},
		},
		IsError: true,
	}
}
