package mcpserver

import (
	"errors"
	"fmt"
)

// Tool argument names
const (
	ArgText     = "text"
	ArgClientID = "client_id"
)

var (
	errMissingText = errors.New("missing required argument \"text\"")
	errTextType    = errors.New("argument \"text\" must be a string")
	errClientType  = errors.New("argument \"client_id\" must be a string")
)

// InputValidator extracts and checks tool arguments. Non-string text is
// rejected rather than converted.
type InputValidator struct {
	maxInputBytes int
}

// NewInputValidator creates a validator; maxInputBytes of 0 disables the size check
func NewInputValidator(maxInputBytes int) *InputValidator {
	return &InputValidator{maxInputBytes: maxInputBytes}
}

// RedactArgs are the validated arguments of the redact tool
type RedactArgs struct {
	Text     string
	ClientID string
}

// ValidateRedactArgs checks the raw arguments of a redact call
func (v *InputValidator) ValidateRedactArgs(args map[string]interface{}) (RedactArgs, error) {
	raw, ok := args[ArgText]
	if !ok || raw == nil {
		return RedactArgs{}, errMissingText
	}

	text, ok := raw.(string)
	if !ok {
		return RedactArgs{}, fmt.Errorf("%w, got %T", errTextType, raw)
	}

	if v.maxInputBytes > 0 && len(text) > v.maxInputBytes {
		return RedactArgs{}, fmt.Errorf("input exceeds maximum size of %d bytes", v.maxInputBytes)
	}

	var clientID string
	if rawID, ok := args[ArgClientID]; ok && rawID != nil {
		clientID, ok = rawID.(string)
		if !ok {
			return RedactArgs{}, errClientType
		}
	}

	return RedactArgs{Text: text, ClientID: clientID}, nil
}
