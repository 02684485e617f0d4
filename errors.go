package leadmagnet

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common generation failure conditions.
var (
	ErrUnknownType       = errors.New("leadmagnet: unknown magnet type")
	ErrUnsupportedFormat = errors.New("leadmagnet: unsupported output format")
	ErrMissingContext    = errors.New("leadmagnet: business name, niche and title are required first")
	ErrNoUsesLeft        = errors.New("leadmagnet: no generations remaining")
	ErrListBounds        = errors.New("leadmagnet: list size out of bounds")
	ErrNotConfigured     = errors.New("leadmagnet: service not configured")
)

// MagnetError represents an error that occurred during a specific operation.
// It wraps an underlying error and includes the operation name for context.
type MagnetError struct {
	Op  string // operation name, e.g. "Render", "Autofill"
	Err error  // underlying error
}

func (e *MagnetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("leadmagnet.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("leadmagnet.%s: unknown error", e.Op)
}

func (e *MagnetError) Unwrap() error {
	return e.Err
}

// NewMagnetError creates a new MagnetError wrapping the given error with operation context.
func NewMagnetError(op string, err error) *MagnetError {
	return &MagnetError{Op: op, Err: err}
}

// ValidationError lists every required field that is missing or out of bounds.
// Generation is blocked while a ValidationError is outstanding.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return "validation failed"
	}
	return "please fill in all required fields: " + strings.Join(e.Missing, ", ")
}

// AutofillParseError reports a generated response that could not be merged.
// The form it was meant for is left unchanged.
type AutofillParseError struct {
	Reason string
	Err    error
}

func (e *AutofillParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not parse AI response: %s: %v", e.Reason, e.Err)
	}
	return "could not parse AI response: " + e.Reason
}

func (e *AutofillParseError) Unwrap() error {
	return e.Err
}

// NetworkError reports a failed call to an upstream service.
type NetworkError struct {
	Service    string // "gemini", "whop"
	StatusCode int    // 0 when the request never got a response
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RenderError reports a failure while building an artifact. No bytes accompany it.
type RenderError struct {
	Artifact string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Artifact, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
