// Package printing renders vendor order reports to PDF through a headless
// Chrome instance. The HTML is built from the normalized report table, so
// every vendor's form prints as the same rectangular layout it is displayed
// with.
package printing

import (
	"context"
	"fmt"
)

// Render error codes
const (
	ErrCodeInvalidReport = "INVALID_REPORT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
)

// RenderError describes a PDF rendering failure
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new render error
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

// PDFRenderer converts an HTML document into PDF bytes
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html, title string) ([]byte, error)
	Close() error
}
