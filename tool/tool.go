package tool

import (
	"context"
	"fmt"
)

// Tool is a callable capability. Name is the registry primary key; Category
// feeds the registry's secondary index and the flow's tool shortlist.
// Capabilities are free-form tags ("network_access", "file_system", ...)
// consumed by the discovery pipeline's security assessment.
//
// Execute must respect ctx cancellation; the registry wraps every call in a
// timeout so a misbehaving tool surfaces as a failed result, never a hang.
type Tool struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Capabilities []string       `json:"capabilities,omitempty"`
	Parameters   Schema         `json:"parameters"`
	Metadata     map[string]any `json:"metadata,omitempty"`

	Execute func(ctx context.Context, args map[string]any) (any, error) `json:"-"`
}

// HasCapability reports whether the tool declares the given capability tag.
func (t *Tool) HasCapability(tag string) bool {
	for _, c := range t.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// ToolError represents errors that occur during tool lookup or execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

// Error codes used across the package.
const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodeTimeout    = "TIMEOUT"
)

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// Result captures the outcome of a single tool call. A failed call carries
// the error; remaining pipeline steps continue regardless.
type Result struct {
	Tool    string `json:"tool"`
	Output  any    `json:"output,omitempty"`
	Err     error  `json:"-"`
	Elapsed int64  `json:"elapsed_ms"`
}

// Success reports whether the call produced a usable output.
func (r Result) Success() bool { return r.Err == nil }
