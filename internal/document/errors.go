package document

import (
	"fmt"
	"strings"
)

// TemplateMissingError reports that a named template could not be found or
// read. This is an operator/configuration problem, distinct from a data
// problem during rendering.
type TemplateMissingError struct {
	Name string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *TemplateMissingError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("template %q not found at %s", e.Name, e.Path)
	}
	return fmt.Sprintf("template %q not found", e.Name)
}

// Unwrap returns the underlying cause.
func (e *TemplateMissingError) Unwrap() error { return e.Err }

// RenderError reports a template/data mismatch: the template references
// tokens absent from the supplied data. A half-filled legal document is
// worse than a visible error, so unresolved tokens fail the render.
type RenderError struct {
	UnresolvedTokens []string
	Err              error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if len(e.UnresolvedTokens) > 0 {
		return fmt.Sprintf("render failed: unresolved tokens: %s", strings.Join(e.UnresolvedTokens, ", "))
	}
	return fmt.Sprintf("render failed: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *RenderError) Unwrap() error { return e.Err }
