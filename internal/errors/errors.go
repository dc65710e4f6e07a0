// Package errors provides a lightweight structured error type (SiteError)
// for category-based classification of generation failures in the CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a site generation error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig      ErrorCategory = "config"
	CategoryFrontmatter ErrorCategory = "frontmatter"
	CategoryMetadata    ErrorCategory = "metadata"

	// Rendering errors
	CategoryTemplate ErrorCategory = "template"
	CategoryRender   ErrorCategory = "render"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the run
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Document skipped, run continues
)

// SiteError is a structured error with category, severity, and context
type SiteError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SiteError
type ContextFields map[string]any

// Error implements the error interface
func (e *SiteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *SiteError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *SiteError) WithContext(key string, value any) *SiteError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SiteError
func New(category ErrorCategory, severity ErrorSeverity, message string) *SiteError {
	return &SiteError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SiteError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SiteError {
	return &SiteError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := err.(*SiteError); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a SiteError
func GetCategory(err error) ErrorCategory {
	if se, ok := err.(*SiteError); ok {
		return se.Category
	}
	return CategoryInternal
}

// ConfigError creates a fatal configuration error
func ConfigError(message string) *SiteError {
	return &SiteError{
		Category: CategoryConfig,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// MalformedDate creates a per-document metadata error for an unparseable date
func MalformedDate(file, raw string, cause error) *SiteError {
	e := &SiteError{
		Category: CategoryMetadata,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("malformed date %q", raw),
		Cause:    cause,
	}
	return e.WithContext("file", file)
}

// TemplateNotFound creates a fatal template resolution error
func TemplateNotFound(path string, cause error) *SiteError {
	e := &SiteError{
		Category: CategoryTemplate,
		Severity: SeverityFatal,
		Message:  fmt.Sprintf("template not found: %s", path),
		Cause:    cause,
	}
	return e.WithContext("path", path)
}

// DuplicateTitle creates a per-document error for a title collision
func DuplicateTitle(title, file, firstFile string) *SiteError {
	e := &SiteError{
		Category: CategoryMetadata,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("duplicate title %q", title),
	}
	return e.WithContext("file", file).WithContext("first_file", firstFile)
}

// IOError wraps a filesystem failure
func IOError(err error, message string) *SiteError {
	return &SiteError{
		Category: CategoryFileSystem,
		Severity: SeverityFatal,
		Message:  message,
		Cause:    err,
	}
}
