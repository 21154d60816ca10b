package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable classification
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors, always fatal at startup
	ErrConfigMissing ErrorCode = "CONFIG_MISSING"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Asset store conflicts
	ErrBrandExists   ErrorCode = "BRAND_EXISTS"
	ErrBrandNotFound ErrorCode = "BRAND_NOT_FOUND"
	ErrIconExists    ErrorCode = "ICON_EXISTS"
	ErrIconNotFound  ErrorCode = "ICON_NOT_FOUND"
	ErrInvalidName   ErrorCode = "INVALID_NAME"

	// Content validation errors, recoverable per icon
	ErrInvalidContent      ErrorCode = "INVALID_CONTENT"
	ErrInvalidAssetContent ErrorCode = "INVALID_ASSET_CONTENT"

	// Remote protocol errors
	ErrInvalidFileKey ErrorCode = "INVALID_FILE_KEY"
	ErrInvalidFormat  ErrorCode = "INVALID_FORMAT"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrRemoteProtocol ErrorCode = "REMOTE_PROTOCOL"
	ErrRateLimited    ErrorCode = "RATE_LIMITED"

	// Build pipeline errors
	ErrNoIcons     ErrorCode = "NO_ICONS"
	ErrFontCompile ErrorCode = "FONT_COMPILE"
	ErrStageFailed ErrorCode = "STAGE_FAILED"

	// Token registry errors
	ErrRegistryInvalid ErrorCode = "REGISTRY_INVALID"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
)

// GlyphkitError represents a structured error with code and details
type GlyphkitError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *GlyphkitError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *GlyphkitError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *GlyphkitError) Is(target error) bool {
	var targetErr *GlyphkitError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new GlyphkitError with the given code and message
func New(code ErrorCode, message string) *GlyphkitError {
	return &GlyphkitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new GlyphkitError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *GlyphkitError {
	return &GlyphkitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a GlyphkitError
func Wrap(err error, code ErrorCode, message string) *GlyphkitError {
	if err == nil {
		return nil
	}
	return &GlyphkitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *GlyphkitError {
	if err == nil {
		return nil
	}
	return &GlyphkitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *GlyphkitError) WithDetail(key string, value interface{}) *GlyphkitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *GlyphkitError) WithDetails(details map[string]interface{}) *GlyphkitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var gkErr *GlyphkitError
	if errors.As(err, &gkErr) {
		return gkErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a GlyphkitError
func GetErrorCode(err error) ErrorCode {
	var gkErr *GlyphkitError
	if errors.As(err, &gkErr) {
		return gkErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a GlyphkitError
func GetErrorDetails(err error) map[string]interface{} {
	var gkErr *GlyphkitError
	if errors.As(err, &gkErr) {
		return gkErr.Details
	}
	return nil
}
