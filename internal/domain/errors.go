package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrEmptyEssay          = errors.New("essay text is empty")

	ErrConfig         = errors.New("invalid grading configuration")
	ErrFormat         = errors.New("malformed document")
	ErrParse          = errors.New("malformed persisted data")
	ErrPermission     = errors.New("cannot write persisted state")
	ErrDelegate       = errors.New("grading delegate unavailable")
	ErrInvalidKeyword = errors.New("invalid keyword")
)

// ConfigError reports a rubric, weights, or style value that failed validation.
// Missing and Unexpected are populated for key-set mismatches.
type ConfigError struct {
	Kind       string
	Missing    []string
	Unexpected []string
	Reason     string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing keys: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected keys: "+strings.Join(e.Unexpected, ", "))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(parts, "; "))
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// FormatError reports a document container that is corrupt or incomplete.
type FormatError struct {
	Part string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("malformed document: %v", e.Err)
	}
	return fmt.Sprintf("malformed document part %s: %v", e.Part, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// DelegateError wraps a failure from an external grading collaborator.
type DelegateError struct {
	Delegate string
	Err      error
}

func (e *DelegateError) Error() string {
	return fmt.Sprintf("%s delegate failed: %v", e.Delegate, e.Err)
}

func (e *DelegateError) Unwrap() error {
	return e.Err
}

func (e *DelegateError) Is(target error) bool {
	return target == ErrDelegate
}

// RateLimitError indicates a delegate provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}
