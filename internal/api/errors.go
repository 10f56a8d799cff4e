package api

import (
	"errors"
	"fmt"
)

// DART status codes returned in the JSON/XML envelope of every endpoint.
// https://opendart.fss.or.kr/ documents these under "개발가이드".
const (
	statusOK          = "000" // normal
	statusKeyMissing  = "010" // unregistered key
	statusKeyDisabled = "011" // key exists but cannot be used
	statusNoData      = "013" // no matching data
	statusQuota       = "020" // request limit exceeded
	statusBadParam    = "100" // invalid field value
	statusMaintenance = "800" // service under maintenance
	statusKeyExpired  = "901" // key expired
)

// AuthError indicates the API key was rejected (unregistered, disabled or
// expired).
type AuthError struct {
	Status  string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("DART auth error (status %s): %s", e.Status, e.Message)
}

// QuotaError indicates the daily request limit was exceeded.
type QuotaError struct {
	Message string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("DART request limit exceeded: %s", e.Message)
}

// FormatError indicates a response body that was not the expected ZIP
// payload. Cause holds a human-readable explanation extracted from the
// body, never the raw bytes.
type FormatError struct {
	ContentType string
	Cause       string
}

func (e *FormatError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("response is not a ZIP archive: %s", e.Cause)
	}
	return fmt.Sprintf("response is not a ZIP archive (content-type %s)", e.ContentType)
}

// APIError covers the remaining non-OK DART statuses (bad parameters,
// maintenance windows, undefined errors).
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("DART API error (status %s): %s", e.Status, e.Message)
}

// ErrEmptyResult is returned when a lookup matched nothing: no company for
// a query, or no filings for a year.
var ErrEmptyResult = errors.New("no matching results")

// statusError maps a DART status code to the appropriate error kind.
// Status 013 (no data) is not an error; callers handle it as an empty
// result before reaching here.
func statusError(status, message string) error {
	switch status {
	case statusKeyMissing, statusKeyDisabled, statusKeyExpired:
		return &AuthError{Status: status, Message: message}
	case statusQuota:
		return &QuotaError{Message: message}
	default:
		return &APIError{Status: status, Message: message}
	}
}

// IsRetryable reports whether an error is a transient network failure
// worth retrying with backoff. Typed API errors are never retryable.
func IsRetryable(err error) bool {
	var authErr *AuthError
	var quotaErr *QuotaError
	var fmtErr *FormatError
	var apiErr *APIError
	if errors.As(err, &authErr) || errors.As(err, &quotaErr) ||
		errors.As(err, &fmtErr) || errors.As(err, &apiErr) {
		return false
	}
	return err != nil
}
