// Package errors defines the structured error taxonomy shared by the release
// listing, asset selection and acquisition stages.
//
// Every failure that crosses a component boundary is an Error carrying a
// machine-readable Code. Callers branch on the code (or use errors.Is with
// the sentinel values) and show Reason(err) to the user.
package errors

import "errors"

// Code identifies a class of failure.
type Code string

const (
	CodeUnknown Code = "unknown"

	// Registry listing
	CodeNetwork  Code = "network"
	CodeRegistry Code = "registry"

	// Asset selection
	CodeUnsupportedPlatform Code = "unsupported_platform"
	CodeNotFound            Code = "not_found"

	// Acquisition
	CodeDownload           Code = "download"
	CodeCorruptArchive     Code = "corrupt_archive"
	CodeUnsafeArchiveEntry Code = "unsafe_archive_entry"
	CodeFilesystem         Code = "filesystem"
	CodeCancelled          Code = "cancelled"

	CodeConfiguration Code = "configuration"
)

// Sentinels for errors.Is. They match any Error with the same code.
var (
	ErrNetwork             = Error{Code: CodeNetwork}
	ErrRegistry            = Error{Code: CodeRegistry}
	ErrUnsupportedPlatform = Error{Code: CodeUnsupportedPlatform}
	ErrNotFound            = Error{Code: CodeNotFound}
	ErrDownload            = Error{Code: CodeDownload}
	ErrCorruptArchive      = Error{Code: CodeCorruptArchive}
	ErrUnsafeArchiveEntry  = Error{Code: CodeUnsafeArchiveEntry}
	ErrFilesystem          = Error{Code: CodeFilesystem}
	ErrCancelled           = Error{Code: CodeCancelled}
	ErrConfiguration       = Error{Code: CodeConfiguration}
)

// Error represents a structured error with a machine-readable code plus message.
type Error struct {
	Code    Code
	Message string
	// Timeout marks network and download failures caused by a deadline.
	Timeout bool
	Err     error
}

// Error implements the error interface.
func (e Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Code)
}

// Unwrap returns the wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a bare sentinel with the same code.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Code == e.Code
}

// New wraps an error with a code/message.
func New(code Code, msg string, err error) Error {
	return Error{Code: code, Message: msg, Err: err}
}

// NewTimeout builds an error flagged as a timeout. The message always ends
// with "timed out" so status lines stay distinguishable.
func NewTimeout(code Code, msg string, err error) Error {
	return Error{Code: code, Message: msg + " timed out", Timeout: true, Err: err}
}

// CodeOf walks the error chain and returns the first structured code found.
func CodeOf(err error) Code {
	var structured Error
	if errors.As(err, &structured) {
		return structured.Code
	}
	return CodeUnknown
}

// IsCode reports whether the error (or its unwrap chain) matches the provided code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// IsTimeout reports whether err is a structured timeout.
func IsTimeout(err error) bool {
	var structured Error
	return errors.As(err, &structured) && structured.Timeout
}

// Retriable reports whether retrying the same request could succeed.
// Network and download failures are plausibly transient; a bad artifact,
// a missing asset or an unsupported platform will fail the same way again.
func Retriable(err error) bool {
	switch CodeOf(err) {
	case CodeNetwork, CodeDownload:
		return true
	default:
		return false
	}
}

var defaultReasons = map[Code]string{
	CodeNetwork:             "network error",
	CodeRegistry:            "release registry error",
	CodeUnsupportedPlatform: "platform not supported",
	CodeNotFound:            "no matching download",
	CodeDownload:            "download failed",
	CodeCorruptArchive:      "archive is corrupt",
	CodeUnsafeArchiveEntry:  "archive contains unsafe paths",
	CodeFilesystem:          "filesystem error",
	CodeCancelled:           "cancelled",
	CodeConfiguration:       "invalid configuration",
}

// Reason returns a short human-readable reason suitable for a status line.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var structured Error
	if !errors.As(err, &structured) {
		return err.Error()
	}
	if structured.Message != "" {
		return structured.Message
	}
	if reason, ok := defaultReasons[structured.Code]; ok {
		return reason
	}
	return err.Error()
}
