// Package errors defines the stable error code system for scriptvault.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

// Error codes. These are part of the CLI's public contract: scripts
// parsing stderr can rely on them not changing.
const (
	EUsage Code = "E_USAGE"

	// Catalog resolution
	ENotFound           Code = "E_NOT_FOUND"
	EAmbiguousReference Code = "E_AMBIGUOUS_REFERENCE"

	// Durability
	EPersistenceFailure Code = "E_PERSISTENCE_FAILURE"
	ECatalogCorrupt     Code = "E_CATALOG_CORRUPT"
	EVaultLocked        Code = "E_VAULT_LOCKED"

	// Execution
	ELaunchFailure Code = "E_LAUNCH_FAILURE"

	// Configuration
	EConfigInvalid Code = "E_CONFIG_INVALID"
)

// VaultError is the standard error type for scriptvault errors.
type VaultError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *VaultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *VaultError) Unwrap() error {
	return e.Cause
}

// New creates a new VaultError with the given code and message.
func New(code Code, msg string) error {
	return &VaultError{Code: code, Msg: msg}
}

// Newf creates a new VaultError with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &VaultError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// NewWithDetails creates a new VaultError with code, message, and details.
// The details map is defensively copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &VaultError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new VaultError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &VaultError{Code: code, Msg: msg, Cause: err}
}

// GetCode extracts the error code from an error, or empty string if
// err is not a VaultError.
func GetCode(err error) Code {
	var ve *VaultError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// IsCode reports whether err is a VaultError carrying the given code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// AsVaultError returns (*VaultError, true) if err is or wraps a VaultError.
func AsVaultError(err error) (*VaultError, bool) {
	var ve *VaultError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// copyDetails returns a defensive copy of the details map, or nil if empty.
func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the process exit code for an error.
// E_USAGE maps to 2, everything else non-nil to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ve *VaultError
	if errors.As(err, &ve) {
		_, _ = fmt.Fprintf(w, "error_code: %s\n", ve.Code)
		_, _ = fmt.Fprintln(w, ve.Msg)
		for k, v := range ve.Details {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", k, v)
		}
	} else {
		_, _ = fmt.Fprintln(w, err.Error())
	}
}
