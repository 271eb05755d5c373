// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"shellac-cli/internal/engine"
	"shellac-cli/internal/extension"
	"shellac-cli/internal/store"
)

// Exit codes for the distinct failure classes. Child exit codes from `run`
// are propagated verbatim and take precedence over these.
const (
	exitCodeGeneric                = 1
	exitCodeContextNotFound        = 3
	exitCodeExtensionNotFound      = 4
	exitCodeExtensionFailure       = 5
	exitCodeInvalidExtensionOutput = 6
	exitCodeStoreIO                = 7
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeForError maps an error to the process exit code.
func exitCodeForError(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var child *engine.ChildExitError
	if errors.As(err, &child) {
		return child.Code
	}

	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		return exitCodeContextNotFound
	}

	var extNotFound *extension.NotFoundError
	if errors.As(err, &extNotFound) {
		return exitCodeExtensionNotFound
	}

	var extFailure *extension.FailureError
	if errors.As(err, &extFailure) {
		return exitCodeExtensionFailure
	}

	var invalidOutput *extension.InvalidOutputError
	if errors.As(err, &invalidOutput) {
		return exitCodeInvalidExtensionOutput
	}

	var ioErr *store.IOError
	if errors.As(err, &ioErr) {
		return exitCodeStoreIO
	}

	return exitCodeGeneric
}
