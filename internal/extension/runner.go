// SPDX-License-Identifier: MPL-2.0

// Package extension runs third-party context-builder programs over a fixed
// subprocess protocol.
//
// The active context is serialized to JSON and handed to the program either
// through a temp file (any argument equal to "{}" is replaced by its path) or
// on stdin when no placeholder argument is present. The program must exit 0
// and print exactly one JSON object on stdout containing at least a
// meta.step_log array; every other top-level field is opaque to the engine
// and preserved verbatim for save/load round-trips. stderr is streamed
// through to the user.
//
// Extensions are message passing over a process boundary, not loaded code:
// a failing extension can never corrupt the active context.
package extension

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"

	"shellac-cli/pkg/ctxfile"
)

// PathPlaceholder is the argument token replaced by the context temp-file
// path. Its presence selects file delivery over stdin delivery.
const PathPlaceholder = "{}"

type (
	// Reply is a parsed extension response.
	Reply struct {
		// StepLog is the required meta.step_log of the response.
		StepLog []ctxfile.StepLogEntry
		// Payload is the full response object, compacted, preserved verbatim.
		Payload json.RawMessage
	}

	// NotFoundError reports that the extension program is missing or not
	// executable.
	NotFoundError struct {
		Program string
		Err     error
	}

	// FailureError reports a nonzero extension exit status.
	FailureError struct {
		Program  string
		ExitCode int
	}

	// InvalidOutputError reports a response that is not the required JSON shape.
	InvalidOutputError struct {
		Program string
		Reason  string
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("extension %q not found: %v", e.Program, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *FailureError) Error() string {
	return fmt.Sprintf("extension %q failed with exit status %d", e.Program, e.ExitCode)
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("extension %q produced invalid output: %s", e.Program, e.Reason)
}

// Run invokes program with args against the active context and parses its
// reply. The active context is never modified here; appending the resulting
// step is the caller's transition, taken only on success.
func Run(ctx context.Context, active *ctxfile.Context, program string, args []string, stderr io.Writer) (*Reply, error) {
	input, err := json.Marshal(active)
	if err != nil {
		return nil, fmt.Errorf("encode context for extension: %w", err)
	}

	path, err := exec.LookPath(program)
	if err != nil {
		return nil, &NotFoundError{Program: program, Err: err}
	}

	args = slices.Clone(args)
	var stdin io.Reader
	if i := slices.Index(args, PathPlaceholder); i >= 0 {
		tmp, err := os.CreateTemp("", "shellac-ctx-*.json")
		if err != nil {
			return nil, fmt.Errorf("create context temp file: %w", err)
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(input); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("write context temp file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return nil, fmt.Errorf("close context temp file: %w", err)
		}
		for ; i >= 0; i = slices.Index(args, PathPlaceholder) {
			args[i] = tmp.Name()
		}
	} else {
		stdin = bytes.NewReader(input)
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &FailureError{Program: program, ExitCode: exitErr.ExitCode()}
		}
		return nil, &NotFoundError{Program: program, Err: err}
	}

	return parseReply(program, stdout.Bytes())
}

func parseReply(program string, out []byte) (*Reply, error) {
	dec := json.NewDecoder(bytes.NewReader(out))
	var shape struct {
		Meta *struct {
			StepLog []ctxfile.StepLogEntry `json:"step_log"`
		} `json:"meta"`
	}
	if err := dec.Decode(&shape); err != nil {
		return nil, &InvalidOutputError{Program: program, Reason: err.Error()}
	}
	if dec.More() {
		return nil, &InvalidOutputError{Program: program, Reason: "more than one JSON value on stdout"}
	}
	if shape.Meta == nil || shape.Meta.StepLog == nil {
		return nil, &InvalidOutputError{Program: program, Reason: "missing required meta.step_log array"}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, bytes.TrimSpace(out)); err != nil {
		return nil, &InvalidOutputError{Program: program, Reason: err.Error()}
	}

	return &Reply{
		StepLog: shape.Meta.StepLog,
		Payload: json.RawMessage(compact.Bytes()),
	}, nil
}
