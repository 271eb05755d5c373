// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"shellac-cli/pkg/ctxfile"
)

// writeScript writes an executable shell script and returns its path.
func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("extension tests use POSIX shell scripts")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRun_StdinDelivery(t *testing.T) {
	// The script proves it received the context by echoing a field back.
	script := writeScript(t, "ext", `
input=$(cat)
case "$input" in
  *'"name":"demo"'*) desc="saw demo" ;;
  *) desc="no context" ;;
esac
printf '{"meta":{"step_log":[{"description":"%s","prompt":"ext"}]}}' "$desc"
`)

	active := ctxfile.New()
	active.Meta.Name = "demo"

	reply, err := Run(context.Background(), active, script, nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(reply.StepLog) != 1 || reply.StepLog[0].Description != "saw demo" {
		t.Errorf("StepLog = %+v, want the script to have seen the context on stdin", reply.StepLog)
	}
}

func TestRun_FileDelivery(t *testing.T) {
	script := writeScript(t, "ext", `
if grep -q '"name":"demo"' "$1"; then desc="saw demo"; else desc="no context"; fi
printf '{"meta":{"step_log":[{"description":"%s"}]}}' "$desc"
`)

	active := ctxfile.New()
	active.Meta.Name = "demo"

	reply, err := Run(context.Background(), active, script, []string{"{}"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(reply.StepLog) != 1 || reply.StepLog[0].Description != "saw demo" {
		t.Errorf("StepLog = %+v, want the script to have read the context file", reply.StepLog)
	}
}

func TestRun_PreservesOpaqueFields(t *testing.T) {
	script := writeScript(t, "ext", `
printf '{"meta":{"step_log":[]},"vendor":{"token":42},"step":{"mode":"scope","script":"true"}}'
`)

	reply, err := Run(context.Background(), ctxfile.New(), script, nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	payload := string(reply.Payload)
	if !strings.Contains(payload, `"vendor":{"token":42}`) {
		t.Errorf("Payload = %s, want vendor field preserved verbatim", payload)
	}

	step := ctxfile.ExtensionStep{Source: script, Payload: reply.Payload}
	d, ok := step.Directive()
	if !ok || d.Mode != "scope" {
		t.Errorf("Directive = %+v ok=%v, want scope directive", d, ok)
	}
}

func TestRun_NonzeroExitIsFailure(t *testing.T) {
	script := writeScript(t, "ext", `exit 3`)

	_, err := Run(context.Background(), ctxfile.New(), script, nil, &bytes.Buffer{})
	var fe *FailureError
	if !errors.As(err, &fe) {
		t.Fatalf("Run error = %v, want *FailureError", err)
	}
	if fe.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", fe.ExitCode)
	}
}

func TestRun_ProgramNotFound(t *testing.T) {
	_, err := Run(context.Background(), ctxfile.New(), "definitely-not-a-real-program-xyz", nil, &bytes.Buffer{})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Run error = %v, want *NotFoundError", err)
	}
}

func TestRun_InvalidOutput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `echo this is not json`},
		{"missing step_log", `printf '{"meta":{}}'`},
		{"missing meta", `printf '{"other":1}'`},
		{"two objects", `printf '{"meta":{"step_log":[]}}{"meta":{"step_log":[]}}'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := writeScript(t, "ext", tt.body)
			_, err := Run(context.Background(), ctxfile.New(), script, nil, &bytes.Buffer{})
			var ie *InvalidOutputError
			if !errors.As(err, &ie) {
				t.Errorf("Run error = %v, want *InvalidOutputError", err)
			}
		})
	}
}

func TestRun_StderrStreamsThrough(t *testing.T) {
	script := writeScript(t, "ext", `
echo "progress update" >&2
printf '{"meta":{"step_log":[]}}'
`)

	var stderr bytes.Buffer
	if _, err := Run(context.Background(), ctxfile.New(), script, nil, &stderr); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(stderr.String(), "progress update") {
		t.Errorf("stderr = %q, want extension stderr forwarded", stderr.String())
	}
}
