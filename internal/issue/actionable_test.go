// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewErrorContext().
		WithOperation("load context").
		WithResource("proj::demo").
		Wrap(cause).
		Build()

	want := "failed to load context: proj::demo: permission denied"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	cause := errors.New("no such file")
	err := NewErrorContext().
		WithOperation("read state").
		Wrap(cause).
		BuildError()

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
}

func TestBuildRequiresOperation(t *testing.T) {
	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() without operation = %v, want nil", got)
	}
	if got := NewErrorContext().BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestFormatIncludesSuggestions(t *testing.T) {
	err := NewErrorContext().
		WithOperation("run extension").
		WithResource("wire-up-agent").
		WithSuggestion("check that the program is on PATH").
		WithSuggestion("re-run with --verbose").
		Build()

	out := err.Format(false)
	if !strings.Contains(out, "• check that the program is on PATH") {
		t.Errorf("Format() missing first suggestion: %q", out)
	}
	if !strings.Contains(out, "• re-run with --verbose") {
		t.Errorf("Format() missing second suggestion: %q", out)
	}
}

func TestFormatVerboseShowsChain(t *testing.T) {
	inner := errors.New("disk full")
	middle := NewErrorContext().
		WithOperation("write context file").
		Wrap(inner).
		Build()
	outer := NewErrorContext().
		WithOperation("save context").
		WithResource("demo").
		Wrap(middle).
		Build()

	out := outer.Format(true)
	if !strings.Contains(out, "Error chain:") {
		t.Errorf("Format(true) missing error chain: %q", out)
	}
	if !strings.Contains(out, "disk full") {
		t.Errorf("Format(true) missing root cause: %q", out)
	}

	plain := outer.Format(false)
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("Format(false) should not include the chain: %q", plain)
	}
}

func TestWrapWithOperation(t *testing.T) {
	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", got)
	}

	cause := errors.New("boom")
	err := WrapWithOperation(cause, "compose plan")
	if want := "failed to compose plan: boom"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIssueRegistry(t *testing.T) {
	ids := Values()
	if len(ids) == 0 {
		t.Fatalf("Values() returned no issue ids")
	}
	if !slicesContains(ids, ContextNotFoundId) {
		t.Errorf("Values() missing %q", ContextNotFoundId)
	}

	card, err := Get(ExtensionFailureId)
	if err != nil {
		t.Fatalf("Get(%q) error: %v", ExtensionFailureId, err)
	}
	if !strings.Contains(card, "non-zero") {
		t.Errorf("card for %q missing expected text: %q", ExtensionFailureId, card)
	}

	if _, err := Get(Id("no-such-issue")); err == nil {
		t.Errorf("Get(unknown) error = nil, want error")
	}
}

func slicesContains(ids []Id, want Id) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
