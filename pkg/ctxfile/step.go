// SPDX-License-Identifier: MPL-2.0

package ctxfile

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies a step variant in the persisted format.
type Kind string

const (
	// KindCommand is a command executed before the composed invocation.
	KindCommand Kind = "command"
	// KindEnv is an environment binding scoped to everything nested inside it.
	KindEnv Kind = "env"
	// KindWorkdir is a working-directory scope.
	KindWorkdir Kind = "workdir"
	// KindPath appends a directory to PATH for everything nested inside it.
	KindPath Kind = "path"
	// KindContainer wraps everything nested inside it in a container run.
	KindContainer Kind = "container"
	// KindExtension is an opaque step produced by an external program.
	KindExtension Kind = "extension"
)

type (
	// Step is one atomic context modifier. It is a sealed interface: the set
	// of variants is closed so the composer can dispatch exhaustively.
	Step interface {
		// Kind returns the variant discriminator used in the persisted format.
		Kind() Kind
		// Describe returns the step-log description for this step.
		Describe() string
		// PromptTag returns the short fragment shown in the shell prompt.
		PromptTag() string

		isStep()
	}

	// CommandStep runs a command before the composed invocation.
	CommandStep struct {
		Text string
	}

	// EnvStep exports an environment variable for everything nested inside it.
	EnvStep struct {
		Key   string
		Value string
	}

	// WorkdirStep changes the working directory for everything nested inside it.
	WorkdirStep struct {
		Path string
	}

	// PathStep appends a directory to PATH for everything nested inside it.
	PathStep struct {
		Dir string
	}

	// ContainerStep wraps everything nested inside it in a container run.
	ContainerStep struct {
		Image string
	}

	// ExtensionStep carries the opaque reply of an extension program. Payload
	// is the program's full JSON reply, preserved verbatim for round-trips.
	ExtensionStep struct {
		Source  string
		Payload json.RawMessage
	}

	// UnknownStep preserves a step record whose kind this build does not
	// recognize. It round-trips byte-for-byte and is skipped by the composer.
	UnknownStep struct {
		RawKind Kind
		Raw     json.RawMessage
	}
)

func (CommandStep) isStep()   {}
func (EnvStep) isStep()       {}
func (WorkdirStep) isStep()   {}
func (PathStep) isStep()      {}
func (ContainerStep) isStep() {}
func (ExtensionStep) isStep() {}
func (UnknownStep) isStep()   {}

func (CommandStep) Kind() Kind   { return KindCommand }
func (EnvStep) Kind() Kind       { return KindEnv }
func (WorkdirStep) Kind() Kind   { return KindWorkdir }
func (PathStep) Kind() Kind      { return KindPath }
func (ContainerStep) Kind() Kind { return KindContainer }
func (ExtensionStep) Kind() Kind { return KindExtension }
func (s UnknownStep) Kind() Kind { return s.RawKind }

func (s CommandStep) Describe() string {
	return fmt.Sprintf("core::with_command %q", s.Text)
}

// PromptTag shows only the first word of the command, e.g. exec(make).
func (s CommandStep) PromptTag() string {
	first, _, _ := strings.Cut(strings.TrimSpace(s.Text), " ")
	return fmt.Sprintf("exec(%s)", first)
}

func (s EnvStep) Describe() string {
	return fmt.Sprintf("core::with_env %q=%q", s.Key, s.Value)
}

func (s EnvStep) PromptTag() string {
	return fmt.Sprintf("env(%s)", s.Key)
}

func (s WorkdirStep) Describe() string {
	return fmt.Sprintf("core::with_workdir %q", s.Path)
}

func (s WorkdirStep) PromptTag() string {
	return fmt.Sprintf("wd(..%s)", filepath.Base(s.Path))
}

func (s PathStep) Describe() string {
	return fmt.Sprintf("core::with_path %q", s.Dir)
}

// PromptTag renders toolchain(<parent>) when the directory is a bin dir,
// since PATH entries like ~/go/1.22/bin are better identified by the
// toolchain they belong to than by the literal "bin".
func (s PathStep) PromptTag() string {
	base := filepath.Base(s.Dir)
	if base == "bin" {
		if parent := filepath.Base(filepath.Dir(s.Dir)); parent != "" && parent != "." {
			return fmt.Sprintf("toolchain(%s)", parent)
		}
	}
	return fmt.Sprintf("path(%s)", base)
}

func (s ContainerStep) Describe() string {
	return fmt.Sprintf("core::with_docker %q", s.Image)
}

func (s ContainerStep) PromptTag() string {
	return fmt.Sprintf("ctr(%q)", s.Image)
}

func (s ExtensionStep) Describe() string {
	return fmt.Sprintf("ext::%s", s.Source)
}

func (s ExtensionStep) PromptTag() string {
	return fmt.Sprintf("ext(%s)", filepath.Base(s.Source))
}

func (s UnknownStep) Describe() string {
	return fmt.Sprintf("unknown step kind %q", string(s.RawKind))
}

func (s UnknownStep) PromptTag() string {
	return fmt.Sprintf("?(%s)", string(s.RawKind))
}

// ExtensionDirective is the optional "step" object an extension reply may
// declare to participate in composition. Mode is "prefix" (emitted as a
// sequential statement) or "scope" (opens a nested scope around everything
// declared after it). Script is a POSIX sh fragment.
type ExtensionDirective struct {
	Mode   string `json:"mode"`
	Script string `json:"script"`
}

// Directive extracts the composition directive from the extension payload.
// The second return is false when the payload declares no "step" object,
// in which case the extension is metadata-only and contributes nothing to
// the composed plan.
func (s ExtensionStep) Directive() (ExtensionDirective, bool) {
	var envelope struct {
		Step *ExtensionDirective `json:"step"`
	}
	if err := json.Unmarshal(s.Payload, &envelope); err != nil || envelope.Step == nil {
		return ExtensionDirective{}, false
	}
	return *envelope.Step, true
}

// stepRecord is the flat persisted representation of a Step. The kind field
// discriminates; all other fields are per-kind and omitted when empty.
type stepRecord struct {
	Kind    Kind            `json:"kind"`
	Text    string          `json:"text,omitempty"`
	Key     string          `json:"key,omitempty"`
	Value   string          `json:"value,omitempty"`
	Path    string          `json:"path,omitempty"`
	Dir     string          `json:"dir,omitempty"`
	Image   string          `json:"image,omitempty"`
	Source  string          `json:"source,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func encodeStep(s Step) (json.RawMessage, error) {
	var rec stepRecord
	switch st := s.(type) {
	case CommandStep:
		rec = stepRecord{Kind: KindCommand, Text: st.Text}
	case EnvStep:
		rec = stepRecord{Kind: KindEnv, Key: st.Key, Value: st.Value}
	case WorkdirStep:
		rec = stepRecord{Kind: KindWorkdir, Path: st.Path}
	case PathStep:
		rec = stepRecord{Kind: KindPath, Dir: st.Dir}
	case ContainerStep:
		rec = stepRecord{Kind: KindContainer, Image: st.Image}
	case ExtensionStep:
		rec = stepRecord{Kind: KindExtension, Source: st.Source, Payload: st.Payload}
	case UnknownStep:
		// Preserve the original record untouched.
		return st.Raw, nil
	default:
		return nil, fmt.Errorf("cannot encode step of type %T", s)
	}
	return json.Marshal(rec)
}

func decodeStep(raw json.RawMessage) (Step, error) {
	var rec stepRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("malformed step record: %w", err)
	}
	switch rec.Kind {
	case KindCommand:
		return CommandStep{Text: rec.Text}, nil
	case KindEnv:
		return EnvStep{Key: rec.Key, Value: rec.Value}, nil
	case KindWorkdir:
		return WorkdirStep{Path: rec.Path}, nil
	case KindPath:
		return PathStep{Dir: rec.Dir}, nil
	case KindContainer:
		return ContainerStep{Image: rec.Image}, nil
	case KindExtension:
		return ExtensionStep{Source: rec.Source, Payload: rec.Payload}, nil
	default:
		return UnknownStep{RawKind: rec.Kind, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}
