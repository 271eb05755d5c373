// SPDX-License-Identifier: MPL-2.0

package ctxfile

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// DefaultNamespace is the namespace assigned to contexts saved without an
// explicit one, and the identity of the blank base context.
const DefaultNamespace = "default"

type (
	// StepLogEntry is one line of the context's metadata log. Description is
	// the full record of what happened; Prompt is the short fragment surfaced
	// in the shell prompt (empty when the entry has no prompt form).
	StepLogEntry struct {
		Description string `json:"description"`
		Prompt      string `json:"prompt,omitempty"`
	}

	// Metadata carries the context identity and its append-only step log.
	Metadata struct {
		Namespace string         `json:"namespace"`
		Name      string         `json:"name"`
		Dirty     bool           `json:"is_dirty"`
		StepLog   []StepLogEntry `json:"step_log"`
	}

	// Context is a named, ordered sequence of Steps plus a metadata log.
	// The zero value is not usable; construct with New or decode with
	// UnmarshalJSON. Unknown top-level fields from a decoded context file
	// are retained and written back on encode.
	Context struct {
		Meta  Metadata
		Steps []Step

		extra map[string]json.RawMessage
	}
)

// New returns the blank base context: the "default" identity with zero steps.
// It is what a session starts from before any `with` operation runs.
func New() *Context {
	return &Context{
		Meta: Metadata{
			Namespace: DefaultNamespace,
			Name:      DefaultNamespace,
		},
	}
}

// Identity renders the context identity the way it is displayed: the bare
// name inside the default namespace, "namespace::name" otherwise.
func (c *Context) Identity() string {
	if c.Meta.Namespace == DefaultNamespace {
		return c.Meta.Name
	}
	return c.Meta.Namespace + "::" + c.Meta.Name
}

// Apply appends a step together with its derived log entry and marks the
// context dirty. Steps are never mutated or removed afterwards.
func (c *Context) Apply(s Step) {
	c.AppendStep(s)
	c.AppendLog(StepLogEntry{Description: s.Describe(), Prompt: s.PromptTag()})
}

// AppendStep appends a step without logging. Callers that have their own log
// entries (extension replies) pair this with AppendLog.
func (c *Context) AppendStep(s Step) {
	c.Steps = append(c.Steps, s)
	c.Meta.Dirty = true
}

// AppendLog appends entries to the step log. The log is monotonic: existing
// entries are never removed or reordered.
func (c *Context) AppendLog(entries ...StepLogEntry) {
	c.Meta.StepLog = append(c.Meta.StepLog, entries...)
	c.Meta.Dirty = true
}

// LastStepDescription returns the description of the most recently logged
// step, or "" for a blank context.
func (c *Context) LastStepDescription() string {
	if n := len(c.Meta.StepLog); n > 0 {
		return c.Meta.StepLog[n-1].Description
	}
	return ""
}

// MarshalJSON encodes the context as a single JSON object with "meta" and
// "steps" fields plus any preserved unknown top-level fields.
func (c *Context) MarshalJSON() ([]byte, error) {
	obj := make(map[string]json.RawMessage, len(c.extra)+2)
	for k, v := range c.extra {
		obj[k] = v
	}

	meta, err := json.Marshal(c.Meta)
	if err != nil {
		return nil, err
	}
	obj["meta"] = meta

	steps := make([]json.RawMessage, len(c.Steps))
	for i, s := range c.Steps {
		enc, err := encodeStep(s)
		if err != nil {
			return nil, err
		}
		steps[i] = enc
	}
	rawSteps, err := json.Marshal(steps)
	if err != nil {
		return nil, err
	}
	obj["steps"] = rawSteps

	return json.Marshal(obj)
}

// UnmarshalJSON decodes a context file, retaining unknown top-level fields.
func (c *Context) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("malformed context: %w", err)
	}

	*c = Context{}
	if raw, ok := obj["meta"]; ok {
		if err := json.Unmarshal(raw, &c.Meta); err != nil {
			return fmt.Errorf("malformed context meta: %w", err)
		}
		delete(obj, "meta")
	}
	if raw, ok := obj["steps"]; ok {
		var rawSteps []json.RawMessage
		if err := json.Unmarshal(raw, &rawSteps); err != nil {
			return fmt.Errorf("malformed context steps: %w", err)
		}
		c.Steps = make([]Step, len(rawSteps))
		for i, rs := range rawSteps {
			step, err := decodeStep(rs)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			c.Steps[i] = step
		}
		delete(obj, "steps")
	}
	if len(obj) > 0 {
		c.extra = obj
	}
	return nil
}

// SanitizePrompt strips whitespace other than plain spaces out of a prompt
// fragment so multi-line values cannot break the one-line shell prompt.
func SanitizePrompt(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) && r != ' ' {
			return -1
		}
		return r
	}, s)
}
