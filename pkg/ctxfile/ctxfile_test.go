// SPDX-License-Identifier: MPL-2.0

package ctxfile

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNew_BlankBaseContext(t *testing.T) {
	c := New()

	if c.Meta.Namespace != DefaultNamespace {
		t.Errorf("Namespace = %q, want %q", c.Meta.Namespace, DefaultNamespace)
	}
	if c.Meta.Name != DefaultNamespace {
		t.Errorf("Name = %q, want %q", c.Meta.Name, DefaultNamespace)
	}
	if len(c.Steps) != 0 {
		t.Errorf("Steps = %d, want 0", len(c.Steps))
	}
	if c.Meta.Dirty {
		t.Error("blank context must not be dirty")
	}
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		namespace string
		name      string
		want      string
	}{
		{"default", "demo", "demo"},
		{"proj", "demo", "proj::demo"},
		{"default", "default", "default"},
	}

	for _, tt := range tests {
		c := &Context{Meta: Metadata{Namespace: tt.namespace, Name: tt.name}}
		if got := c.Identity(); got != tt.want {
			t.Errorf("Identity(%q, %q) = %q, want %q", tt.namespace, tt.name, got, tt.want)
		}
	}
}

func TestApply_AppendsStepAndLog(t *testing.T) {
	c := New()
	c.Apply(EnvStep{Key: "FOO", Value: "bar"})

	if len(c.Steps) != 1 {
		t.Fatalf("Steps = %d, want 1", len(c.Steps))
	}
	if len(c.Meta.StepLog) != 1 {
		t.Fatalf("StepLog = %d, want 1", len(c.Meta.StepLog))
	}
	if !c.Meta.Dirty {
		t.Error("Apply must mark the context dirty")
	}
	if got, want := c.Meta.StepLog[0].Description, `core::with_env "FOO"="bar"`; got != want {
		t.Errorf("log description = %q, want %q", got, want)
	}
	if got, want := c.Meta.StepLog[0].Prompt, "env(FOO)"; got != want {
		t.Errorf("log prompt = %q, want %q", got, want)
	}
}

func TestAppendLog_Monotonic(t *testing.T) {
	c := New()
	c.Apply(CommandStep{Text: "make"})
	before := append([]StepLogEntry(nil), c.Meta.StepLog...)

	c.AppendLog(StepLogEntry{Description: "ext step one"}, StepLogEntry{Description: "ext step two"})

	if len(c.Meta.StepLog) != len(before)+2 {
		t.Fatalf("StepLog = %d entries, want %d", len(c.Meta.StepLog), len(before)+2)
	}
	for i, e := range before {
		if c.Meta.StepLog[i] != e {
			t.Errorf("existing entry %d changed: got %+v, want %+v", i, c.Meta.StepLog[i], e)
		}
	}
}

func TestLastStepDescription(t *testing.T) {
	c := New()
	if got := c.LastStepDescription(); got != "" {
		t.Errorf("blank context LastStepDescription = %q, want empty", got)
	}

	c.Apply(WorkdirStep{Path: "/tmp"})
	c.Apply(ContainerStep{Image: "ubuntu:18.04"})
	if got, want := c.LastStepDescription(), `core::with_docker "ubuntu:18.04"`; got != want {
		t.Errorf("LastStepDescription = %q, want %q", got, want)
	}
}

func TestRoundTrip_AllStepKinds(t *testing.T) {
	c := New()
	c.Apply(CommandStep{Text: "make test"})
	c.Apply(EnvStep{Key: "FOO", Value: "bar baz"})
	c.Apply(WorkdirStep{Path: "/tmp/work"})
	c.Apply(PathStep{Dir: "/opt/go/bin"})
	c.Apply(ContainerStep{Image: "ubuntu:18.04"})
	c.AppendStep(ExtensionStep{Source: "my-ext", Payload: json.RawMessage(`{"meta":{"step_log":[]},"x":1}`)})
	c.AppendLog(StepLogEntry{Description: "ext did a thing", Prompt: "thing"})

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Context
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !reflect.DeepEqual(got.Meta, c.Meta) {
		t.Errorf("Meta round-trip mismatch:\n got %+v\nwant %+v", got.Meta, c.Meta)
	}
	if len(got.Steps) != len(c.Steps) {
		t.Fatalf("Steps = %d, want %d", len(got.Steps), len(c.Steps))
	}
	for i := range c.Steps {
		if !reflect.DeepEqual(got.Steps[i], c.Steps[i]) {
			t.Errorf("step %d round-trip mismatch:\n got %#v\nwant %#v", i, got.Steps[i], c.Steps[i])
		}
	}
}

func TestRoundTrip_PreservesUnknownTopLevelFields(t *testing.T) {
	in := `{
		"meta": {"namespace": "default", "name": "demo", "is_dirty": false, "step_log": []},
		"steps": [{"kind": "env", "key": "A", "value": "1"}],
		"vendor_data": {"nested": [1, 2, 3]},
		"note": "hello"
	}`

	var c Context
	if err := json.Unmarshal([]byte(in), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	out, err := json.Marshal(&c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(out, &obj); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if string(obj["note"]) != `"hello"` {
		t.Errorf("note = %s, want %q preserved", obj["note"], "hello")
	}
	var vendor struct {
		Nested []int `json:"nested"`
	}
	if err := json.Unmarshal(obj["vendor_data"], &vendor); err != nil {
		t.Fatalf("vendor_data: %v", err)
	}
	if !reflect.DeepEqual(vendor.Nested, []int{1, 2, 3}) {
		t.Errorf("vendor_data.nested = %v, want [1 2 3]", vendor.Nested)
	}
}

func TestRoundTrip_PreservesUnknownStepKind(t *testing.T) {
	in := `{"meta":{"namespace":"default","name":"d","is_dirty":false,"step_log":[]},` +
		`"steps":[{"kind":"teleport","destination":"mars"}]}`

	var c Context
	if err := json.Unmarshal([]byte(in), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	unknown, ok := c.Steps[0].(UnknownStep)
	if !ok {
		t.Fatalf("step type = %T, want UnknownStep", c.Steps[0])
	}
	if unknown.Kind() != "teleport" {
		t.Errorf("Kind = %q, want %q", unknown.Kind(), "teleport")
	}

	out, err := json.Marshal(&c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var again Context
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	got, ok := again.Steps[0].(UnknownStep)
	if !ok {
		t.Fatalf("re-decoded step type = %T, want UnknownStep", again.Steps[0])
	}
	var rec map[string]any
	if err := json.Unmarshal(got.Raw, &rec); err != nil {
		t.Fatalf("raw record: %v", err)
	}
	if rec["destination"] != "mars" {
		t.Errorf("destination = %v, want mars", rec["destination"])
	}
}

func TestPromptTags(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{CommandStep{Text: "make -j4 all"}, "exec(make)"},
		{EnvStep{Key: "FOO", Value: "bar"}, "env(FOO)"},
		{WorkdirStep{Path: "/home/user/project"}, "wd(..project)"},
		{PathStep{Dir: "/opt/toolchains/gcc-12/bin"}, "toolchain(gcc-12)"},
		{PathStep{Dir: "/usr/local/scripts"}, "path(scripts)"},
		{ContainerStep{Image: "alpine"}, `ctr("alpine")`},
		{ExtensionStep{Source: "/opt/ext/prog"}, "ext(prog)"},
	}

	for _, tt := range tests {
		if got := tt.step.PromptTag(); got != tt.want {
			t.Errorf("%T.PromptTag() = %q, want %q", tt.step, got, tt.want)
		}
	}
}

func TestExtensionDirective(t *testing.T) {
	scope := ExtensionStep{Payload: json.RawMessage(`{"meta":{"step_log":[]},"step":{"mode":"scope","script":"eval $(ssh-agent)"}}`)}
	d, ok := scope.Directive()
	if !ok {
		t.Fatal("Directive() ok = false, want true")
	}
	if d.Mode != "scope" || d.Script != "eval $(ssh-agent)" {
		t.Errorf("Directive = %+v", d)
	}

	plain := ExtensionStep{Payload: json.RawMessage(`{"meta":{"step_log":[]}}`)}
	if _, ok := plain.Directive(); ok {
		t.Error("metadata-only payload must have no directive")
	}
}

func TestSanitizePrompt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"line\nbreak", "linebreak"},
		{"tab\there", "tabhere"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizePrompt(tt.in); got != tt.want {
			t.Errorf("SanitizePrompt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
