// SPDX-License-Identifier: MPL-2.0

package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"shellac-cli/pkg/ctxfile"
)

func testContext(namespace, name string) *ctxfile.Context {
	c := ctxfile.New()
	c.Meta.Namespace = namespace
	c.Meta.Name = name
	c.Apply(ctxfile.EnvStep{Key: "FOO", Value: "bar"})
	c.Apply(ctxfile.WorkdirStep{Path: "/tmp"})
	c.Meta.Dirty = false
	return c
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := New(t.TempDir())
	want := testContext("proj", "demo")

	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("proj", "demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got.Meta, want.Meta) {
		t.Errorf("Meta mismatch:\n got %+v\nwant %+v", got.Meta, want.Meta)
	}
	if !reflect.DeepEqual(got.Steps, want.Steps) {
		t.Errorf("Steps mismatch:\n got %#v\nwant %#v", got.Steps, want.Steps)
	}
}

func TestLoad_NotFound(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Load("default", "missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Load error = %v, want *NotFoundError", err)
	}
	if nf.Namespace != "default" || nf.Name != "missing" {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestSave_OverwritesExisting(t *testing.T) {
	s := New(t.TempDir())

	first := testContext("default", "demo")
	if err := s.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := testContext("default", "demo")
	second.Apply(ctxfile.CommandStep{Text: "make"})
	if err := s.Save(second); err != nil {
		t.Fatalf("Save (overwrite): %v", err)
	}

	got, err := s.Load("default", "demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Steps) != len(second.Steps) {
		t.Errorf("Steps = %d, want %d (overwrite must replace)", len(got.Steps), len(second.Steps))
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := s.Save(testContext("default", "demo")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "default"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "demo.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("store dir contents = %v, want [demo.json]", names)
	}
}

func TestList(t *testing.T) {
	s := New(t.TempDir())
	for _, ref := range []Ref{
		{"default", "b"}, {"default", "a"}, {"proj", "demo"},
	} {
		if err := s.Save(testContext(ref.Namespace, ref.Name)); err != nil {
			t.Fatalf("Save %v: %v", ref, err)
		}
	}

	got, err := s.List("default")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Ref{{"default", "a"}, {"default", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List(default) = %v, want %v", got, want)
	}

	all, err := s.List("")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	wantAll := []Ref{{"default", "a"}, {"default", "b"}, {"proj", "demo"}}
	if !reflect.DeepEqual(all, wantAll) {
		t.Errorf("List(\"\") = %v, want %v", all, wantAll)
	}
}

func TestList_EmptyStore(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist-yet"))

	refs, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("List = %v, want empty", refs)
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"demo", "my-context", "a.b", "x_1"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "  ", "a/b", `a\b`}
	for _, name := range invalid {
		if err := ValidateName(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestSave_InvalidIdentity(t *testing.T) {
	s := New(t.TempDir())
	c := testContext("default", "nested/name")

	if err := s.Save(c); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Save = %v, want ErrInvalidName", err)
	}
}
