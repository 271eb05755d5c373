// SPDX-License-Identifier: MPL-2.0

// Package store persists contexts, one JSON file per (namespace, name).
//
// Files live under <root>/<namespace>/<name>.json. Save publishes atomically
// (temp file in the target directory, then rename), so a concurrent reader
// never observes a partially written record.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shellac-cli/pkg/ctxfile"
)

// ErrInvalidName is the sentinel error wrapped when a namespace or context
// name cannot be used as a store key.
var ErrInvalidName = errors.New("invalid context name")

type (
	// Ref identifies a persisted context.
	Ref struct {
		Namespace string
		Name      string
	}

	// Store is a filesystem-backed context store rooted at a single directory.
	Store struct {
		root string
	}

	// NotFoundError is returned by Load when no record exists for the key.
	// Callers resolving a user-named context surface it; callers resolving
	// session state treat it as "blank context".
	NotFoundError struct {
		Namespace string
		Name      string
	}

	// IOError wraps filesystem failures during load/save/list.
	IOError struct {
		Op   string
		Path string
		Err  error
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("context %s::%s not found", e.Namespace, e.Name)
}

func (e *IOError) Error() string {
	return fmt.Sprintf("context store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// ValidateName checks that a namespace or context name is usable as a store
// key: non-empty and free of path separators.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidName, name)
	}
	return nil
}

func (s *Store) path(namespace, name string) string {
	return filepath.Join(s.root, namespace, name+".json")
}

// Load reads the context stored under (namespace, name). A missing record
// yields *NotFoundError; any other failure yields *IOError.
func (s *Store) Load(namespace, name string) (*ctxfile.Context, error) {
	if err := ValidateName(namespace); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	path := s.path(namespace, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Namespace: namespace, Name: name}
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	var c ctxfile.Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &IOError{Op: "decode", Path: path, Err: err}
	}
	return &c, nil
}

// Save persists the context under its (namespace, name) identity, overwriting
// any existing record at that key. The publish is atomic.
func (s *Store) Save(c *ctxfile.Context) error {
	if err := ValidateName(c.Meta.Namespace); err != nil {
		return err
	}
	if err := ValidateName(c.Meta.Name); err != nil {
		return err
	}

	data, err := json.Marshal(c)
	if err != nil {
		return &IOError{Op: "encode", Path: s.path(c.Meta.Namespace, c.Meta.Name), Err: err}
	}

	path := s.path(c.Meta.Namespace, c.Meta.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// List returns the refs of all persisted contexts in namespace, sorted by
// name. An empty namespace lists every namespace, sorted by (namespace, name).
// A store root or namespace directory that does not exist yet lists empty.
func (s *Store) List(namespace string) ([]Ref, error) {
	namespaces := []string{namespace}
	if namespace == "" {
		entries, err := os.ReadDir(s.root)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil
			}
			return nil, &IOError{Op: "list", Path: s.root, Err: err}
		}
		namespaces = namespaces[:0]
		for _, e := range entries {
			if e.IsDir() {
				namespaces = append(namespaces, e.Name())
			}
		}
	}

	var refs []Ref
	for _, ns := range namespaces {
		dir := filepath.Join(s.root, ns)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, &IOError{Op: "list", Path: dir, Err: err}
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			refs = append(refs, Ref{Namespace: ns, Name: strings.TrimSuffix(e.Name(), ".json")})
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Namespace != refs[j].Namespace {
			return refs[i].Namespace < refs[j].Namespace
		}
		return refs[i].Name < refs[j].Name
	})
	return refs, nil
}

// WriteFileAtomic writes data to path through a temp file in the same
// directory followed by a rename, so readers see either the old or the new
// content, never a partial write.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
