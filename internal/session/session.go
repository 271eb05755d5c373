// SPDX-License-Identifier: MPL-2.0

// Package session tracks the active context per interactive terminal session.
//
// The active-context pointer is a state file holding the full active Context
// JSON, keyed by a stable per-terminal session key. Two terminals with
// distinct keys never observe or overwrite each other's state. The key is
// taken from $SHELLAC_SESSION when set (shell integrations export it), and
// otherwise derived from the parent process: on Linux its pid plus its
// /proc start time, elsewhere the pid alone.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"shellac-cli/internal/store"
	"shellac-cli/pkg/ctxfile"
)

// EnvSessionKey overrides session key detection when set.
const EnvSessionKey = "SHELLAC_SESSION"

// Manager reads and writes one session's active-context state file.
type Manager struct {
	dir string
	key string
}

// New creates a manager for an explicit state directory and session key.
// Tests use this to isolate sessions; production code uses Detect.
func New(dir, key string) *Manager {
	return &Manager{dir: dir, key: key}
}

// Detect resolves the current terminal's session key and returns a manager
// over the default state directory.
func Detect() *Manager {
	return New(filepath.Join(os.TempDir(), "shellac"), detectKey())
}

func detectKey() string {
	if key := os.Getenv(EnvSessionKey); key != "" {
		return key
	}
	ppid := os.Getppid()
	if start := processStartTime(ppid); start != "" {
		return fmt.Sprintf("%d.%s", ppid, start)
	}
	return fmt.Sprintf("%d", ppid)
}

// Key returns the resolved session key.
func (m *Manager) Key() string { return m.key }

// StatePath returns the session's state file path.
func (m *Manager) StatePath() string {
	return filepath.Join(m.dir, "session-"+m.key+".json")
}

// Load returns the session's active context, or the blank base context when
// no state exists or it cannot be decoded. A missing pointer is never an
// error: it just means the session has not built anything yet.
func (m *Manager) Load() *ctxfile.Context {
	data, err := os.ReadFile(m.StatePath())
	if err != nil {
		return ctxfile.New()
	}
	var c ctxfile.Context
	if err := json.Unmarshal(data, &c); err != nil {
		return ctxfile.New()
	}
	return &c
}

// Store persists the active context as this session's state.
func (m *Manager) Store(c *ctxfile.Context) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := store.WriteFileAtomic(m.StatePath(), data, 0o600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}
