// SPDX-License-Identifier: MPL-2.0

package config

import "sync"

var (
	mu     sync.Mutex
	cached *Config

	// configDirOverride allows tests to override the config directory.
	// os.UserHomeDir() doesn't reliably respect the HOME environment
	// variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// configFileOverride is set from the --config flag.
	configFileOverride string
)

// Get returns the cached configuration, loading it on first use. Load
// failures fall back to defaults; callers that must surface them call Load
// directly.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()
	if cached == nil {
		cfg, err := Load()
		if err != nil {
			cfg = DefaultConfig()
		}
		cached = cfg
	}
	return cached
}

// Reset clears the cache and test overrides. Call from test cleanup.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cached = nil
	configDirOverride = ""
	configFileOverride = ""
}

// SetConfigDirOverride sets a custom config directory path. Primarily for
// tests.
func SetConfigDirOverride(dir string) {
	mu.Lock()
	defer mu.Unlock()
	cached = nil
	configDirOverride = dir
}

// SetConfigFilePathOverride sets a custom config file path (--config flag).
func SetConfigFilePathOverride(path string) {
	mu.Lock()
	defer mu.Unlock()
	cached = nil
	configFileOverride = path
}
