// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"shellac-cli/internal/config"
	"shellac-cli/internal/engine"
	"shellac-cli/internal/session"
	"shellac-cli/internal/store"
	"shellac-cli/pkg/ctxfile"
)

// newEngine wires the store, the session manager and the config into an
// engine for a single command invocation.
func newEngine() (*engine.Engine, error) {
	cfg := config.Get()

	contextsDir, err := config.ContextsDir(cfg)
	if err != nil {
		return nil, err
	}

	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	return engine.New(store.New(contextsDir), session.Detect(), cfg, logger), nil
}

// parseIdentity splits NAME or NS::NAME into its namespace and name parts.
// An explicit namespace flag wins over the inline form.
func parseIdentity(arg, namespaceFlag string) (namespace, name string) {
	namespace = namespaceFlag
	name = arg
	if ns, n, ok := strings.Cut(arg, "::"); ok {
		if namespace == "" {
			namespace = ns
		}
		name = n
	}
	if namespace == "" {
		namespace = ctxfile.DefaultNamespace
	}
	return namespace, name
}
