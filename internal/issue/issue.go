// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies a known issue with a dedicated troubleshooting card.
type Id string

const (
	ContextNotFoundId        Id = "context-not-found"
	ExtensionNotFoundId      Id = "extension-not-found"
	ExtensionFailureId       Id = "extension-failure"
	InvalidExtensionOutputId Id = "invalid-extension-output"
	StoreIOId                Id = "store-io-error"
	ShellNotFoundId          Id = "shell-not-found"
	ConfigLoadFailedId       Id = "config-load-failed"
)

// cards maps each issue to a short markdown troubleshooting note rendered
// by `shellac issue <id>`.
var cards = map[Id]string{
	ContextNotFoundId: `# Context not found

A named context could not be located in the store.

## Likely causes

* The context was never saved, or was saved under a different namespace.
* The configured store directory points somewhere else than expected.

## What to try

* List what the store actually contains: ` + "`ls $(shellac config path)/../contexts`" + `
* Save the current session under the name you meant to load:
  ` + "`shellac save NAME --namespace NS`" + `
`,
	ExtensionNotFoundId: `# Extension not found

The extension program could not be resolved on PATH.

## What to try

* Check the spelling of the program name.
* Confirm the program is installed and executable: ` + "`command -v PROGRAM`" + `
* If it lives outside PATH, invoke it with an absolute path.
`,
	ExtensionFailureId: `# Extension failure

The extension program ran but exited with a non-zero status. Its stderr
output was passed through above; the active context was left unchanged.

## What to try

* Read the extension's own error output for the real cause.
* Re-run with ` + "`--verbose`" + ` to see the exact invocation.
`,
	InvalidExtensionOutputId: `# Invalid extension output

The extension exited successfully but its stdout was not a single JSON
object with a ` + "`meta.step_log`" + ` field. The active context was left
unchanged.

## What to try

* Make sure the extension writes exactly one JSON object to stdout and
  keeps any diagnostics on stderr.
* The reply must carry ` + "`meta.step_log`" + ` even when empty.
`,
	StoreIOId: `# Store I/O error

Reading or writing a context file failed at the filesystem level.

## What to try

* Check permissions on the store directory: ` + "`shellac config show`" + `
* Check free disk space.
* If a context file was corrupted by an outside edit, delete it and
  save again.
`,
	ShellNotFoundId: `# Shell not found

No usable shell was found to execute the composed command.

## What to try

* Set ` + "`shell`" + ` in the config file to an absolute path.
* Make sure ` + "`$SHELL`" + ` points at an installed shell.
`,
	ConfigLoadFailedId: `# Config load failed

The configuration file exists but could not be parsed or failed schema
validation.

## What to try

* Show the resolved path: ` + "`shellac config path`" + `
* Regenerate a known-good file: ` + "`shellac config init`" + `
* Only the documented keys are accepted; typos are rejected by the
  schema rather than silently ignored.
`,
}

// Values returns every known issue id in stable order.
func Values() []Id {
	ids := slices.Collect(maps.Keys(cards))
	slices.Sort(ids)
	return ids
}

// Get returns the rendered troubleshooting card for an issue id.
func Get(id Id) (string, error) {
	card, ok := cards[id]
	if !ok {
		return "", fmt.Errorf("unknown issue id %q", id)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to raw markdown if the renderer cannot be built.
		return card, nil
	}

	rendered, err := renderer.Render(card)
	if err != nil {
		return card, nil
	}
	return strings.TrimLeft(rendered, "\n"), nil
}
