// SPDX-License-Identifier: MPL-2.0

// Package engine implements the operations behind the CLI: mutating the
// session's active context, running extensions, saving and loading named
// contexts, and composing plans into a single shell invocation.
package engine
