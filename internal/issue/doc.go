// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing error reporting.
//
// ActionableError carries the operation that failed, the resource involved,
// and concrete suggestions, so commands can render helpful messages instead
// of bare error strings. The package also keeps a small registry of
// troubleshooting cards for recurring failure classes, rendered as markdown
// in the terminal.
package issue
