// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as
// the file format.
//
// Configuration is loaded from ~/.config/shellac/config.cue (XDG equivalent
// on Linux, ~/Library/Application Support/shellac/config.cue on macOS,
// %APPDATA%\shellac\config.cue on Windows). Files are validated against a
// CUE schema (config_schema.cue) before being merged over defaults, so
// invalid settings fail with a clear message instead of being silently
// ignored.
package config
