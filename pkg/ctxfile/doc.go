// SPDX-License-Identifier: MPL-2.0

// Package ctxfile defines the execution-context data model and its persisted
// JSON format.
//
// A Context is a named, ordered sequence of Steps plus a metadata log. Steps
// are a closed set of variants (command prefix, env binding, workdir, PATH
// entry, container wrapper, extension) implementing the sealed Step interface.
// Steps are immutable once appended; a Context's step sequence only grows
// until the whole Context is replaced by loading another one.
//
// The persisted format is a single JSON object with "meta" and "steps" fields.
// Unknown top-level fields are preserved verbatim across load/save round-trips
// so that third-party tooling can attach data to a context file without losing
// it.
package ctxfile
