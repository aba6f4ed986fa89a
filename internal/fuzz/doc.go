// Package fuzztests houses Go fuzz harnesses that push arbitrary bytes
// through the decoder and the semantic pass (source -> astio -> sema). Its
// goal is to guard against panics, unbalanced scopes and runaway
// diagnostics on malformed documents.
//
// Dependencies: internal/source, internal/astio, internal/sema,
// internal/symbols, internal/diag, internal/testkit.
package fuzztests
