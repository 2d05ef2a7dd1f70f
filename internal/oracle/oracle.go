// Package oracle defines the per-position classification contract the
// span engine consumes, plus the two concrete backends: a chroma
// lexer oracle and a legacy line-oriented tokenizer. The engine never
// assumes either backend is present.
package oracle

import "errors"

// ErrUnavailable reports that an oracle has no backend for the
// requested language. The dispatcher treats it as a signal to fall
// through to the next tier.
var ErrUnavailable = errors.New("oracle: no backend for language")

// ErrQueryFailed reports that an individual position query could not
// be answered. The engine abandons the span being resolved and keeps
// sampling.
var ErrQueryFailed = errors.New("oracle: query failed")

// Oracle answers "is this language supported" and opens per-file
// query sessions.
type Oracle interface {
	// Name identifies the oracle in logs and diagnostics.
	Name() string

	// Available reports whether the oracle can classify the language.
	Available(lang string) bool

	// Open prepares a session for one file's lines. Returns
	// ErrUnavailable when the language has no backend.
	Open(lang string, lines []string) (Session, error)
}

// Session answers point queries against one file. CategoryAt returns
// the raw (un-normalized) category tag at a zero-indexed line and rune
// column, or "" when the position carries no category. Implementations
// are queried synchronously from a single goroutine per render.
type Session interface {
	CategoryAt(lineIndex, col int) (string, error)
}
