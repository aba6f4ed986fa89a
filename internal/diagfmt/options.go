package diagfmt

import "lumen/internal/symbols"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints paths as they were given.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color      bool
	PathMode   PathMode
	ShowNotes  bool
	ShowSource bool // echo the offending input line with a caret
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // truncates the output, not the Bag
	IncludeNotes bool
}

// TableOpts configures the symbol table printer.
type TableOpts struct {
	Color bool
	// Scopes limits the scope tables printed; nil prints all of them.
	Scopes []symbols.ScopeID
}
