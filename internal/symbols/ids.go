package symbols

// ScopeID identifies one lexical block. IDs are allocated from a counter
// and never reused.
type ScopeID uint32

// GlobalScope is the implicit depth-0 scope. It is never pushed onto the
// active stack and cannot be closed.
const GlobalScope ScopeID = 0

// IsGlobal reports whether id names the implicit global scope.
func (id ScopeID) IsGlobal() bool { return id == GlobalScope }
