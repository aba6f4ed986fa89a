package symbols

import (
	"lumen/internal/types"
)

// SymbolCtx describes a declared binding. It is immutable once declared:
// no later pass widens or narrows Typ.
type SymbolCtx struct {
	Scope ScopeID    `msgpack:"scope"`
	Depth uint32     `msgpack:"depth"`
	Typ   types.Type `msgpack:"type"`
}
