package symbols

import (
	"maps"
	"slices"

	"lumen/internal/source"
	"lumen/internal/types"
)

// Tables is the read-only view of a finished Context handed to code
// generation. Scopes holds the bindings of every non-global scope ever
// opened, closed ones included.
type Tables struct {
	Globals map[source.StringID]SymbolCtx             `msgpack:"globals"`
	Scopes  map[ScopeID]map[source.StringID]SymbolCtx `msgpack:"scopes"`
	Types   map[source.StringID]types.Type            `msgpack:"types"`
}

// Tables copies the current tables. Later declarations do not show up in
// the returned value.
func (c *Context) Tables() Tables {
	scopes := make(map[ScopeID]map[source.StringID]SymbolCtx, len(c.symbols))
	for id, table := range c.symbols {
		scopes[id] = maps.Clone(table)
	}
	return Tables{
		Globals: maps.Clone(c.globals),
		Scopes:  scopes,
		Types:   maps.Clone(c.types),
	}
}

// Global returns the depth-0 binding of name.
func (c *Context) Global(name source.StringID) (SymbolCtx, bool) {
	sym, ok := c.globals[name]
	return sym, ok
}

// ScopeSymbols returns a copy of the bindings declared directly in scope.
func (c *Context) ScopeSymbols(scope ScopeID) map[source.StringID]SymbolCtx {
	if scope.IsGlobal() {
		return maps.Clone(c.globals)
	}
	return maps.Clone(c.symbols[scope])
}

// TypeNames returns the registered type names in handle order.
func (c *Context) TypeNames() []source.StringID {
	return slices.Sorted(maps.Keys(c.types))
}

// ScopeIDs returns the ids of scopes holding at least one binding, ascending.
func (t Tables) ScopeIDs() []ScopeID {
	return slices.Sorted(maps.Keys(t.Scopes))
}

// Names returns the keys of a binding table in handle order.
func Names(table map[source.StringID]SymbolCtx) []source.StringID {
	return slices.Sorted(maps.Keys(table))
}
