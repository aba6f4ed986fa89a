package symbols

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
	"github.com/rs/zerolog"

	"lumen/internal/source"
	"lumen/internal/types"
)

// Context is the resolution engine of one compilation unit: a stack of
// lexical scopes over per-scope binding tables, a global table, and a flat
// registry of type names.
//
// Tables only grow. Closing a scope makes its bindings unreachable for
// lookup but keeps them for the code generator. A Context is driven by a
// single tree walk and is not safe for concurrent use.
type Context struct {
	strings *source.Interner
	logger  zerolog.Logger

	currScope    ScopeID // last allocated scope id
	currDepth    uint32
	activeScopes []ScopeID // outermost first

	symbols map[ScopeID]map[source.StringID]SymbolCtx
	globals map[source.StringID]SymbolCtx
	types   map[source.StringID]types.Type

	unresolved types.Type
}

// Option configures a Context.
type Option func(*Context)

// WithLogger routes scope and declaration events to logger at trace level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithCapacity presizes the binding and type tables.
func WithCapacity(n int) Option {
	return func(c *Context) {
		if n <= 0 {
			return
		}
		c.symbols = make(map[ScopeID]map[source.StringID]SymbolCtx, n)
		c.globals = make(map[source.StringID]SymbolCtx, n)
		c.types = make(map[source.StringID]types.Type, n)
	}
}

// NewContext creates a context whose type registry already knows the
// built-in scalar names int, float, bool, string and nil. A nil strings
// allocates a private interner.
func NewContext(strings *source.Interner, opts ...Option) *Context {
	if strings == nil {
		strings = source.NewInterner()
	}
	c := &Context{
		strings:      strings,
		logger:       zerolog.Nop(),
		activeScopes: make([]ScopeID, 0, 8),
		unresolved:   types.Unresolved,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.symbols == nil {
		WithCapacity(50)(c)
	}

	k := strings.Known()
	c.types[k.Int] = types.Integer
	c.types[k.Float] = types.Float
	c.types[k.Bool] = types.Boolean
	c.types[k.String] = types.String
	c.types[k.Nil] = types.Nil
	return c
}

// Strings returns the interner identifiers are resolved against.
func (c *Context) Strings() *source.Interner { return c.strings }

// OpenScope enters a new lexical block and returns its fresh id.
func (c *Context) OpenScope() ScopeID {
	next, err := safecast.Conv[uint32](uint64(c.currScope) + 1)
	if err != nil {
		panic(fmt.Errorf("scope id overflow: %w", err))
	}
	depth, err := safecast.Conv[uint32](uint64(c.currDepth) + 1)
	if err != nil {
		panic(fmt.Errorf("scope depth overflow: %w", err))
	}
	c.currScope = ScopeID(next)
	c.currDepth = depth
	c.activeScopes = append(c.activeScopes, c.currScope)
	c.logger.Trace().Uint32("scope", next).Uint32("depth", depth).Msg("open scope")
	return c.currScope
}

// CloseScope leaves the innermost open block and returns its id.
//
// Closing with no open block means the caller's open/close calls are
// mismatched; CloseScope then panics with *ScopeUnderflowError and leaves
// the state untouched. See CatchScopeUnderflow.
func (c *Context) CloseScope() ScopeID {
	n := len(c.activeScopes)
	if n == 0 {
		panic(&ScopeUnderflowError{LastScope: c.currScope})
	}
	top := c.activeScopes[n-1]
	c.activeScopes = c.activeScopes[:n-1]
	c.currDepth--
	c.logger.Trace().Uint32("scope", uint32(top)).Uint32("depth", c.currDepth).Msg("close scope")
	return top
}

// CurrentScope returns the innermost open scope, or GlobalScope at depth 0.
func (c *Context) CurrentScope() ScopeID {
	if n := len(c.activeScopes); n > 0 {
		return c.activeScopes[n-1]
	}
	return GlobalScope
}

// Depth returns the current nesting depth; 0 is global.
func (c *Context) Depth() uint32 { return c.currDepth }

// ScopeTuple returns the last allocated scope id and the current depth.
func (c *Context) ScopeTuple() (ScopeID, uint32) { return c.currScope, c.currDepth }

// ActiveScopes returns a copy of the open scope stack, outermost first.
func (c *Context) ActiveScopes() []ScopeID { return slices.Clone(c.activeScopes) }

// DeclareBinding binds name to typ in the current scope.
//
// At depth 0 the binding goes to the global table and silently replaces
// any earlier global of the same name. Inside a block, a second binding of
// the same name in the same scope is rejected with *DuplicateBindingError
// and the first binding is kept. Bindings of outer scopes are shadowed,
// not conflicting.
func (c *Context) DeclareBinding(name source.StringID, typ types.Type) error {
	scope := c.CurrentScope()
	data := SymbolCtx{Scope: scope, Depth: c.currDepth, Typ: typ}

	if c.currDepth == 0 {
		if prev, ok := c.globals[name]; ok {
			c.logger.Debug().
				Str("name", c.strings.Display(name)).
				Str("old", types.Label(prev.Typ, c.strings)).
				Str("new", types.Label(typ, c.strings)).
				Msg("global binding replaced")
		}
		c.globals[name] = data
		return nil
	}

	table, ok := c.symbols[scope]
	if !ok {
		table = make(map[source.StringID]SymbolCtx)
		c.symbols[scope] = table
	}
	if existing, dup := table[name]; dup {
		return &DuplicateBindingError{
			Name:     name,
			Text:     c.strings.Display(name),
			Scope:    scope,
			Existing: existing,
		}
	}
	table[name] = data
	c.logger.Trace().
		Str("name", c.strings.Display(name)).
		Uint32("scope", uint32(scope)).
		Uint32("depth", c.currDepth).
		Msg("declare")
	return nil
}

// Lookup finds the binding name refers to at this point: open scopes from
// innermost to outermost, then globals.
func (c *Context) Lookup(name source.StringID) (SymbolCtx, bool) {
	for i := len(c.activeScopes) - 1; i >= 0; i-- {
		if table, ok := c.symbols[c.activeScopes[i]]; ok {
			if sym, ok := table[name]; ok {
				return sym, true
			}
		}
	}
	if sym, ok := c.globals[name]; ok {
		return sym, true
	}
	return SymbolCtx{}, false
}

// LookupType returns the type of the binding name refers to, or the
// Unresolved sentinel when no binding is visible.
func (c *Context) LookupType(name source.StringID) types.Type {
	if sym, ok := c.Lookup(name); ok {
		return sym.Typ
	}
	return c.unresolved
}

// RegisterTypeName records typ under name. A name is registered once; a
// second registration keeps the original and returns *TypeRedefinedError.
func (c *Context) RegisterTypeName(name source.StringID, typ types.Type) error {
	if existing, ok := c.types[name]; ok {
		return &TypeRedefinedError{Name: name, Text: c.strings.Display(name), Existing: existing}
	}
	c.types[name] = typ
	c.logger.Trace().
		Str("name", c.strings.Display(name)).
		Str("type", types.Label(typ, c.strings)).
		Msg("register type")
	return nil
}

// TypeNamed returns the registry entry for name as registered, without the
// resolution rules of ResolveTypeName.
func (c *Context) TypeNamed(name source.StringID) (types.Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

// ResolveTypeName validates a type name used in a declaration.
//
// Unknown names resolve to Unresolved. Scalar, vector, nil and pair
// entries resolve to themselves. For an object entry only its direct super
// types are consulted: the first object super type whose own name equals
// name is returned, otherwise Unresolved. An object therefore resolves
// only when it lists itself among its super types. Quote and lambda
// entries return *NotImplementedError.
func (c *Context) ResolveTypeName(name source.StringID) (types.Type, error) {
	found, ok := c.types[name]
	if !ok {
		return c.unresolved, nil
	}

	switch found.Kind {
	case types.KindUnresolved, types.KindInteger, types.KindFloat, types.KindString,
		types.KindBoolean, types.KindVector, types.KindNil, types.KindPair:
		return found, nil
	case types.KindObject:
		if found.Obj != nil {
			for _, st := range found.Obj.SuperTypes {
				if st.Kind == types.KindObject && st.ObjectName() == name {
					return st, nil
				}
			}
		}
		return c.unresolved, nil
	case types.KindQuote, types.KindLambda:
		return c.unresolved, &NotImplementedError{Name: name, Text: c.strings.Display(name), Kind: found.Kind}
	default:
		return c.unresolved, fmt.Errorf("type %s: unknown kind %s", c.strings.Display(name), found.Kind)
	}
}
