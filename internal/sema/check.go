package sema

import (
	"github.com/rs/zerolog"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/symbols"
	"lumen/internal/types"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	Logger   zerolog.Logger
	// WarnShadowing reports a warning when a block binding hides an outer one.
	WarnShadowing bool
	// WarnGlobalRedefinition reports a warning when a global is redefined.
	// Redefinition itself is always allowed at depth 0.
	WarnGlobalRedefinition bool
}

// Result stores what the pass produced besides the annotations it writes
// into the tree.
type Result struct {
	Context *symbols.Context
	Types   map[ast.Node]types.Type
}

// TypeOf returns the type computed for n, Unresolved if n was not visited.
func (r *Result) TypeOf(n ast.Node) types.Type {
	if r == nil {
		return types.Unresolved
	}
	return r.Types[n]
}

// Check walks file in source order, driving ctx: a scope is opened for
// every lexical block, definitions declare bindings, identifier uses are
// looked up and declared type names are validated. Resolved types are
// written back into the tree's annotation slots. A nil ctx gets a fresh
// context over a private interner.
//
// Check panics with *symbols.ScopeUnderflowError if ctx is closed past
// the global scope by a caller sharing it.
func Check(file *ast.File, ctx *symbols.Context, opts Options) *Result {
	if ctx == nil {
		ctx = symbols.NewContext(nil)
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	res := &Result{
		Context: ctx,
		Types:   make(map[ast.Node]types.Type),
	}
	if file == nil {
		return res
	}

	c := &checker{
		ctx:       ctx,
		strings:   ctx.Strings(),
		reporter:  reporter,
		logger:    opts.Logger,
		opts:      opts,
		result:    res,
		members:   make(map[source.StringID]map[source.StringID]types.Type),
		declSpans: make(map[bindingKey]source.Span),
		typeSpans: make(map[source.StringID]source.Span),
	}
	c.run(file)
	return res
}

type bindingKey struct {
	scope symbols.ScopeID
	name  source.StringID
}

type checker struct {
	ctx      *symbols.Context
	strings  *source.Interner
	reporter diag.Reporter
	logger   zerolog.Logger
	opts     Options
	result   *Result

	// object name -> member name -> member type (fields and methods)
	members   map[source.StringID]map[source.StringID]types.Type
	declSpans map[bindingKey]source.Span
	typeSpans map[source.StringID]source.Span
}

func (c *checker) run(file *ast.File) {
	startDepth := c.ctx.Depth()
	c.logger.Debug().Str("file", file.Path).Int("nodes", len(file.Nodes)).Msg("sema start")

	for _, n := range file.Nodes {
		c.expr(n)
	}

	if depth := c.ctx.Depth(); depth != startDepth {
		c.logger.Error().Uint32("depth", depth).Uint32("want", startDepth).Msg("unbalanced scopes after sema")
	}
	last, _ := c.ctx.ScopeTuple()
	c.logger.Debug().
		Str("file", file.Path).
		Uint32("scopes", uint32(last)).
		Int("types", len(c.ctx.TypeNames())).
		Msg("sema done")
}

// block evaluates n inside a fresh lexical scope.
func (c *checker) block(n ast.Node) types.Type {
	if n == nil {
		return types.Nil
	}
	c.ctx.OpenScope()
	defer c.ctx.CloseScope()
	return c.body(n)
}

// body evaluates n in the current scope; a Multi contributes its
// expressions directly instead of opening another scope.
func (c *checker) body(n ast.Node) types.Type {
	m, ok := n.(*ast.Multi)
	if !ok {
		return c.expr(n)
	}
	t := types.Nil
	for _, e := range m.Exprs {
		t = c.expr(e)
	}
	return c.record(m, t)
}

func (c *checker) record(n ast.Node, t types.Type) types.Type {
	c.result.Types[n] = t
	return t
}

func (c *checker) label(t types.Type) string {
	return types.Label(t, c.strings)
}

func (c *checker) name(id source.StringID) string {
	return c.strings.Display(id)
}

// join is the type of a value produced by one of several branches.
func join(ts ...types.Type) types.Type {
	if len(ts) == 0 {
		return types.Nil
	}
	for _, t := range ts[1:] {
		if !types.Equal(t, ts[0]) {
			return types.Unresolved
		}
	}
	return ts[0]
}

// compatible is false only when both types are known and differ.
func compatible(want, got types.Type) bool {
	return !want.IsResolved() || !got.IsResolved() || types.Equal(want, got)
}

func spanOf(n ast.Node, fallback source.Span) source.Span {
	if n == nil {
		return fallback
	}
	return n.Span()
}
