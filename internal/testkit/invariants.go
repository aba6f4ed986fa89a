package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"lumen/internal/ast"
	"lumen/internal/source"
	"lumen/internal/symbols"
)

// CheckSpanInvariants runs a minimal set of span invariants on a decoded file:
// 1) every node span points at sf
// 2) every known span lies within the lines of sf
// 3) a known line comes with a known column
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	if f.ID != sf.ID {
		return fmt.Errorf("file id mismatch: got=%d want=%d", f.ID, sf.ID)
	}
	lines, err := safecast.Conv[uint32](bytes.Count(sf.Content, []byte{'\n'}) + 1)
	if err != nil {
		return fmt.Errorf("line count overflow: %w", err)
	}

	var first error
	for _, n := range f.Nodes {
		ast.Inspect(n, func(x ast.Node) bool {
			if first != nil {
				return false
			}
			sp := x.Span()
			if sp.File != sf.ID {
				first = fmt.Errorf("%T span file mismatch: got=%d want=%d", x, sp.File, sf.ID)
				return false
			}
			if sp.Line > lines {
				first = fmt.Errorf("%T span %v beyond line %d", x, sp, lines)
				return false
			}
			if sp.IsKnown() && sp.Col == 0 {
				first = fmt.Errorf("%T span %v has no column", x, sp)
				return false
			}
			return true
		})
		if first != nil {
			return first
		}
	}
	return nil
}

// CheckScopeInvariants verifies that ctx is back at the global scope and
// that every recorded binding agrees with the scope it is filed under.
func CheckScopeInvariants(ctx *symbols.Context) error {
	if ctx == nil {
		return fmt.Errorf("nil context")
	}
	if d := ctx.Depth(); d != 0 {
		return fmt.Errorf("depth %d, want 0", d)
	}
	if active := ctx.ActiveScopes(); len(active) != 0 {
		return fmt.Errorf("scopes still open: %v", active)
	}
	if cur := ctx.CurrentScope(); !cur.IsGlobal() {
		return fmt.Errorf("current scope %d, want global", cur)
	}

	t := ctx.Tables()
	for name, sym := range t.Globals {
		if !sym.Scope.IsGlobal() || sym.Depth != 0 {
			return fmt.Errorf("global %d filed with scope %d depth %d", name, sym.Scope, sym.Depth)
		}
	}
	last, _ := ctx.ScopeTuple()
	for _, id := range t.ScopeIDs() {
		if id.IsGlobal() || id > last {
			return fmt.Errorf("scope %d was never allocated (last %d)", id, last)
		}
		for name, sym := range t.Scopes[id] {
			if sym.Scope != id || sym.Depth == 0 {
				return fmt.Errorf("binding %d in scope %d filed with scope %d depth %d", name, id, sym.Scope, sym.Depth)
			}
		}
	}
	return nil
}
