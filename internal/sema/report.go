package sema

import (
	"errors"
	"fmt"

	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/symbols"
	"lumen/internal/types"
)

func (c *checker) report(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportError(c.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (c *checker) warn(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportWarning(c.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (c *checker) mismatch(span source.Span, what string, want, got types.Type) {
	c.report(diag.SemaTypeMismatch, span, "%s: expected %s, found %s", what, c.label(want), c.label(got))
}

// declare binds name in the current scope and turns a rejected
// declaration into a diagnostic. Analysis continues either way.
func (c *checker) declare(name source.StringID, typ types.Type, span source.Span) {
	scope := c.ctx.CurrentScope()
	if c.ctx.Depth() == 0 {
		if _, ok := c.ctx.Global(name); ok && c.opts.WarnGlobalRedefinition {
			b := diag.ReportWarning(c.reporter, diag.SemaGlobalRedefined, span,
				fmt.Sprintf("global %s is redefined", c.name(name)))
			if prev, ok := c.declSpans[bindingKey{symbols.GlobalScope, name}]; ok {
				b.WithNote(prev, "previous definition here")
			}
			b.Emit()
		}
	} else if c.opts.WarnShadowing {
		if prev, ok := c.ctx.Lookup(name); ok && prev.Scope != scope {
			b := diag.ReportWarning(c.reporter, diag.SemaShadowBinding, span,
				fmt.Sprintf("%s shadows a binding from an outer scope", c.name(name)))
			if prevSpan, ok := c.declSpans[bindingKey{prev.Scope, name}]; ok {
				b.WithNote(prevSpan, "outer binding here")
			}
			b.Emit()
		}
	}

	err := c.ctx.DeclareBinding(name, typ)
	var dup *symbols.DuplicateBindingError
	switch {
	case errors.As(err, &dup):
		b := diag.ReportError(c.reporter, diag.SemaDuplicateBinding, span, dup.Error())
		if prev, ok := c.declSpans[bindingKey{dup.Scope, name}]; ok {
			b.WithNote(prev, "previous binding here")
		}
		b.Emit()
		return
	case err != nil:
		c.report(diag.SemaError, span, "%v", err)
		return
	}
	c.declSpans[bindingKey{scope, name}] = span
}

// registerType records an object type and reports redefinitions.
func (c *checker) registerType(name source.StringID, typ types.Type, span source.Span) bool {
	err := c.ctx.RegisterTypeName(name, typ)
	var redef *symbols.TypeRedefinedError
	switch {
	case errors.As(err, &redef):
		b := diag.ReportError(c.reporter, diag.SemaTypeRedefined, span, redef.Error())
		if prev, ok := c.typeSpans[name]; ok {
			b.WithNote(prev, "first definition here")
		} else {
			b.WithNote(source.Span{}, fmt.Sprintf("%s is a built-in type", c.name(name)))
		}
		b.Emit()
		return false
	case err != nil:
		c.report(diag.SemaError, span, "%v", err)
		return false
	}
	c.typeSpans[name] = span
	return true
}

// annotation validates a declared type name. An absent annotation and any
// failed resolution yield Unresolved.
func (c *checker) annotation(name source.StringID, span source.Span) types.Type {
	if !name.IsValid() {
		return types.Unresolved
	}
	t, err := c.ctx.ResolveTypeName(name)
	if err != nil {
		var ni *symbols.NotImplementedError
		if errors.As(err, &ni) {
			c.report(diag.SemaNotImplemented, span, "%v", err)
		} else {
			c.report(diag.SemaError, span, "%v", err)
		}
		return types.Unresolved
	}
	if t.IsResolved() {
		return t
	}
	if raw, ok := c.ctx.TypeNamed(name); ok && raw.Kind == types.KindObject {
		diag.ReportWarning(c.reporter, diag.SemaUnresolvedType, span,
			fmt.Sprintf("object type %s does not resolve as an annotation", c.name(name))).
			WithNote(c.typeSpans[name], fmt.Sprintf("only a direct super type named %s is accepted", c.name(name))).
			Emit()
		return types.Unresolved
	}
	c.report(diag.SemaUnresolvedType, span, "unknown type %s", c.name(name))
	return types.Unresolved
}
