package sema

import (
	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/types"
)

func (c *checker) defVariable(v *ast.DefVariable) types.Type {
	valT := c.expr(v.Value)
	declared := c.annotation(v.DType, v.Span())
	if !compatible(declared, valT) {
		c.mismatch(spanOf(v.Value, v.Span()), "value of "+c.name(v.Name), declared, valT)
	}
	typ := declared
	if !typ.IsResolved() {
		typ = valT
	}
	v.Typ = typ
	c.declare(v.Name, typ, v.Span())
	return typ
}

// signature builds the lambda type from the annotations alone.
func (c *checker) signature(l *ast.DefLambda) types.Type {
	args := make([]types.Type, len(l.Params))
	for i, p := range l.Params {
		p.CType = c.annotation(p.DType, p.Sp)
		args[i] = p.CType
	}
	return types.MakeLambda(c.annotation(l.DType, l.Span()), args...)
}

// lambdaBody checks parameters and body inside the lambda's own scope and
// stores the completed type on l.
func (c *checker) lambdaBody(l *ast.DefLambda, sig types.Type) types.Type {
	c.ctx.OpenScope()
	args := make([]types.Type, len(l.Params))
	for i, p := range l.Params {
		if p.Default != nil {
			dt := c.expr(p.Default)
			if !compatible(p.CType, dt) {
				c.mismatch(p.Default.Span(), "default of "+c.name(p.Name), p.CType, dt)
			}
			if !p.CType.IsResolved() {
				p.CType = dt
			}
		}
		args[i] = p.CType
		c.declare(p.Name, p.CType, p.Sp)
	}
	bodyT := types.Nil
	if l.Body != nil {
		bodyT = c.body(l.Body)
	}
	c.ctx.CloseScope()

	ret := sig.ReturnType()
	if !compatible(ret, bodyT) {
		c.mismatch(l.Span(), "return value", ret, bodyT)
	}
	if !ret.IsResolved() {
		ret = bodyT
	}
	l.Typ = types.MakeLambda(ret, args...)
	return c.record(l, l.Typ)
}

func (c *checker) defLambda(l *ast.DefLambda) types.Type {
	return c.lambdaBody(l, c.signature(l))
}

// defFunction declares the name before checking the body so the function
// can call itself. The binding carries the annotated signature; the
// lambda node gets the completed one.
func (c *checker) defFunction(fn *ast.DefFunction) types.Type {
	if fn.Lambda == nil {
		c.report(diag.SemaError, fn.Span(), "function %s has no body", c.name(fn.Name))
		return types.Unresolved
	}
	sig := c.signature(fn.Lambda)
	c.declare(fn.Name, sig, fn.Span())
	return c.lambdaBody(fn.Lambda, sig)
}

func (c *checker) defStruct(s *ast.DefStruct) types.Type {
	s.Typ = types.MakeObject(s.Name)
	c.registerType(s.Name, s.Typ, s.Span())
	c.fields(s.Name, s.Fields)
	return types.Nil
}

func (c *checker) defClass(cl *ast.DefClass) types.Type {
	supers := make([]types.Type, 0, len(cl.Supers))
	for _, sn := range cl.Supers {
		st, ok := c.ctx.TypeNamed(sn)
		if !ok || st.Kind != types.KindObject {
			c.report(diag.SemaUnresolvedType, cl.Span(), "unknown super type %s of %s", c.name(sn), c.name(cl.Name))
			continue
		}
		supers = append(supers, st)
	}
	cl.Typ = types.MakeObject(cl.Name, supers...)
	c.registerType(cl.Name, cl.Typ, cl.Span())
	c.fields(cl.Name, cl.Fields)

	c.ctx.OpenScope()
	defer c.ctx.CloseScope()

	seen := make(map[source.StringID]bool, len(cl.Fields))
	for _, f := range cl.Fields {
		if !seen[f.Name] {
			seen[f.Name] = true
			c.declare(f.Name, f.CType, f.Sp)
		}
	}
	sigs := make([]types.Type, len(cl.Methods))
	for i, m := range cl.Methods {
		if m.Lambda == nil {
			c.report(diag.SemaError, m.Span(), "method %s has no body", c.name(m.Name))
			continue
		}
		sigs[i] = c.signature(m.Lambda)
		if c.addMember(cl.Name, m.Name, sigs[i], m.Span()) {
			c.declare(m.Name, sigs[i], m.Span())
		}
	}
	for _, l := range cl.Init {
		c.defLambda(l)
	}
	for i, m := range cl.Methods {
		if m.Lambda != nil {
			c.lambdaBody(m.Lambda, sigs[i])
		}
	}
	for _, hook := range []ast.Node{cl.PreInit, cl.PostInit, cl.Final, cl.Validate} {
		if hook != nil {
			c.block(hook)
		}
	}
	return types.Nil
}

// fields resolves field types and records them as members of owner.
func (c *checker) fields(owner source.StringID, fields []*ast.Field) {
	for _, f := range fields {
		f.CType = c.annotation(f.DType, f.Sp)
		if f.Default != nil {
			dt := c.expr(f.Default)
			if !compatible(f.CType, dt) {
				c.mismatch(f.Default.Span(), "default of field "+c.name(f.Name), f.CType, dt)
			}
			if !f.CType.IsResolved() {
				f.CType = dt
			}
		}
		c.addMember(owner, f.Name, f.CType, f.Sp)
	}
}

func (c *checker) addMember(owner, name source.StringID, t types.Type, span source.Span) bool {
	table, ok := c.members[owner]
	if !ok {
		table = make(map[source.StringID]types.Type)
		c.members[owner] = table
	}
	if _, dup := table[name]; dup {
		c.report(diag.SemaDuplicateBinding, span, "%s already has a member named %s", c.name(owner), c.name(name))
		return false
	}
	table[name] = t
	return true
}

// member finds name on the object type t or, one level up, on its direct
// super types.
func (c *checker) member(t types.Type, name source.StringID) (types.Type, bool) {
	if m, ok := c.members[t.ObjectName()][name]; ok {
		return m, true
	}
	if t.Obj == nil {
		return types.Unresolved, false
	}
	for _, st := range t.Obj.SuperTypes {
		if m, ok := c.members[st.ObjectName()][name]; ok {
			return m, true
		}
	}
	return types.Unresolved, false
}
