package sema

import (
	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/types"
)

// expr computes the type of n, checking it along the way.
func (c *checker) expr(n ast.Node) types.Type {
	if n == nil {
		return types.Nil
	}
	switch n := n.(type) {
	case *ast.Integer:
		return c.record(n, types.Integer)
	case *ast.Float:
		return c.record(n, types.Float)
	case *ast.Boolean:
		return c.record(n, types.Boolean)
	case *ast.String:
		return c.record(n, types.String)
	case *ast.Nil:
		return c.record(n, types.Nil)
	case *ast.Quote:
		return c.record(n, types.Quote)
	case *ast.Pair:
		return c.record(n, types.Pair)
	case *ast.Vector:
		return c.record(n, c.vector(n))

	case *ast.DefVariable:
		return c.record(n, c.defVariable(n))
	case *ast.DefLambda:
		return c.defLambda(n)
	case *ast.DefFunction:
		return c.record(n, c.defFunction(n))
	case *ast.DefStruct:
		return c.record(n, c.defStruct(n))
	case *ast.DefClass:
		return c.record(n, c.defClass(n))

	case *ast.LiteralCall:
		return c.record(n, c.ident(n))
	case *ast.Assignment:
		return c.record(n, c.assignment(n))
	case *ast.Multi:
		return c.block(n)
	case *ast.Print:
		c.expr(n.Expr)
		return c.record(n, types.Nil)
	case *ast.If:
		return c.record(n, c.ifExpr(n))
	case *ast.Cond:
		return c.record(n, c.condExpr(n))
	case *ast.While:
		c.condition(n.Cond)
		c.block(n.Body)
		return c.record(n, types.Nil)
	case *ast.Cons:
		c.expr(n.Car)
		c.expr(n.Cdr)
		return c.record(n, types.Pair)
	case *ast.PairList:
		for _, op := range n.Operands {
			c.expr(op)
		}
		n.Typ = types.Pair
		return c.record(n, n.Typ)
	case *ast.ListAccess:
		return c.record(n, c.listAccess(n))
	case *ast.FuncCall:
		return c.record(n, c.funcCall(n))
	case *ast.InnerFuncCall:
		return c.record(n, c.innerCall(n))
	case *ast.ObjectCall:
		return c.record(n, c.objectCall(n))
	case *ast.ObjectAssign:
		return c.record(n, c.objectAssign(n))
	case *ast.GenRand:
		return c.record(n, c.genRand(n))
	case *ast.DirectInst:
		return c.record(n, c.directInst(n))
	case *ast.InitInst:
		return c.record(n, c.initInst(n))
	case *ast.Operation:
		n.Typ = c.operation(n)
		return c.record(n, n.Typ)
	default:
		c.report(diag.SemaError, n.Span(), "unsupported node %T", n)
		return types.Unresolved
	}
}

func (c *checker) vector(v *ast.Vector) types.Type {
	if len(v.Elems) == 0 {
		return types.MakeVector(types.Unresolved)
	}
	elems := make([]types.Type, len(v.Elems))
	for i, e := range v.Elems {
		elems[i] = c.expr(e)
	}
	elem := join(elems...)
	if !elem.IsResolved() {
		for i := 1; i < len(elems); i++ {
			if !compatible(elems[0], elems[i]) {
				c.mismatch(v.Elems[i].Span(), "vector elements must share one type", elems[0], elems[i])
				break
			}
		}
	}
	return types.MakeVector(elem)
}

func (c *checker) ident(n *ast.LiteralCall) types.Type {
	sym, ok := c.ctx.Lookup(n.Name)
	if !ok {
		c.report(diag.SemaUnresolvedSymbol, n.Span(), "undefined identifier %s", c.name(n.Name))
		return types.Unresolved
	}
	return sym.Typ
}

func (c *checker) assignment(n *ast.Assignment) types.Type {
	valT := c.expr(n.Value)
	sym, ok := c.ctx.Lookup(n.Name)
	if !ok {
		c.report(diag.SemaUnresolvedSymbol, n.Span(), "assignment to undefined identifier %s", c.name(n.Name))
		return valT
	}
	if !compatible(sym.Typ, valT) {
		c.mismatch(spanOf(n.Value, n.Span()), "assignment to "+c.name(n.Name), sym.Typ, valT)
	}
	return sym.Typ
}

// condition checks a guard; anything but a known non-boolean is accepted.
func (c *checker) condition(n ast.Node) {
	t := c.expr(n)
	if n != nil && !compatible(types.Boolean, t) {
		c.mismatch(n.Span(), "condition", types.Boolean, t)
	}
}

func (c *checker) branch(b *ast.CondBranch) types.Type {
	c.condition(b.Cond)
	b.Typ = c.block(b.Then)
	return b.Typ
}

func (c *checker) ifExpr(n *ast.If) types.Type {
	then := c.branch(&n.Branch)
	n.ElseType = c.block(n.Else)
	if n.Else == nil {
		return then
	}
	return join(then, n.ElseType)
}

func (c *checker) condExpr(n *ast.Cond) types.Type {
	ts := make([]types.Type, 0, len(n.Branches)+1)
	for i := range n.Branches {
		ts = append(ts, c.branch(&n.Branches[i]))
	}
	n.ElseType = c.block(n.Else)
	if n.Else != nil {
		ts = append(ts, n.ElseType)
	}
	return join(ts...)
}

func (c *checker) listAccess(n *ast.ListAccess) types.Type {
	listT := c.expr(n.List)
	if n.Index != nil {
		idx := c.expr(n.Index)
		if !compatible(types.Integer, idx) {
			c.mismatch(n.Index.Span(), "index", types.Integer, idx)
		}
	}
	switch listT.Kind {
	case types.KindVector:
		return listT.ElemType()
	case types.KindPair, types.KindUnresolved:
		return types.Unresolved
	default:
		c.report(diag.SemaTypeMismatch, spanOf(n.List, n.Span()), "cannot index a value of type %s", c.label(listT))
		return types.Unresolved
	}
}

// call checks args against the callee type fn and returns its result.
func (c *checker) call(span source.Span, what string, fn types.Type, args []ast.FuncArg) types.Type {
	argTs := make([]types.Type, len(args))
	for i, a := range args {
		argTs[i] = c.expr(a.Value)
	}
	switch fn.Kind {
	case types.KindLambda:
	case types.KindUnresolved:
		return types.Unresolved
	default:
		c.report(diag.SemaNotCallable, span, "%s of type %s is not callable", what, c.label(fn))
		return types.Unresolved
	}
	var params []types.Type
	if fn.Fn != nil {
		params = fn.Fn.Args
	}
	if len(args) > len(params) {
		c.report(diag.SemaArgumentCount, span, "too many arguments to %s: have %d, want at most %d",
			what, len(args), len(params))
	}
	for i, a := range args {
		if i >= len(params) || a.Name.IsValid() {
			continue
		}
		if !compatible(params[i], argTs[i]) {
			c.mismatch(spanOf(a.Value, span), "argument to "+what, params[i], argTs[i])
		}
	}
	return fn.ReturnType()
}

func (c *checker) funcCall(n *ast.FuncCall) types.Type {
	sym, ok := c.ctx.Lookup(n.Name)
	if !ok {
		for _, a := range n.Args {
			c.expr(a.Value)
		}
		c.report(diag.SemaUnresolvedSymbol, n.Span(), "undefined function %s", c.name(n.Name))
		return types.Unresolved
	}
	return c.call(n.Span(), c.name(n.Name), sym.Typ, n.Args)
}

func (c *checker) innerCall(n *ast.InnerFuncCall) types.Type {
	t := c.access(c.expr(n.Expr), n.Accessors)
	return c.call(n.Span(), "expression", t, n.Args)
}

// access follows an accessor chain starting at t.
func (c *checker) access(t types.Type, accs []ast.Accessor) types.Type {
	for _, a := range accs {
		switch t.Kind {
		case types.KindUnresolved:
			for _, arg := range a.Args {
				c.expr(arg.Value)
			}
			continue
		case types.KindObject:
		default:
			c.report(diag.SemaUnknownMember, a.Sp, "%s has no member %s", c.label(t), c.name(a.Name))
			return types.Unresolved
		}
		m, ok := c.member(t, a.Name)
		if !ok {
			c.report(diag.SemaUnknownMember, a.Sp, "%s has no member %s", c.label(t), c.name(a.Name))
			return types.Unresolved
		}
		if a.IsField {
			t = m
			continue
		}
		t = c.call(a.Sp, c.name(a.Name), m, a.Args)
	}
	return t
}

func (c *checker) objectCall(n *ast.ObjectCall) types.Type {
	sym, ok := c.ctx.Lookup(n.Name)
	if !ok {
		c.report(diag.SemaUnresolvedSymbol, n.Span(), "undefined identifier %s", c.name(n.Name))
		return types.Unresolved
	}
	return c.access(sym.Typ, n.Accessors)
}

func (c *checker) objectAssign(n *ast.ObjectAssign) types.Type {
	valT := c.expr(n.Value)
	if n.Access == nil {
		return valT
	}
	target := c.expr(n.Access)
	if !compatible(target, valT) {
		c.mismatch(spanOf(n.Value, n.Span()), "member assignment", target, valT)
	}
	return target
}

func (c *checker) genRand(n *ast.GenRand) types.Type {
	want := types.Integer
	if n.IsFloat {
		want = types.Float
	}
	for _, bound := range []ast.Node{n.Lower, n.Upper} {
		if bound == nil {
			continue
		}
		bt := c.expr(bound)
		if bt.IsResolved() && !bt.Kind.IsNumeric() {
			c.mismatch(bound.Span(), "random bound", want, bt)
		}
	}
	return want
}

func (c *checker) directInst(n *ast.DirectInst) types.Type {
	t, ok := c.ctx.TypeNamed(n.Name)
	if !ok || t.Kind != types.KindObject {
		for _, a := range n.Args {
			c.expr(a.Value)
		}
		c.report(diag.SemaUnresolvedType, n.Span(), "unknown object type %s", c.name(n.Name))
		return types.Unresolved
	}
	for _, a := range n.Args {
		vt := c.expr(a.Value)
		ft, ok := c.member(t, a.Name)
		if !ok {
			c.report(diag.SemaUnknownMember, spanOf(a.Value, n.Span()), "%s has no field %s", c.name(n.Name), c.name(a.Name))
			continue
		}
		if !compatible(ft, vt) {
			c.mismatch(spanOf(a.Value, n.Span()), "field "+c.name(a.Name), ft, vt)
		}
	}
	return t
}

func (c *checker) initInst(n *ast.InitInst) types.Type {
	for _, a := range n.Args {
		c.expr(a.Value)
	}
	t, ok := c.ctx.TypeNamed(n.Name)
	if !ok || t.Kind != types.KindObject {
		c.report(diag.SemaUnresolvedType, n.Span(), "unknown object type %s", c.name(n.Name))
		return types.Unresolved
	}
	return t
}

func (c *checker) operation(n *ast.Operation) types.Type {
	operands := make([]types.Type, len(n.Operands))
	for i, op := range n.Operands {
		operands[i] = c.expr(op)
	}
	switch n.Op.Class() {
	case ast.OpClassArith:
		result := types.Integer
		for i, t := range operands {
			switch {
			case !t.IsResolved():
				result = types.Unresolved
			case !t.Kind.IsNumeric():
				c.report(diag.SemaTypeMismatch, n.Operands[i].Span(),
					"operand of %s must be numeric, found %s", n.Op, c.label(t))
				result = types.Unresolved
			case t.Kind == types.KindFloat && result.IsResolved():
				result = types.Float
			}
		}
		return result
	case ast.OpClassCompare:
		return types.Boolean
	case ast.OpClassLogic:
		for i, t := range operands {
			if !compatible(types.Boolean, t) {
				c.mismatch(n.Operands[i].Span(), "operand of "+n.Op.String(), types.Boolean, t)
			}
		}
		return types.Boolean
	case ast.OpClassList:
		if n.Op == ast.OpList {
			return types.Pair
		}
		return types.Unresolved
	default:
		c.report(diag.SemaError, n.Span(), "unknown operator")
		return types.Unresolved
	}
}
