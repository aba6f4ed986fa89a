package ast

// Children returns the direct child nodes of n in source order. Nil
// children are skipped.
func Children(n Node) []Node {
	var out []Node
	add := func(xs ...Node) {
		for _, x := range xs {
			if x != nil {
				out = append(out, x)
			}
		}
	}
	addArgs := func(args []FuncArg) {
		for _, a := range args {
			add(a.Value)
		}
	}
	addAccessors := func(accs []Accessor) {
		for _, a := range accs {
			addArgs(a.Args)
		}
	}

	switch n := n.(type) {
	case *DefVariable:
		add(n.Value)
	case *DefLambda:
		for _, p := range n.Params {
			add(p.Default)
		}
		add(n.Body)
	case *DefFunction:
		if n.Lambda != nil {
			add(n.Lambda)
		}
	case *DefStruct:
		for _, f := range n.Fields {
			add(f.Default)
		}
	case *DefClass:
		for _, f := range n.Fields {
			add(f.Default)
		}
		for _, l := range n.Init {
			add(l)
		}
		for _, m := range n.Methods {
			add(m)
		}
		add(n.PreInit, n.PostInit, n.Final, n.Validate)
	case *Assignment:
		add(n.Value)
	case *Multi:
		add(n.Exprs...)
	case *Print:
		add(n.Expr)
	case *If:
		add(n.Branch.Cond, n.Branch.Then, n.Else)
	case *Cond:
		for _, b := range n.Branches {
			add(b.Cond, b.Then)
		}
		add(n.Else)
	case *While:
		add(n.Cond, n.Body)
	case *Cons:
		add(n.Car, n.Cdr)
	case *PairList:
		add(n.Operands...)
	case *ListAccess:
		add(n.Index, n.List)
	case *FuncCall:
		addArgs(n.Args)
	case *InnerFuncCall:
		add(n.Expr)
		addAccessors(n.Accessors)
		addArgs(n.Args)
	case *ObjectCall:
		addAccessors(n.Accessors)
	case *ObjectAssign:
		if n.Access != nil {
			add(n.Access)
		}
		add(n.Value)
	case *GenRand:
		add(n.Lower, n.Upper)
	case *DirectInst:
		for _, a := range n.Args {
			add(a.Value)
		}
	case *InitInst:
		addArgs(n.Args)
	case *Operation:
		add(n.Operands...)
	case *Vector:
		add(n.Elems...)
	}
	return out
}

// Inspect traverses the tree rooted at n depth-first, calling f for each
// node. Children are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}
