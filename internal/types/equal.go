package types

// Equal reports whether a and b are structurally identical.
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindVector:
		return equalPtr(a.Elem, b.Elem)
	case KindObject:
		return equalObj(a.Obj, b.Obj)
	case KindLambda:
		return equalFn(a.Fn, b.Fn)
	default:
		return true
	}
}

// Equal is a method form of the package-level Equal.
func (t Type) Equal(other Type) bool {
	return Equal(t, other)
}

func equalPtr(a, b *Type) bool {
	// a missing payload reads as Unresolved
	return Equal(derefOrUnresolved(a), derefOrUnresolved(b))
}

func derefOrUnresolved(t *Type) Type {
	if t == nil {
		return Unresolved
	}
	return *t
}

func equalObj(a, b *ObjType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && equalList(a.SuperTypes, b.SuperTypes)
}

func equalFn(a, b *FuncType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return equalPtr(a.Return, b.Return) && equalList(a.Args, b.Args)
}

func equalList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
