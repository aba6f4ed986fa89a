package types

import (
	"fmt"

	"lumen/internal/source"
)

// Kind enumerates the closed set of type variants.
type Kind uint8

const (
	// KindUnresolved means "not yet determined or invalid". It is the zero Kind.
	KindUnresolved Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindString
	KindNil
	KindPair
	KindQuote
	KindVector
	KindObject
	KindLambda
)

func (k Kind) String() string {
	switch k {
	case KindUnresolved:
		return "unresolved"
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "bool"
	case KindString:
		return "string"
	case KindNil:
		return "nil"
	case KindPair:
		return "pair"
	case KindQuote:
		return "quote"
	case KindVector:
		return "vector"
	case KindObject:
		return "object"
	case KindLambda:
		return "lambda"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsComposite reports whether the kind carries a payload.
func (k Kind) IsComposite() bool {
	return k == KindVector || k == KindObject || k == KindLambda
}

// IsNumeric reports whether values of this kind take part in arithmetic.
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindFloat
}

// Type is a static type. The zero value is Unresolved.
//
// Exactly one payload is set and only for composite kinds: Elem for
// vectors, Obj for objects, Fn for lambdas. Types are treated as immutable
// values; payloads may be shared between copies and must not be mutated
// after construction. Use Clone when an independent copy is needed.
type Type struct {
	Kind Kind      `msgpack:"k"`
	Elem *Type     `msgpack:"e,omitempty"`
	Obj  *ObjType  `msgpack:"o,omitempty"`
	Fn   *FuncType `msgpack:"f,omitempty"`
}

// ObjType is a nominal object type and its declared super types. Each
// super type is a value copy of the referenced type's descriptor, never a
// back-reference to a registered original.
type ObjType struct {
	Name       source.StringID `msgpack:"n"`
	SuperTypes []Type          `msgpack:"s,omitempty"`
}

// FuncType is the signature of a lambda value.
type FuncType struct {
	Return *Type  `msgpack:"r"`
	Args   []Type `msgpack:"a,omitempty"`
}

// Scalar descriptors.
var (
	Unresolved = Type{}
	Integer    = Type{Kind: KindInteger}
	Float      = Type{Kind: KindFloat}
	Boolean    = Type{Kind: KindBoolean}
	String     = Type{Kind: KindString}
	Nil        = Type{Kind: KindNil}
	Pair       = Type{Kind: KindPair}
	Quote      = Type{Kind: KindQuote}
)

// MakeVector describes a homogeneous vector of elem.
func MakeVector(elem Type) Type {
	e := elem
	return Type{Kind: KindVector, Elem: &e}
}

// MakeObject describes the object type name with the given direct super types.
func MakeObject(name source.StringID, supers ...Type) Type {
	var st []Type
	if len(supers) > 0 {
		st = make([]Type, len(supers))
		copy(st, supers)
	}
	return Type{Kind: KindObject, Obj: &ObjType{Name: name, SuperTypes: st}}
}

// MakeLambda describes a function returning ret and taking args.
func MakeLambda(ret Type, args ...Type) Type {
	r := ret
	var at []Type
	if len(args) > 0 {
		at = make([]Type, len(args))
		copy(at, args)
	}
	return Type{Kind: KindLambda, Fn: &FuncType{Return: &r, Args: at}}
}

// IsResolved reports whether t is anything but the Unresolved sentinel.
func (t Type) IsResolved() bool {
	return t.Kind != KindUnresolved
}

// ObjectName returns the object's name, or NoStringID for other kinds.
func (t Type) ObjectName() source.StringID {
	if t.Kind != KindObject || t.Obj == nil {
		return source.NoStringID
	}
	return t.Obj.Name
}

// ElemType returns the element type of a vector, Unresolved otherwise.
func (t Type) ElemType() Type {
	if t.Kind != KindVector || t.Elem == nil {
		return Unresolved
	}
	return *t.Elem
}

// ReturnType returns the result type of a lambda, Unresolved otherwise.
func (t Type) ReturnType() Type {
	if t.Kind != KindLambda || t.Fn == nil || t.Fn.Return == nil {
		return Unresolved
	}
	return *t.Fn.Return
}

// Clone returns a deep copy of t that shares no payload with it.
func (t Type) Clone() Type {
	out := Type{Kind: t.Kind}
	if t.Elem != nil {
		e := t.Elem.Clone()
		out.Elem = &e
	}
	if t.Obj != nil {
		out.Obj = &ObjType{Name: t.Obj.Name, SuperTypes: cloneTypes(t.Obj.SuperTypes)}
	}
	if t.Fn != nil {
		fn := &FuncType{Args: cloneTypes(t.Fn.Args)}
		if t.Fn.Return != nil {
			r := t.Fn.Return.Clone()
			fn.Return = &r
		}
		out.Fn = fn
	}
	return out
}

func cloneTypes(in []Type) []Type {
	if len(in) == 0 {
		return nil
	}
	out := make([]Type, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
