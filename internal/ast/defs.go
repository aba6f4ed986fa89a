package ast

import (
	"lumen/internal/source"
	"lumen/internal/types"
)

// Type names written in the source are kept as handles (DType); NoStringID
// means no annotation. Resolved types are written back by the semantic pass
// into the Typ/CType slots.

// DefVariable binds Name to the value of Value.
type DefVariable struct {
	Base
	Name      source.StringID
	Modifiers []Mod
	Value     Node
	DType     source.StringID
	Typ       types.Type
}

// DefLambda is an anonymous function. Typ holds its Lambda type after checking.
type DefLambda struct {
	Base
	Modifiers []Mod
	Params    []*Param
	Body      Node
	DType     source.StringID // declared return type
	Typ       types.Type
}

// DefFunction is a named lambda.
type DefFunction struct {
	Base
	Name   source.StringID
	Lambda *DefLambda
}

// Param is a lambda parameter.
type Param struct {
	Sp       source.Span
	Name     source.StringID
	Optional bool
	Default  Node
	Dynamic  bool
	Mutable  bool
	DType    source.StringID
	CType    types.Type
}

// DefStruct declares a plain record object type.
type DefStruct struct {
	Base
	Name   source.StringID
	Fields []*Field
	Typ    types.Type
}

// DefClass declares an object type with behaviour. Supers lists the names
// of the direct super types.
type DefClass struct {
	Base
	Name     source.StringID
	Supers   []source.StringID
	Params   []Mod
	Fields   []*Field
	Init     []*DefLambda
	Methods  []*DefFunction
	PreInit  Node
	PostInit Node
	Final    Node
	Validate Node
	Typ      types.Type
}

// EmptyClass returns a class definition with only a name.
func EmptyClass(name source.StringID, sp source.Span) *DefClass {
	return &DefClass{Base: Base{Sp: sp}, Name: name}
}

// Field is a struct or class field.
type Field struct {
	Sp        source.Span
	Name      source.StringID
	Modifiers []Mod
	DType     source.StringID
	Default   Node
	CType     types.Type
}
