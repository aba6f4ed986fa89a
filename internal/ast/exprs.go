package ast

import (
	"lumen/internal/source"
	"lumen/internal/types"
)

// Assignment rebinds an existing variable.
type Assignment struct {
	Base
	Name  source.StringID
	Value Node
}

// Multi evaluates Exprs in order as one lexical block.
type Multi struct {
	Base
	Exprs []Node
}

type Print struct {
	Base
	Expr Node
}

// CondBranch is one guarded branch of If/Cond.
type CondBranch struct {
	Cond Node
	Then Node
	Typ  types.Type
}

type If struct {
	Base
	Branch   CondBranch
	Else     Node
	ElseType types.Type
}

type Cond struct {
	Base
	Branches []CondBranch
	Else     Node
	ElseType types.Type
}

// While loops over Body; IsDo evaluates the body once before the test.
type While struct {
	Base
	Cond Node
	Body Node
	IsDo bool
}

type Cons struct {
	Base
	Car Node
	Cdr Node
}

// PairList builds a list out of its operands.
type PairList struct {
	Base
	Op       Op
	Operands []Node
	Typ      types.Type
}

// ListAccess indexes List either by Index or by a named Pattern.
type ListAccess struct {
	Base
	Index   Node
	Pattern source.StringID
	List    Node
}

// FuncArg is a positional (Name == NoStringID) or named argument.
type FuncArg struct {
	Value Node
	Name  source.StringID
}

type FuncCall struct {
	Base
	Name source.StringID
	Args []FuncArg
}

// InnerFuncCall calls the value of an arbitrary expression.
type InnerFuncCall struct {
	Base
	Expr      Node
	Accessors []Accessor
	Args      []FuncArg
}

// Accessor is one step of a member access chain.
type Accessor struct {
	Sp      source.Span
	Name    source.StringID
	IsField bool
	Args    []FuncArg
}

// ObjectCall reads a member chain rooted at the variable Name.
type ObjectCall struct {
	Base
	Name      source.StringID
	Accessors []Accessor
}

type ObjectAssign struct {
	Base
	Access *ObjectCall
	Value  Node
}

// LiteralCall is a bare identifier reference.
type LiteralCall struct {
	Base
	Name source.StringID
}

// GenRand produces a random number in [Lower, Upper].
type GenRand struct {
	Base
	IsFloat bool
	Lower   Node
	Upper   Node
}

// InstArg is a field initializer of a direct instantiation.
type InstArg struct {
	Name  source.StringID
	Value Node
}

// DirectInst builds an object by naming its fields.
type DirectInst struct {
	Base
	Name source.StringID
	Args []InstArg
}

// InitInst builds an object through its init lambdas.
type InitInst struct {
	Base
	Name source.StringID
	Args []FuncArg
}

type Operation struct {
	Base
	Op       Op
	Operands []Node
	Typ      types.Type
}
