package ast

type Integer struct {
	Base
	Value int64
}

type Float struct {
	Base
	Value float64
}

type Boolean struct {
	Base
	Value bool
}

type String struct {
	Base
	Value string
}

type Quote struct{ Base }

type Nil struct{ Base }

// Vector is a vector literal. Elems may be empty.
type Vector struct {
	Base
	Elems []Node
}

type Pair struct{ Base }
