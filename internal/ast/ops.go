package ast

// Op is an operator of an Operation node.
type Op uint8

const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpNot
	OpList
	OpCar
	OpCdr
)

// OpClass groups operators by how their result is typed.
type OpClass uint8

const (
	OpClassInvalid OpClass = iota
	OpClassArith
	OpClassCompare
	OpClassLogic
	OpClassList
)

var opSymbols = map[Op]string{
	OpAdd:  "+",
	OpSub:  "-",
	OpMul:  "*",
	OpDiv:  "/",
	OpMod:  "%",
	OpPow:  "^",
	OpEq:   "=",
	OpNe:   "!=",
	OpLt:   "<",
	OpLe:   "<=",
	OpGt:   ">",
	OpGe:   ">=",
	OpAnd:  "and",
	OpOr:   "or",
	OpNot:  "not",
	OpList: "list",
	OpCar:  "car",
	OpCdr:  "cdr",
}

func (op Op) String() string {
	if s, ok := opSymbols[op]; ok {
		return s
	}
	return "?"
}

// ParseOp maps operator text to an Op.
func ParseOp(s string) (Op, bool) {
	for op, sym := range opSymbols {
		if sym == s {
			return op, true
		}
	}
	return OpInvalid, false
}

// Class returns the typing class of op.
func (op Op) Class() OpClass {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow:
		return OpClassArith
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return OpClassCompare
	case OpAnd, OpOr, OpNot:
		return OpClassLogic
	case OpList, OpCar, OpCdr:
		return OpClassList
	default:
		return OpClassInvalid
	}
}
