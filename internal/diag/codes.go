package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// input documents
	InputInfo      Code = 2000
	InputMalformed Code = 2001
	InputUnknownOp Code = 2002

	// semantic analysis
	SemaInfo             Code = 3000
	SemaError            Code = 3001
	SemaDuplicateBinding Code = 3002
	SemaScopeUnderflow   Code = 3003
	SemaShadowBinding    Code = 3004
	SemaUnresolvedSymbol Code = 3005
	SemaUnresolvedType   Code = 3006
	SemaNotImplemented   Code = 3007
	SemaTypeRedefined    Code = 3008
	SemaTypeMismatch     Code = 3009
	SemaNotCallable      Code = 3010
	SemaArgumentCount    Code = 3011
	SemaUnknownMember    Code = 3012
	SemaGlobalRedefined  Code = 3013

	// observability
	ObsInfo    Code = 9000
	ObsTimings Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	InputInfo:            "Input information",
	InputMalformed:       "Malformed syntax tree document",
	InputUnknownOp:       "Unknown operator",
	SemaInfo:             "Semantic information",
	SemaError:            "Semantic error",
	SemaDuplicateBinding: "Duplicate binding",
	SemaScopeUnderflow:   "Scope underflow",
	SemaShadowBinding:    "Binding shadows an outer binding",
	SemaUnresolvedSymbol: "Unresolved identifier",
	SemaUnresolvedType:   "Unresolved type",
	SemaNotImplemented:   "Not implemented",
	SemaTypeRedefined:    "Type redefinition",
	SemaTypeMismatch:     "Type mismatch",
	SemaNotCallable:      "Value is not callable",
	SemaArgumentCount:    "Wrong number of arguments",
	SemaUnknownMember:    "Unknown member",
	SemaGlobalRedefined:  "Global binding redefined",
	ObsInfo:              "Observability information",
	ObsTimings:           "Phase timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
