package types

import (
	"strings"

	"lumen/internal/source"
)

// Label returns a user-friendly label for t. Object names are looked up in
// in; a nil interner renders them as "#<id>".
func Label(t Type, in *source.Interner) string {
	var sb strings.Builder
	writeLabel(&sb, t, in, 0)
	return sb.String()
}

func (t Type) String() string {
	return Label(t, nil)
}

func writeLabel(sb *strings.Builder, t Type, in *source.Interner, depth int) {
	if depth > 8 {
		sb.WriteString("...")
		return
	}
	switch t.Kind {
	case KindVector:
		sb.WriteString("vector<")
		writeLabel(sb, t.ElemType(), in, depth+1)
		sb.WriteByte('>')
	case KindObject:
		sb.WriteString("object ")
		sb.WriteString(in.Display(t.ObjectName()))
		if t.Obj != nil && len(t.Obj.SuperTypes) > 0 {
			sb.WriteString(" : ")
			for i, st := range t.Obj.SuperTypes {
				if i > 0 {
					sb.WriteString(", ")
				}
				if st.Kind == KindObject {
					sb.WriteString(in.Display(st.ObjectName()))
					continue
				}
				writeLabel(sb, st, in, depth+1)
			}
		}
	case KindLambda:
		sb.WriteByte('(')
		if t.Fn != nil {
			for i, arg := range t.Fn.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				writeLabel(sb, arg, in, depth+1)
			}
		}
		sb.WriteString(") -> ")
		writeLabel(sb, t.ReturnType(), in, depth+1)
	case KindUnresolved:
		sb.WriteByte('?')
	default:
		sb.WriteString(t.Kind.String())
	}
}
