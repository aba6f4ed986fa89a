package ast

import (
	"testing"
)

func TestInspectVisitsInSourceOrder(t *testing.T) {
	lit := func(v int64) Node { return &Integer{Value: v} }
	tree := &Multi{Exprs: []Node{
		&DefVariable{Name: 1, Value: lit(1)},
		&If{
			Branch: CondBranch{Cond: &Boolean{Value: true}, Then: lit(2)},
			Else:   lit(3),
		},
		&Operation{Op: OpAdd, Operands: []Node{lit(4), lit(5)}},
	}}

	var got []int64
	Inspect(tree, func(n Node) bool {
		if i, ok := n.(*Integer); ok {
			got = append(got, i.Value)
		}
		return true
	})
	want := []int64{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visited %v, want %v", got, want)
		}
	}
}

func TestInspectPrunes(t *testing.T) {
	tree := &Multi{Exprs: []Node{&Print{Expr: &Nil{}}}}
	count := 0
	Inspect(tree, func(n Node) bool {
		count++
		_, isPrint := n.(*Print)
		return !isPrint
	})
	if count != 2 {
		t.Fatalf("expected Multi and Print only, visited %d nodes", count)
	}
}

func TestChildrenSkipsNil(t *testing.T) {
	if got := Children(&If{Branch: CondBranch{Cond: &Nil{}}}); len(got) != 1 {
		t.Fatalf("Children = %d nodes, want 1", len(got))
	}
	if got := Children(&DefFunction{}); len(got) != 0 {
		t.Fatalf("function without lambda should have no children")
	}
}

func TestParseOpAndMod(t *testing.T) {
	for _, op := range []Op{OpAdd, OpLe, OpAnd, OpList} {
		back, ok := ParseOp(op.String())
		if !ok || back != op {
			t.Errorf("ParseOp(%q) = %v, %v", op.String(), back, ok)
		}
	}
	if _, ok := ParseOp("<=>"); ok {
		t.Errorf("unknown operator parsed")
	}
	if OpMul.Class() != OpClassArith || OpGe.Class() != OpClassCompare || OpNot.Class() != OpClassLogic {
		t.Errorf("operator classes wrong")
	}

	m, ok := ParseMod("mut")
	if !ok || m != ModMutable {
		t.Errorf("ParseMod(mut) = %v, %v", m, ok)
	}
	if _, ok := ParseMod("invalid"); ok {
		t.Errorf("the invalid modifier must not parse")
	}
	if !HasMod([]Mod{ModPublic, ModMutable}, ModMutable) || HasMod(nil, ModMutable) {
		t.Errorf("HasMod wrong")
	}
}
