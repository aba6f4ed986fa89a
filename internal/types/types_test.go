package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"lumen/internal/source"
)

func TestZeroValueIsUnresolved(t *testing.T) {
	var tt Type
	if tt.IsResolved() {
		t.Fatalf("zero Type must be Unresolved")
	}
	if !Equal(tt, Unresolved) {
		t.Fatalf("zero Type must equal Unresolved")
	}
}

func TestEqualIsStructural(t *testing.T) {
	in := source.NewInterner()
	animal := in.Intern("Animal")
	dog := in.Intern("Dog")

	cases := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same scalar", Integer, Integer, true},
		{"different scalar", Integer, Float, false},
		{"vector same elem", MakeVector(String), MakeVector(String), true},
		{"vector different elem", MakeVector(String), MakeVector(Integer), false},
		{"nested vector", MakeVector(MakeVector(Nil)), MakeVector(MakeVector(Nil)), true},
		{"object same name", MakeObject(animal), MakeObject(animal), true},
		{"object different name", MakeObject(animal), MakeObject(dog), false},
		{"object supers differ", MakeObject(dog, MakeObject(animal)), MakeObject(dog), false},
		{"object supers same", MakeObject(dog, MakeObject(animal)), MakeObject(dog, MakeObject(animal)), true},
		{"lambda same", MakeLambda(Boolean, Integer, Float), MakeLambda(Boolean, Integer, Float), true},
		{"lambda arity", MakeLambda(Boolean, Integer), MakeLambda(Boolean, Integer, Float), false},
		{"lambda return", MakeLambda(Boolean), MakeLambda(Nil), false},
		{"vector vs scalar", MakeVector(Integer), Integer, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := tc.b.Equal(tc.a); got != tc.want {
				t.Fatalf("Equal is not symmetric for %v, %v", tc.a, tc.b)
			}
		})
	}
}

func TestConstructorsCopyInputs(t *testing.T) {
	args := []Type{Integer, Float}
	fn := MakeLambda(Nil, args...)
	args[0] = String
	if fn.Fn.Args[0].Kind != KindInteger {
		t.Fatalf("MakeLambda must copy its argument slice")
	}

	supers := []Type{MakeObject(1)}
	obj := MakeObject(2, supers...)
	supers[0] = Integer
	if obj.Obj.SuperTypes[0].Kind != KindObject {
		t.Fatalf("MakeObject must copy its super type slice")
	}
}

func TestCloneSharesNothing(t *testing.T) {
	orig := MakeObject(3, MakeObject(4, MakeVector(Integer)))
	cp := orig.Clone()
	if diff := cmp.Diff(orig, cp); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}
	cp.Obj.SuperTypes[0].Obj.Name = 9
	if orig.Obj.SuperTypes[0].Obj.Name != 4 {
		t.Fatalf("mutating the clone leaked into the original")
	}
}

func TestAccessors(t *testing.T) {
	if got := MakeVector(Float).ElemType(); !Equal(got, Float) {
		t.Fatalf("ElemType = %v", got)
	}
	if got := Integer.ElemType(); got.IsResolved() {
		t.Fatalf("ElemType of scalar = %v", got)
	}
	if got := MakeLambda(String).ReturnType(); !Equal(got, String) {
		t.Fatalf("ReturnType = %v", got)
	}
	if got := MakeObject(5).ObjectName(); got != 5 {
		t.Fatalf("ObjectName = %d", got)
	}
	if Integer.ObjectName() != source.NoStringID {
		t.Fatalf("ObjectName of scalar must be NoStringID")
	}
}

func TestLabel(t *testing.T) {
	in := source.NewInterner()
	animal := in.Intern("Animal")
	dog := in.Intern("Dog")

	cases := []struct {
		t    Type
		want string
	}{
		{Unresolved, "?"},
		{Integer, "int"},
		{MakeVector(MakeVector(String)), "vector<vector<string>>"},
		{MakeObject(animal), "object Animal"},
		{MakeObject(dog, MakeObject(animal)), "object Dog : Animal"},
		{MakeLambda(Boolean, Integer, Float), "(int, float) -> bool"},
		{MakeLambda(Unresolved), "() -> ?"},
	}
	for _, tc := range cases {
		if got := Label(tc.t, in); got != tc.want {
			t.Errorf("Label = %q, want %q", got, tc.want)
		}
	}
	if got := MakeObject(animal).String(); got != "object #14" {
		t.Errorf("String without interner = %q", got)
	}
}
