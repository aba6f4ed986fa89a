package ast

import (
	"lumen/internal/source"
)

// Node is any construct of the syntax tree.
type Node interface {
	Span() source.Span
	node()
}

// Base carries the location every node shares.
type Base struct {
	Sp source.Span
}

func (b Base) Span() source.Span { return b.Sp }
func (Base) node()                {}

// File is one parsed compilation unit.
type File struct {
	ID    source.FileID
	Path  string
	Nodes []Node
}

// Mod is a declaration modifier.
type Mod uint8

const (
	ModInvalid Mod = iota
	ModMutable
	ModConst
	ModPublic
	ModPrivate
	ModOptional
	ModDynamic
	ModStatic
)

var modNames = [...]string{
	ModInvalid:  "invalid",
	ModMutable:  "mut",
	ModConst:    "const",
	ModPublic:   "pub",
	ModPrivate:  "priv",
	ModOptional: "opt",
	ModDynamic:  "dyn",
	ModStatic:   "static",
}

func (m Mod) String() string {
	if int(m) < len(modNames) {
		return modNames[m]
	}
	return "invalid"
}

// ParseMod maps modifier text to a Mod, reporting false when unknown.
func ParseMod(s string) (Mod, bool) {
	for i, name := range modNames {
		if i != int(ModInvalid) && name == s {
			return Mod(i), true
		}
	}
	return ModInvalid, false
}

// HasMod reports whether mods contains m.
func HasMod(mods []Mod, m Mod) bool {
	for _, x := range mods {
		if x == m {
			return true
		}
	}
	return false
}
