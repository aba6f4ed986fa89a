package source

// WellKnown holds handles for names the front end refers to directly:
// class lifecycle hooks and the built-in scalar type names.
type WellKnown struct {
	Init     StringID
	Param    StringID
	Var      StringID
	Func     StringID
	Pre      StringID
	Post     StringID
	Final    StringID
	Validate StringID

	Int    StringID
	Float  StringID
	Bool   StringID
	String StringID
	Nil    StringID
}

// order is fixed so every interner hands out the same handles for these names
func (i *Interner) internWellKnown() WellKnown {
	return WellKnown{
		Init:     i.Intern("init"),
		Param:    i.Intern("param"),
		Var:      i.Intern("var"),
		Func:     i.Intern("func"),
		Pre:      i.Intern("pre"),
		Post:     i.Intern("post"),
		Final:    i.Intern("final"),
		Validate: i.Intern("validate"),
		Int:      i.Intern("int"),
		Float:    i.Intern("float"),
		Bool:     i.Intern("bool"),
		String:   i.Intern("string"),
		Nil:      i.Intern("nil"),
	}
}
