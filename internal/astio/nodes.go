package astio

import (
	"gopkg.in/yaml.v3"

	"lumen/internal/ast"
	"lumen/internal/diag"
)

// kindKeys are the keys that select the node kind of a mapping.
var kindKeys = map[string]bool{
	"int": true, "float": true, "bool": true, "string": true, "nil": true,
	"quote": true, "pair": true, "vector": true, "ref": true,
	"def": true, "lambda": true, "func": true, "struct": true, "class": true,
	"set": true, "do": true, "print": true, "if": true, "cond": true,
	"while": true, "cons": true, "list": true, "at": true, "call": true,
	"invoke": true, "get": true, "put": true, "rand": true, "new": true,
	"make": true, "op": true,
}

// node decodes any node in expression position.
func (d *decoder) node(n *yaml.Node) ast.Node {
	if d.aliasDepth > 0 {
		d.aliased++
		if d.aliased > maxAliasNodes {
			if d.aliased == maxAliasNodes+1 {
				d.fail(n, "document expands more than %d nodes through aliases", maxAliasNodes)
			}
			return d.placeholder(n)
		}
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.SequenceNode:
		return d.vector(n, n.Content)
	case yaml.MappingNode:
		return d.compound(n)
	case yaml.AliasNode:
		if n.Alias != nil {
			d.aliasDepth++
			defer func() { d.aliasDepth-- }()
			return d.node(n.Alias)
		}
	}
	d.fail(n, "unsupported YAML node")
	return d.placeholder(n)
}

// body decodes a block: a sequence becomes one Multi.
func (d *decoder) body(n *yaml.Node) ast.Node {
	if n.Kind != yaml.SequenceNode {
		return d.node(n)
	}
	return d.multi(n, n.Content)
}

func (d *decoder) multi(n *yaml.Node, items []*yaml.Node) *ast.Multi {
	m := &ast.Multi{Base: d.base(n), Exprs: make([]ast.Node, 0, len(items))}
	for _, it := range items {
		m.Exprs = append(m.Exprs, d.node(it))
	}
	return m
}

func (d *decoder) nodes(items []*yaml.Node) []ast.Node {
	if len(items) == 0 {
		return nil
	}
	out := make([]ast.Node, 0, len(items))
	for _, it := range items {
		out = append(out, d.node(it))
	}
	return out
}

func (d *decoder) vector(n *yaml.Node, items []*yaml.Node) *ast.Vector {
	return &ast.Vector{Base: d.base(n), Elems: d.nodes(items)}
}

func (d *decoder) scalar(n *yaml.Node) ast.Node {
	b := d.base(n)
	switch n.Tag {
	case "!!null":
		return &ast.Nil{Base: b}
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			d.fail(n, "invalid boolean %q", n.Value)
			return d.placeholder(n)
		}
		return &ast.Boolean{Base: b, Value: v}
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			d.fail(n, "invalid integer %q", n.Value)
			return d.placeholder(n)
		}
		return &ast.Integer{Base: b, Value: v}
	case "!!float":
		var v float64
		if err := n.Decode(&v); err != nil {
			d.fail(n, "invalid float %q", n.Value)
			return d.placeholder(n)
		}
		return &ast.Float{Base: b, Value: v}
	case "!!str":
		if isQuoted(n) {
			return &ast.String{Base: b, Value: n.Value}
		}
		if n.Value == "" {
			d.fail(n, "empty identifier")
			return d.placeholder(n)
		}
		return &ast.LiteralCall{Base: b, Name: d.intern(n.Value)}
	default:
		d.fail(n, "unsupported scalar tag %s", n.Tag)
		return d.placeholder(n)
	}
}

// compound decodes a mapping by its kind key.
func (d *decoder) compound(n *yaml.Node) ast.Node {
	kind := ""
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind != yaml.ScalarNode || !kindKeys[k.Value] {
			continue
		}
		if kind != "" {
			d.fail(k, "node has both %q and %q", kind, k.Value)
			return d.placeholder(n)
		}
		kind = k.Value
	}
	if kind == "" {
		d.fail(n, "mapping has no node kind")
		return d.placeholder(n)
	}

	m, ok := d.mapping(n, kind)
	if !ok {
		return d.placeholder(n)
	}
	out := d.decodeKind(m)
	m.done()
	if out == nil {
		return d.placeholder(n)
	}
	return out
}

func (d *decoder) decodeKind(m *mapping) ast.Node {
	n := m.raw
	b := d.base(n)
	v := m.get(m.kind)

	switch m.kind {
	case "int", "float", "bool":
		if v.Kind != yaml.ScalarNode {
			d.fail(v, "%s literal expected", m.kind)
			return nil
		}
		lit := d.scalar(v)
		if !literalMatches(m.kind, lit) {
			d.fail(v, "%s literal expected, found %q", m.kind, v.Value)
			return nil
		}
		return lit
	case "string":
		if v.Kind != yaml.ScalarNode {
			d.fail(v, "string literal expected")
			return nil
		}
		return &ast.String{Base: b, Value: v.Value}
	case "nil":
		return &ast.Nil{Base: b}
	case "quote":
		return &ast.Quote{Base: b}
	case "pair":
		return &ast.Pair{Base: b}
	case "vector":
		return d.vector(n, d.seq(v, "vector"))
	case "ref":
		id, ok := d.name(v, "ref")
		if !ok {
			return nil
		}
		return &ast.LiteralCall{Base: b, Name: id}

	case "def":
		return d.defVariable(m)
	case "lambda":
		return d.lambda(m, d.seq(v, "lambda"))
	case "func":
		return d.function(m)
	case "struct":
		return d.defStruct(m)
	case "class":
		return d.defClass(m)

	case "set":
		return &ast.Assignment{Base: b, Name: m.name("set"), Value: m.node("value")}
	case "do":
		return d.multi(n, d.seq(v, "do"))
	case "print":
		return &ast.Print{Base: b, Expr: d.node(v)}
	case "if":
		return &ast.If{
			Base:   b,
			Branch: ast.CondBranch{Cond: d.node(v), Then: m.body("then")},
			Else:   m.optBody("else"),
		}
	case "cond":
		return d.cond(m, v)
	case "while":
		return &ast.While{Base: b, Cond: d.node(v), Body: m.optBody("body"), IsDo: m.flag("dowhile")}
	case "cons":
		items := d.seq(v, "cons")
		if len(items) != 2 {
			d.fail(v, "cons takes exactly two items, found %d", len(items))
			return nil
		}
		return &ast.Cons{Base: b, Car: d.node(items[0]), Cdr: d.node(items[1])}
	case "list":
		return &ast.PairList{Base: b, Op: ast.OpList, Operands: d.nodes(d.seq(v, "list"))}
	case "at":
		la := &ast.ListAccess{Base: b, List: d.node(v), Index: m.optNode("index"), Pattern: m.optName("pattern")}
		if (la.Index == nil) == (!la.Pattern.IsValid()) {
			d.fail(n, "at needs exactly one of index and pattern")
			return nil
		}
		return la
	case "call":
		return &ast.FuncCall{Base: b, Name: m.name("call"), Args: d.args(m.seq("args"))}
	case "invoke":
		return &ast.InnerFuncCall{
			Base:      b,
			Expr:      d.node(v),
			Accessors: d.accessors(m.seq("access")),
			Args:      d.args(m.seq("args")),
		}
	case "get":
		return &ast.ObjectCall{Base: b, Name: m.name("get"), Accessors: d.accessors(m.seq("access"))}
	case "put":
		return &ast.ObjectAssign{
			Base:   b,
			Access: &ast.ObjectCall{Base: b, Name: m.name("put"), Accessors: d.accessors(m.seq("access"))},
			Value:  m.node("value"),
		}
	case "rand":
		if v.Kind != yaml.ScalarNode || (v.Value != "int" && v.Value != "float") {
			d.fail(v, "rand must be int or float")
			return nil
		}
		return &ast.GenRand{Base: b, IsFloat: v.Value == "float", Lower: m.optNode("lower"), Upper: m.optNode("upper")}
	case "new":
		return &ast.DirectInst{Base: b, Name: m.name("new"), Args: d.instArgs(m.seq("args"))}
	case "make":
		return &ast.InitInst{Base: b, Name: m.name("make"), Args: d.args(m.seq("args"))}
	case "op":
		op, ok := ast.ParseOp(v.Value)
		if v.Kind != yaml.ScalarNode || !ok {
			d.report(diag.InputUnknownOp, v, "unknown operator %q", v.Value)
			m.seq("args")
			return nil
		}
		operands := d.nodes(m.seq("args"))
		if op == ast.OpList {
			return &ast.PairList{Base: b, Op: op, Operands: operands}
		}
		return &ast.Operation{Base: b, Op: op, Operands: operands}
	}
	d.fail(n, "unhandled node kind %q", m.kind)
	return nil
}

func literalMatches(kind string, n ast.Node) bool {
	switch n.(type) {
	case *ast.Integer:
		return kind == "int"
	case *ast.Float:
		return kind == "float"
	case *ast.Boolean:
		return kind == "bool"
	}
	return false
}

func (d *decoder) defVariable(m *mapping) ast.Node {
	return &ast.DefVariable{
		Base:      d.base(m.raw),
		Name:      m.name("def"),
		Modifiers: m.mods("mods"),
		Value:     m.node("value"),
		DType:     m.optName("type"),
	}
}

// lambda decodes the lambda-shaped keys of m: params (given), returns,
// body and mods.
func (d *decoder) lambda(m *mapping, params []*yaml.Node) *ast.DefLambda {
	l := &ast.DefLambda{
		Base:      d.base(m.raw),
		Modifiers: m.mods("mods"),
		DType:     m.optName("returns"),
	}
	for _, p := range params {
		if param := d.param(p); param != nil {
			l.Params = append(l.Params, param)
		}
	}
	l.Body = m.optBody("body")
	return l
}

func (d *decoder) function(m *mapping) ast.Node {
	name := m.name("func")
	return &ast.DefFunction{Base: d.base(m.raw), Name: name, Lambda: d.lambda(m, m.seq("params"))}
}

func (d *decoder) param(n *yaml.Node) *ast.Param {
	if n.Kind == yaml.ScalarNode {
		id, ok := d.name(n, "parameter")
		if !ok {
			return nil
		}
		return &ast.Param{Sp: d.span(n), Name: id}
	}
	m, ok := d.mapping(n, "parameter")
	if !ok {
		return nil
	}
	defer m.done()
	return &ast.Param{
		Sp:       d.span(n),
		Name:     m.name("name"),
		DType:    m.optName("type"),
		Default:  m.optNode("default"),
		Optional: m.flag("optional"),
		Dynamic:  m.flag("dyn"),
		Mutable:  m.flag("mut"),
	}
}

func (d *decoder) field(n *yaml.Node) *ast.Field {
	if n.Kind == yaml.ScalarNode {
		id, ok := d.name(n, "field")
		if !ok {
			return nil
		}
		return &ast.Field{Sp: d.span(n), Name: id}
	}
	m, ok := d.mapping(n, "field")
	if !ok {
		return nil
	}
	defer m.done()
	return &ast.Field{
		Sp:        d.span(n),
		Name:      m.name("name"),
		Modifiers: m.mods("mods"),
		DType:     m.optName("type"),
		Default:   m.optNode("default"),
	}
}

func (d *decoder) fields(items []*yaml.Node) []*ast.Field {
	var out []*ast.Field
	for _, it := range items {
		if f := d.field(it); f != nil {
			out = append(out, f)
		}
	}
	return out
}

func (d *decoder) defStruct(m *mapping) ast.Node {
	return &ast.DefStruct{Base: d.base(m.raw), Name: m.name("struct"), Fields: d.fields(m.seq("fields"))}
}

func (d *decoder) defClass(m *mapping) ast.Node {
	cl := ast.EmptyClass(m.name("class"), d.span(m.raw))
	for _, s := range m.seq("supers") {
		if id, ok := d.name(s, "super type"); ok {
			cl.Supers = append(cl.Supers, id)
		}
	}
	cl.Params = m.mods("params")
	cl.Fields = d.fields(m.seq("fields"))
	for _, it := range m.seq("init") {
		im, ok := d.mapping(it, "init")
		if !ok {
			continue
		}
		cl.Init = append(cl.Init, d.lambda(im, im.seq("params")))
		im.done()
	}
	for _, it := range m.seq("methods") {
		fn, ok := d.node(it).(*ast.DefFunction)
		if !ok {
			d.fail(it, "methods must be func nodes")
			continue
		}
		cl.Methods = append(cl.Methods, fn)
	}
	cl.PreInit = m.optBody("pre")
	cl.PostInit = m.optBody("post")
	cl.Final = m.optBody("final")
	cl.Validate = m.optBody("validate")
	return cl
}

func (d *decoder) cond(m *mapping, v *yaml.Node) ast.Node {
	c := &ast.Cond{Base: d.base(m.raw)}
	for _, it := range d.seq(v, "cond") {
		bm, ok := d.mapping(it, "cond branch")
		if !ok {
			continue
		}
		c.Branches = append(c.Branches, ast.CondBranch{Cond: bm.node("when"), Then: bm.body("then")})
		bm.done()
	}
	c.Else = m.optBody("else")
	return c
}

// args decodes call arguments: plain nodes, or {named: n, value: v}.
func (d *decoder) args(items []*yaml.Node) []ast.FuncArg {
	if len(items) == 0 {
		return nil
	}
	out := make([]ast.FuncArg, 0, len(items))
	for _, it := range items {
		if it.Kind == yaml.MappingNode && hasKey(it, "named") {
			m, ok := d.mapping(it, "named argument")
			if !ok {
				continue
			}
			out = append(out, ast.FuncArg{Name: m.name("named"), Value: m.node("value")})
			m.done()
			continue
		}
		out = append(out, ast.FuncArg{Value: d.node(it)})
	}
	return out
}

func (d *decoder) instArgs(items []*yaml.Node) []ast.InstArg {
	var out []ast.InstArg
	for _, it := range items {
		m, ok := d.mapping(it, "field initializer")
		if !ok {
			continue
		}
		out = append(out, ast.InstArg{Name: m.name("name"), Value: m.node("value")})
		m.done()
	}
	return out
}

// accessors decodes [{field: x} | {method: m, args: [...]}].
func (d *decoder) accessors(items []*yaml.Node) []ast.Accessor {
	var out []ast.Accessor
	for _, it := range items {
		m, ok := d.mapping(it, "accessor")
		if !ok {
			continue
		}
		switch {
		case m.has("field") && !m.has("method"):
			out = append(out, ast.Accessor{Sp: d.span(it), Name: m.name("field"), IsField: true})
		case m.has("method") && !m.has("field"):
			out = append(out, ast.Accessor{Sp: d.span(it), Name: m.name("method"), Args: d.args(m.seq("args"))})
		default:
			d.fail(it, "accessor needs exactly one of field and method")
			continue
		}
		m.done()
	}
	return out
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}
