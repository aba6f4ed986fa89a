// Package astio loads syntax trees written as YAML documents.
//
// A document is a sequence of top-level nodes. Each node is either a bare
// scalar or a mapping with exactly one kind key:
//
//	- {def: x, type: int, value: 1}
//	- {func: add, params: [{name: a, type: int}, b], body: [{op: +, args: [a, b]}]}
//	- {call: add, args: [1, 2.5]}
//
// Bare plain scalars are identifiers when they are strings and literals
// otherwise; quoted scalars are string literals. A sequence in node
// position is a vector literal, in body position a block.
//
// Malformed nodes are reported as diagnostics and replaced by nil literals
// so the resulting tree is always complete.
package astio

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/source"
)

// ErrMalformed marks a document that contained invalid nodes.
var ErrMalformed = errors.New("malformed syntax tree")

// Load decodes f into a syntax tree, interning every name into strings.
// Problems with individual nodes go to reporter; the returned error wraps
// ErrMalformed when there were any, and the YAML error when the document
// could not be parsed at all.
func Load(f *source.File, strings *source.Interner, reporter diag.Reporter) (*ast.File, error) {
	if f == nil {
		return nil, errors.New("astio: nil file")
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	out := &ast.File{ID: f.ID, Path: f.Path}

	var doc yaml.Node
	if err := yaml.Unmarshal(f.Content, &doc); err != nil {
		return out, fmt.Errorf("astio: parse %s: %w", f.Path, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return out, nil
	}

	d := &decoder{file: f, strings: strings, reporter: reporter}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		out.Nodes = make([]ast.Node, 0, len(root.Content))
		for _, n := range root.Content {
			out.Nodes = append(out.Nodes, d.node(n))
		}
	case yaml.ScalarNode:
		if root.Tag != "!!null" {
			d.fail(root, "document must be a sequence of nodes")
		}
	default:
		d.fail(root, "document must be a sequence of nodes")
	}

	if d.failures > 0 {
		return out, fmt.Errorf("astio: %s: %d invalid nodes: %w", f.Path, d.failures, ErrMalformed)
	}
	return out, nil
}

// maxAliasNodes bounds how many nodes may be decoded through aliases in
// one document.
const maxAliasNodes = 10000

type decoder struct {
	file     *source.File
	strings  *source.Interner
	reporter diag.Reporter
	failures int
	// aliasDepth > 0 while decoding through an alias
	aliasDepth int
	aliased    int
}

func (d *decoder) span(n *yaml.Node) source.Span {
	line, errLine := safecast.Conv[uint32](n.Line)
	col, errCol := safecast.Conv[uint32](n.Column)
	if errLine != nil || errCol != nil {
		return source.Span{File: d.file.ID}
	}
	return source.Span{File: d.file.ID, Line: line, Col: col}
}

func (d *decoder) base(n *yaml.Node) ast.Base {
	return ast.Base{Sp: d.span(n)}
}

func (d *decoder) fail(n *yaml.Node, format string, args ...any) {
	d.report(diag.InputMalformed, n, format, args...)
}

func (d *decoder) report(code diag.Code, n *yaml.Node, format string, args ...any) {
	d.failures++
	diag.ReportError(d.reporter, code, d.span(n), fmt.Sprintf(format, args...)).Emit()
}

// placeholder stands in for a node that failed to decode.
func (d *decoder) placeholder(n *yaml.Node) ast.Node {
	return &ast.Nil{Base: d.base(n)}
}

// intern stores identifier text in NFC so that canonically equal names
// share one handle.
func (d *decoder) intern(text string) source.StringID {
	return d.strings.Intern(norm.NFC.String(text))
}

// name decodes an identifier scalar.
func (d *decoder) name(n *yaml.Node, what string) (source.StringID, bool) {
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" || n.Value == "" {
		if n != nil {
			d.fail(n, "%s must be a name", what)
		}
		return source.NoStringID, false
	}
	return d.intern(n.Value), true
}

func isQuoted(n *yaml.Node) bool {
	return n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0
}

// mapping is a YAML mapping being consumed key by key; keys left unread
// are reported by done.
type mapping struct {
	d     *decoder
	raw   *yaml.Node
	kind  string
	vals  map[string]*yaml.Node
	keys  map[string]*yaml.Node
	order []string
	used  map[string]bool
}

func (d *decoder) mapping(n *yaml.Node, kind string) (*mapping, bool) {
	if n.Kind != yaml.MappingNode {
		d.fail(n, "%s must be a mapping", kind)
		return nil, false
	}
	m := &mapping{
		d:    d,
		raw:  n,
		kind: kind,
		vals: make(map[string]*yaml.Node, len(n.Content)/2),
		keys: make(map[string]*yaml.Node, len(n.Content)/2),
		used: make(map[string]bool, len(n.Content)/2),
	}
	ok := true
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			d.fail(k, "keys of %s must be scalars", kind)
			ok = false
			continue
		}
		if _, dup := m.vals[k.Value]; dup {
			d.fail(k, "duplicate key %q in %s", k.Value, kind)
			ok = false
			continue
		}
		m.vals[k.Value] = v
		m.keys[k.Value] = k
		m.order = append(m.order, k.Value)
	}
	return m, ok
}

func (m *mapping) has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

// get returns the value under key, or nil.
func (m *mapping) get(key string) *yaml.Node {
	v, ok := m.vals[key]
	if !ok {
		return nil
	}
	m.used[key] = true
	return v
}

func (m *mapping) require(key string) (*yaml.Node, bool) {
	v := m.get(key)
	if v == nil {
		m.d.fail(m.raw, "%s is missing %q", m.kind, key)
		return nil, false
	}
	return v, true
}

func (m *mapping) name(key string) source.StringID {
	v, ok := m.require(key)
	if !ok {
		return source.NoStringID
	}
	id, _ := m.d.name(v, m.kind+"."+key)
	return id
}

// optName returns NoStringID when key is absent or null.
func (m *mapping) optName(key string) source.StringID {
	v := m.get(key)
	if v == nil || (v.Kind == yaml.ScalarNode && v.Tag == "!!null") {
		return source.NoStringID
	}
	id, _ := m.d.name(v, m.kind+"."+key)
	return id
}

// node decodes a required child node.
func (m *mapping) node(key string) ast.Node {
	v, ok := m.require(key)
	if !ok {
		return m.d.placeholder(m.raw)
	}
	return m.d.node(v)
}

// optNode decodes an optional child node; absent gives nil.
func (m *mapping) optNode(key string) ast.Node {
	v := m.get(key)
	if v == nil {
		return nil
	}
	return m.d.node(v)
}

// body decodes a required block.
func (m *mapping) body(key string) ast.Node {
	v, ok := m.require(key)
	if !ok {
		return m.d.placeholder(m.raw)
	}
	return m.d.body(v)
}

// optBody decodes an optional block; absent gives nil.
func (m *mapping) optBody(key string) ast.Node {
	v := m.get(key)
	if v == nil {
		return nil
	}
	return m.d.body(v)
}

func (m *mapping) flag(key string) bool {
	v := m.get(key)
	if v == nil {
		return false
	}
	var b bool
	if v.Kind != yaml.ScalarNode || v.Decode(&b) != nil {
		m.d.fail(v, "%s.%s must be a boolean", m.kind, key)
		return false
	}
	return b
}

// seq returns the items of a sequence under key; absent or null gives nil.
func (m *mapping) seq(key string) []*yaml.Node {
	v := m.get(key)
	return m.d.seq(v, m.kind+"."+key)
}

func (d *decoder) seq(v *yaml.Node, what string) []*yaml.Node {
	if v == nil || (v.Kind == yaml.ScalarNode && v.Tag == "!!null") {
		return nil
	}
	if v.Kind != yaml.SequenceNode {
		d.fail(v, "%s must be a sequence", what)
		return nil
	}
	return v.Content
}

func (m *mapping) mods(key string) []ast.Mod {
	items := m.seq(key)
	if len(items) == 0 {
		return nil
	}
	out := make([]ast.Mod, 0, len(items))
	for _, it := range items {
		mod, ok := ast.ParseMod(it.Value)
		if it.Kind != yaml.ScalarNode || !ok {
			m.d.fail(it, "unknown modifier %q", it.Value)
			continue
		}
		out = append(out, mod)
	}
	return out
}

// done reports keys nobody asked for.
func (m *mapping) done() {
	for _, k := range m.order {
		if !m.used[k] {
			m.d.fail(m.keys[k], "unknown key %q in %s", k, m.kind)
		}
	}
}
