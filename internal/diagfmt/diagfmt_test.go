package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/symbols"
	"lumen/internal/types"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("dir/prog.yaml", []byte("- {def: x, value: 1}\n- {def: x, value: 2}\n"))
	bag := diag.NewBag(0)
	r := diag.BagReporter{Bag: bag}
	diag.ReportError(r, diag.SemaDuplicateBinding, source.Span{File: id, Line: 2, Col: 3}, "redefinition of existing binding: x").
		WithNote(source.Span{File: id, Line: 1, Col: 3}, "previous binding here").
		WithNote(source.Span{}, "int is a built-in type").
		Emit()
	diag.ReportWarning(r, diag.SemaShadowBinding, source.Span{File: id, Line: 1, Col: 1}, "shadow").Emit()
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowSource: true})
	out := buf.String()

	for _, want := range []string{
		"dir/prog.yaml:2:3: ERROR SEM3002: redefinition of existing binding: x\n",
		" 2 | - {def: x, value: 2}\n",
		"   |   ^\n",
		"  note: dir/prog.yaml:1:3: previous binding here\n",
		"  note: int is a built-in type\n",
		"dir/prog.yaml:1:1: WARNING SEM3004: shadow\n",
		"1 error, 1 warning\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colour codes in plain output:\n%s", out)
	}
}

func TestPrettyColorAndBasename(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true, PathMode: PathModeBasename})
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected ANSI colours:\n%q", out)
	}
	if strings.Contains(out, "dir/") || strings.Contains(out, "note:") {
		t.Fatalf("unexpected path or notes:\n%s", out)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 1, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var got struct {
		Diagnostics []struct {
			Severity string `json:"severity"`
			Code     string `json:"code"`
			Location struct {
				File string `json:"file"`
				Line uint32 `json:"line"`
			} `json:"location"`
			Notes []NoteJSON `json:"notes"`
		} `json:"diagnostics"`
		Count   int `json:"count"`
		Dropped int `json:"dropped"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if got.Count != 1 || got.Dropped != 1 {
		t.Fatalf("count=%d dropped=%d", got.Count, got.Dropped)
	}
	d := got.Diagnostics[0]
	if d.Severity != "error" || d.Code != "SEM3002" || d.Location.File != "dir/prog.yaml" || d.Location.Line != 2 {
		t.Fatalf("diagnostic %+v", d)
	}
	if len(d.Notes) != 2 {
		t.Fatalf("notes %+v", d.Notes)
	}
}

func TestJSONEmptyBag(t *testing.T) {
	out := BuildDiagnosticsOutput(diag.NewBag(0), nil, JSONOpts{})
	if out.Diagnostics == nil || out.Count != 0 {
		t.Fatalf("empty output %+v", out)
	}
}

func TestSymbolTableAlignment(t *testing.T) {
	in := source.NewInterner()
	ctx := symbols.NewContext(in)
	wide := in.Intern("名前")
	if err := ctx.DeclareBinding(wide, types.String); err != nil {
		t.Fatal(err)
	}
	if err := ctx.DeclareBinding(in.Intern("n"), types.MakeVector(types.Integer)); err != nil {
		t.Fatal(err)
	}
	ctx.OpenScope()
	if err := ctx.DeclareBinding(in.Intern("local"), types.Float); err != nil {
		t.Fatal(err)
	}
	ctx.CloseScope()

	var buf bytes.Buffer
	SymbolTable(&buf, ctx.Tables(), in, TableOpts{})
	out := buf.String()
	if !strings.Contains(out, "scope 1\n") || !strings.Contains(out, "vector<int>") {
		t.Fatalf("unexpected table:\n%s", out)
	}

	// The TYPE column starts at the same display column in every globals row.
	lines := strings.Split(out, "\n")
	var col []int
	inGlobals := false
	for _, line := range lines {
		switch {
		case line == "globals":
			inGlobals = true
			continue
		case !strings.HasPrefix(line, "  "):
			inGlobals = false
		}
		if !inGlobals {
			continue
		}
		fields := strings.Fields(line)
		idx := strings.Index(line, " "+fields[1])
		col = append(col, runewidth.StringWidth(line[:idx]))
	}
	if len(col) != 3 {
		t.Fatalf("globals rows = %d:\n%s", len(col), out)
	}
	for _, c := range col[1:] {
		if c != col[0] {
			t.Fatalf("misaligned columns %v:\n%s", col, out)
		}
	}
}

func TestSymbolTableScopeFilter(t *testing.T) {
	in := source.NewInterner()
	ctx := symbols.NewContext(in)
	for range 2 {
		ctx.OpenScope()
		if err := ctx.DeclareBinding(in.Intern("v"), types.Integer); err != nil {
			t.Fatal(err)
		}
		ctx.CloseScope()
	}
	var buf bytes.Buffer
	SymbolTable(&buf, ctx.Tables(), in, TableOpts{Scopes: []symbols.ScopeID{2}})
	if out := buf.String(); strings.Contains(out, "scope 1") || !strings.Contains(out, "scope 2") {
		t.Fatalf("filter not applied:\n%s", out)
	}
}
