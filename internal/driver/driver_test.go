package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/sema"
	"lumen/internal/source"
	"lumen/internal/symbols"
	"lumen/internal/types"
)

const goodProgram = `
- {def: limit, type: int, value: 10}
- func: twice
  params: [{name: n, type: int}]
  returns: int
  body:
    - {op: "*", args: [n, 2]}
- {def: r, value: {call: twice, args: [limit]}}
`

const badProgram = `
- func: pick
  params: [a, a]
  body: [a]
- {def: y, value: missing}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckFileClean(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "good.yaml", goodProgram)

	fs := source.NewFileSet()
	res, err := CheckFile(context.Background(), fs, path, Options{})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Bag.Items())
	}
	strings := res.Context.Strings()
	r, ok := res.Context.Global(strings.Intern("r"))
	if !ok || !types.Equal(r.Typ, types.Integer) {
		t.Fatalf("r = %+v", r)
	}
	if res.Context.Depth() != 0 {
		t.Fatalf("depth %d", res.Context.Depth())
	}
}

func TestCheckFileDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", badProgram)

	res, err := CheckFile(context.Background(), source.NewFileSet(), path, Options{Timings: true})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	var got []diag.Code
	for _, d := range res.Bag.Items() {
		got = append(got, d.Code)
	}
	want := []diag.Code{diag.SemaDuplicateBinding, diag.SemaUnresolvedSymbol, diag.ObsTimings}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 2 {
		t.Fatalf("timing %+v", res.Timing)
	}
}

func TestCheckFileMalformedSkipsSema(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.yaml", "- {op: \"**\", args: [1]}\n")
	res, err := CheckFile(context.Background(), source.NewFileSet(), path, Options{})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if res.Context != nil || res.Sema != nil {
		t.Fatalf("semantic pass should not run on a malformed tree")
	}
	if !res.Bag.HasErrors() || res.Bag.Items()[0].Code != diag.InputUnknownOp {
		t.Fatalf("diagnostics %+v", res.Bag.Items())
	}
}

func TestCheckFileUnparsable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "junk.yaml", "- [1, 2\n")
	res, err := CheckFile(context.Background(), source.NewFileSet(), path, Options{})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.InputMalformed {
		t.Fatalf("diagnostics %+v", res.Bag.Items())
	}
}

func TestCheckFileMissing(t *testing.T) {
	_, err := CheckFile(context.Background(), source.NewFileSet(), filepath.Join(t.TempDir(), "nope.yaml"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}

func TestGuardScopesRecoversUnderflow(t *testing.T) {
	ctx := symbols.NewContext(nil)
	err := guardScopes(func() { ctx.CloseScope() })
	if !errors.Is(err, symbols.ErrScopeUnderflow) {
		t.Fatalf("err = %v", err)
	}
	if err := guardScopes(func() {}); err != nil {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckFilesParallel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/good.yaml", goodProgram)
	writeFile(t, dir, "b/bad.yml", badProgram)
	writeFile(t, dir, "b/notes.txt", "ignored")

	paths, err := ListInputs([]string{dir})
	if err != nil {
		t.Fatalf("ListInputs: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("inputs %v", paths)
	}

	shared := source.NewInterner()
	fs, results, err := CheckFiles(context.Background(), paths, Options{Strings: shared, Jobs: 2})
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}
	if len(results) != 2 || results[0].Bag.HasErrors() || !results[1].Bag.HasErrors() {
		t.Fatalf("results out of order or wrong: %+v", results)
	}
	if results[0].Context.Strings() != shared || results[1].Context.Strings() != shared {
		t.Fatalf("interner not shared")
	}
	if fs.Get(results[1].FileID) == nil {
		t.Fatalf("file set does not know checked file")
	}
}

func TestAbortedFileDoesNotStopRun(t *testing.T) {
	// an empty document closes one scope too many
	semaCheck = func(file *ast.File, ctx *symbols.Context, opts sema.Options) *sema.Result {
		if len(file.Nodes) == 0 {
			ctx.CloseScope()
		}
		return sema.Check(file, ctx, opts)
	}
	t.Cleanup(func() { semaCheck = sema.Check })

	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.yaml", "[]"),
		writeFile(t, dir, "b.yaml", badProgram),
		writeFile(t, dir, "c.yaml", goodProgram),
	}
	fs, results, err := CheckFiles(context.Background(), paths, Options{Jobs: 1})
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if !errors.Is(results[0].Err, symbols.ErrScopeUnderflow) {
		t.Fatalf("aborted file err = %v", results[0].Err)
	}
	if got := results[0].Bag.Count(diag.SevError); got != 1 || results[0].Bag.Items()[0].Code != diag.SemaScopeUnderflow {
		t.Fatalf("aborted file diagnostics %+v", results[0].Bag.Items())
	}
	if NewSnapshot(&results[0], fs) != nil {
		t.Fatalf("snapshot of an aborted pass")
	}
	if results[1].Err != nil || !results[1].Bag.HasErrors() {
		t.Fatalf("diagnostics of the next file were lost: %+v", results[1])
	}
	if results[2].Err != nil || results[2].Sema == nil || results[2].Bag.Len() != 0 {
		t.Fatalf("clean file was not checked: %+v", results[2])
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "good.yaml", goodProgram)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := CheckFiles(ctx, []string{path}, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "good.yaml", goodProgram)
	fs := source.NewFileSet()
	res, err := CheckFile(context.Background(), fs, path, Options{})
	if err != nil {
		t.Fatal(err)
	}

	snap := NewSnapshot(res, fs)
	out := filepath.Join(dir, "out", "good.lsnap")
	if err := WriteSnapshot(out, snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	back, err := ReadSnapshot(out)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if diff := cmp.Diff(snap, back, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
	twice := res.Context.Strings().Intern("twice")
	if back.Name(twice) != "twice" {
		t.Fatalf("name table broken")
	}
	if fn := back.Tables.Globals[twice]; fn.Typ.Kind != types.KindLambda {
		t.Fatalf("twice = %+v", fn)
	}
}

func TestSnapshotSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "old.lsnap")
	if err := WriteSnapshot(out, &Snapshot{Schema: snapshotSchemaVersion + 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSnapshot(out); !errors.Is(err, ErrSnapshotSchema) {
		t.Fatalf("err = %v", err)
	}
}

func TestExampleDocuments(t *testing.T) {
	paths, err := ListInputs([]string{filepath.Join("..", "..", "testdata")})
	if err != nil {
		t.Fatalf("ListInputs: %v", err)
	}
	_, results, err := CheckFiles(context.Background(), paths, Options{})
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}
	want := map[string][]diag.Code{
		"basics.yaml":  nil,
		"classes.yaml": nil,
		"errors.yaml": {
			diag.SemaDuplicateBinding,
			diag.SemaTypeMismatch,
			diag.SemaUnresolvedSymbol,
			diag.SemaUnresolvedType,
			diag.SemaNotCallable,
			diag.SemaTypeRedefined,
		},
	}
	if len(results) != len(want) {
		t.Fatalf("checked %d documents, want %d", len(results), len(want))
	}
	for _, r := range results {
		var got []diag.Code
		for _, d := range r.Bag.Items() {
			got = append(got, d.Code)
		}
		if diff := cmp.Diff(want[filepath.Base(r.Path)], got); diff != "" {
			for _, d := range r.Bag.Items() {
				t.Logf("%s %s: %s", d.Primary, d.Code.ID(), d.Message)
			}
			t.Errorf("%s codes (-want +got):\n%s", r.Path, diff)
		}
	}
}
