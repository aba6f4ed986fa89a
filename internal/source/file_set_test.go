package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.yaml")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a: 1\r\nb: 2\r\n")...)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if f == nil {
		t.Fatalf("Get returned nil")
	}
	if string(f.Content) != "a: 1\nb: 2\n" {
		t.Fatalf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if got := f.Line(2); got != "b: 2" {
		t.Fatalf("Line(2) = %q", got)
	}
	if got := f.Line(9); got != "" {
		t.Fatalf("Line(9) = %q", got)
	}
	if latest, ok := fs.GetLatest(path); !ok || latest != id {
		t.Fatalf("GetLatest = %d, %v", latest, ok)
	}
}

func TestFileSetUnknownID(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(0) != nil || fs.Get(7) != nil {
		t.Fatalf("unknown ids must return nil")
	}
	if fs.Path(7) != "<unknown>" {
		t.Fatalf("Path fallback = %q", fs.Path(7))
	}
	id := fs.AddVirtual("mem.yaml", []byte("x"))
	if fs.Get(id).Flags&FileVirtual == 0 {
		t.Fatalf("virtual flag not set")
	}
}
