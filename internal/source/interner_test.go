package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	in := NewInterner()

	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID should map to the empty string, got %q ok=%v", s, ok)
	}

	id1 := in.Intern("hello")
	if id1 == NoStringID {
		t.Fatalf("Intern returned NoStringID for a non-empty string")
	}
	if id2 := in.Intern("hello"); id1 != id2 {
		t.Fatalf("same text must intern to the same handle: %d != %d", id1, id2)
	}
	if s := in.MustLookup(id1); s != "hello" {
		t.Fatalf("MustLookup returned %q", s)
	}
	if id3 := in.Intern("world"); id3 == id1 {
		t.Fatalf("different text must get different handles")
	}
	if got := in.InternBytes([]byte("world")); got != in.Intern("world") {
		t.Fatalf("InternBytes and Intern disagree")
	}
}

func TestInternerWellKnownHandlesAreStable(t *testing.T) {
	a, b := NewInterner(), NewInterner()
	if a.Known() != b.Known() {
		t.Fatalf("well-known handles differ between interners: %+v vs %+v", a.Known(), b.Known())
	}
	k := a.Known()
	for name, id := range map[string]StringID{
		"init": k.Init, "validate": k.Validate,
		"int": k.Int, "float": k.Float, "bool": k.Bool, "string": k.String, "nil": k.Nil,
	} {
		if got := a.MustLookup(id); got != name {
			t.Errorf("handle %d resolves to %q, want %q", id, got, name)
		}
		if again := a.Intern(name); again != id {
			t.Errorf("re-interning %q gave %d, want %d", name, again, id)
		}
	}
}

func TestInternerLookupUnknown(t *testing.T) {
	in := NewInterner()
	bogus := StringID(in.Len() + 10)
	if _, ok := in.Lookup(bogus); ok {
		t.Fatalf("lookup of foreign handle should fail")
	}
	if in.Has(bogus) {
		t.Fatalf("Has should report false for foreign handle")
	}
	if got := in.Display(bogus); got != fmt.Sprintf("#%d", bogus) {
		t.Fatalf("Display fallback = %q", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("MustLookup should panic on foreign handle")
		}
	}()
	in.MustLookup(bogus)
}

func TestInternerConcurrentUse(t *testing.T) {
	in := NewInterner()
	const workers = 8
	const words = 200

	ids := make([][]StringID, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[w] = make([]StringID, words)
			for i := range words {
				id := in.Intern(fmt.Sprintf("sym%d", i))
				ids[w][i] = id
				if s, ok := in.Lookup(id); !ok || s != fmt.Sprintf("sym%d", i) {
					t.Errorf("lookup of fresh handle failed: %q ok=%v", s, ok)
				}
			}
		}()
	}
	wg.Wait()

	for w := 1; w < workers; w++ {
		for i := range words {
			if ids[w][i] != ids[0][i] {
				t.Fatalf("worker %d got handle %d for sym%d, worker 0 got %d", w, ids[w][i], i, ids[0][i])
			}
		}
	}
	if snap := in.Snapshot(); len(snap) != in.Len() {
		t.Fatalf("snapshot length %d != Len %d", len(snap), in.Len())
	}
}
