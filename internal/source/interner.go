package source

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// StringID is a stable handle for interned identifier text.
type StringID uint32

// NoStringID is reserved for the empty string and marks an absent name.
const NoStringID StringID = 0

// IsValid reports whether the handle names a non-empty string.
func (id StringID) IsValid() bool { return id != NoStringID }

// Interner maps identifier text to stable handles and back.
//
// It is safe for concurrent use. Entries are never removed, so a handle
// returned by Intern stays valid for the lifetime of the interner, and
// Lookup always hands out an owned string rather than a view into the table.
type Interner struct {
	mu    sync.RWMutex
	byID  []string            // index -> text, byID[0] = "" for NoStringID
	index map[string]StringID // text -> index
	known WellKnown
}

// NewInterner returns an interner with the well-known names pre-interned.
func NewInterner() *Interner {
	in := &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
	in.known = in.internWellKnown()
	return in
}

// Intern returns the handle for s, adding it if needed.
func (i *Interner) Intern(s string) StringID {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	// another writer may have won the race between the two locks
	if id, ok := i.index[s]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	cpy := strings.Clone(s)
	id = StringID(n)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes interns the text held in b.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Lookup returns the text for id. It reports false for handles this
// interner never produced.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the text for id and panics on an unknown handle.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("source: invalid string ID %d", id))
	}
	return s
}

// Has reports whether id was produced by this interner.
func (i *Interner) Has(id StringID) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return int(id) < len(i.byID)
}

// Len returns the number of interned strings, NoStringID included.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot returns a copy of the table indexed by StringID.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}

// Known returns the handles of the pre-interned names.
func (i *Interner) Known() WellKnown {
	return i.known
}

// Display renders id for messages, falling back to "#<id>" for foreign handles.
func (i *Interner) Display(id StringID) string {
	if i == nil {
		return fmt.Sprintf("#%d", id)
	}
	if s, ok := i.Lookup(id); ok && s != "" {
		return s
	}
	return fmt.Sprintf("#%d", id)
}
