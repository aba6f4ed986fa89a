package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"lumen/internal/source"
	"lumen/internal/symbols"
)

// Current schema version - increment when the Snapshot format changes.
const snapshotSchemaVersion uint16 = 1

// ErrSnapshotSchema is returned when reading a snapshot written by an
// incompatible version.
var ErrSnapshotSchema = errors.New("snapshot schema mismatch")

// Snapshot is the on-disk form of the symbol tables of one checked file,
// self-contained for a code generator: Strings[i] is the text of handle i.
type Snapshot struct {
	Schema  uint16
	Path    string
	Hash    [32]byte
	Strings []string
	Tables  symbols.Tables
}

// NewSnapshot captures res. It returns nil when the semantic pass did not
// run to completion.
func NewSnapshot(res *CheckResult, fs *source.FileSet) *Snapshot {
	if res == nil || res.Context == nil || res.Err != nil {
		return nil
	}
	s := &Snapshot{
		Schema:  snapshotSchemaVersion,
		Path:    res.Path,
		Strings: res.Context.Strings().Snapshot(),
		Tables:  res.Context.Tables(),
	}
	if f := fs.Get(res.FileID); f != nil {
		s.Hash = f.Hash
	}
	return s
}

// Name returns the handle's text, or "" when the handle is unknown.
func (s *Snapshot) Name(id source.StringID) string {
	if int(id) >= len(s.Strings) {
		return ""
	}
	return s.Strings[id]
}

// WriteSnapshot writes s to path atomically.
func WriteSnapshot(path string, s *Snapshot) (err error) {
	if s == nil {
		return errors.New("driver: nil snapshot")
	}
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "snapshot-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("driver: encode snapshot: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadSnapshot reads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s Snapshot
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("driver: decode snapshot %s: %w", path, err)
	}
	if s.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("driver: %s has schema %d, want %d: %w", path, s.Schema, snapshotSchemaVersion, ErrSnapshotSchema)
	}
	return &s, nil
}
