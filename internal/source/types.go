package source

type (
	// FileID uniquely identifies an input document within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about an input document.
	FileFlags uint8
)

const (
	// FileVirtual marks documents added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for one input document.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags
}
