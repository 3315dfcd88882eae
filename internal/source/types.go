package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	FileVirtual FileFlags = 1 << iota // added from memory
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded script. Content is normalized: no BOM, LF endings.
type File struct {
	ID      FileID
	Path    string // slash-separated, cleaned
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Flags   FileFlags
}

// LineCol represents a human-readable position in a text.
// Both fields are 1-based; the zero value means "no position".
type LineCol struct {
	Line uint32
	Col  uint32
}

// IsZero reports whether lc carries no position.
func (lc LineCol) IsZero() bool {
	return lc.Line == 0 && lc.Col == 0
}
