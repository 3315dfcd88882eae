package source

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileSet holds the scripts loaded by one CLI invocation. It is safe for
// concurrent use; a *File stays valid after later adds.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	index   map[string]FileID // normalized path -> latest id
	baseDir string            // пусто: рабочая директория
}

func NewFileSet() *FileSet { return NewFileSetWithBase("") }

func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{index: make(map[string]FileID), baseDir: baseDir}
}

// BaseDir returns the directory relative paths are shown against.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

// Add stores already-normalized content under a fresh id, even when the
// path was added before.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	f := &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f.ID = FileID(MustU32(len(fs.files)))
	fs.files = append(fs.files, f)
	fs.index[f.Path] = f.ID
	return f.ID
}

// Load reads path, strips a UTF-8 BOM and folds CRLF before adding it.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	if c, ok := removeBOM(content); ok {
		content, flags = c, flags|FileHadBOM
	}
	if c, ok := normalizeCRLF(content); ok {
		content, flags = c, flags|FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory text (stdin, tests).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get panics on an id this set did not hand out.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.files[id]
}

func (fs *FileSet) GetByPath(path string) (*File, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	id, ok := fs.index[normalizePath(path)]
	if !ok {
		return nil, false
	}
	return fs.files[id], true
}

func (fs *FileSet) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.files)
}

// Resolve converts a span of file id into line and column positions.
func (fs *FileSet) Resolve(id FileID, span Span) (start, end LineCol) {
	f := fs.Get(id)
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

func (f *File) Text() string { return string(f.Content) }

// GetLine returns line n (1-based) without its newline, or "" when the
// file has no such line.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for output. mode is absolute, relative,
// basename or auto; anything else returns the stored path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			if rel, err := filepath.Rel(baseDir, abs); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
