package buildpipeline

import (
	"path/filepath"
	"slices"
	"strings"
)

// DisplayFiles turns script paths into the labels the progress view
// shows: relative to baseDir when inside it, slash-separated, unique and
// sorted.
func DisplayFiles(files []string, baseDir string) []string {
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	out := make([]string, 0, len(files))
	for _, file := range files {
		if file != "" {
			out = append(out, displayPath(file, base))
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func displayPath(file, base string) string {
	path := filepath.Clean(file)
	if base == "" {
		return filepath.ToSlash(path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		path = rel
	}
	return filepath.ToSlash(path)
}
