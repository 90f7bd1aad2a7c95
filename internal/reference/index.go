package reference

import (
	"os"
	"path/filepath"
	"strings"
)

// extRank orders formats when several references share a stem: lossless
// PNG first, then WebP, then TGA.
var extRank = map[string]int{".png": 3, ".webp": 2, ".tga": 1}

// Index maps lowercase icon names to reference image paths.
type Index struct {
	entries map[string]string
}

// BuildIndex scans dir (not recursively) for reference images.
// A missing directory yields an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return idx
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		rank, ok := extRank[ext]
		if !ok {
			continue
		}
		stem := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		path := filepath.Join(dir, e.Name())

		existing, exists := idx.entries[stem]
		if !exists || rank > extRank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
	}
	return idx
}

// ResolvePath returns the reference path for an icon name, or ("", false).
func (idx *Index) ResolvePath(name string) (string, bool) {
	path, ok := idx.entries[strings.ToLower(name)]
	return path, ok
}

// Len returns the number of indexed references.
func (idx *Index) Len() int {
	return len(idx.entries)
}
