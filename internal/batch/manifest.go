package batch

import (
	"encoding/json"
	"fmt"
)

// ManifestEntry represents one exported icon in the output manifest.
type ManifestEntry struct {
	Name      string   `json:"name"`
	File      string   `json:"file"`
	Preview   string   `json:"preview,omitempty"`
	SizeX     int      `json:"size_x"`
	SizeY     int      `json:"size_y"`
	Triangles int      `json:"triangles"`
	Children  int      `json:"children"`
	Skipped   []string `json:"skipped,omitempty"`
}

// WriteManifest writes the successful results as JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:      r.Name,
			File:      r.File,
			Preview:   r.Preview,
			SizeX:     r.SizeX,
			SizeY:     r.SizeY,
			Triangles: r.Triangles,
			Children:  r.Children,
			Skipped:   r.Skipped,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	return writeFileAtomic(path, data)
}
