package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"vco-icon-geom/internal/icon"
)

// Preview formats understood by the exporter.
const (
	PreviewWebP = "webp"
	PreviewPNG  = "png"
)

// Config holds all configurable paths and export settings.
type Config struct {
	// Paths
	BaseDir      string `json:"base_dir"`
	SceneFile    string `json:"scene"`
	OutputDir    string `json:"output_dir"`
	ReferenceDir string `json:"reference_dir"`

	// Selection
	Group string `json:"group"`

	// Encoding
	SizeX   int `json:"size_x"`
	SizeY   int `json:"size_y"`
	Workers int `json:"workers"`

	// Preview settings
	Preview       bool    `json:"preview"`
	PreviewFormat string  `json:"preview_format"`
	PreviewSize   int     `json:"preview_size"`
	Supersample   int     `json:"supersample"`
	MaxDiff       float64 `json:"max_diff"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values. An unset base_dir
// becomes the directory holding the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if cfg.BaseDir == "" {
		cfg.BaseDir = dir
	} else if !filepath.IsAbs(cfg.BaseDir) {
		cfg.BaseDir = filepath.Join(dir, cfg.BaseDir)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty; flag paths are taken
// as given, file paths are resolved against BaseDir.
func (c *Config) Resolve(flags Flags) {
	// Resolve relative file paths before flags replace them
	c.SceneFile = c.underBase(c.SceneFile)
	c.OutputDir = c.underBase(c.OutputDir)
	c.ReferenceDir = c.underBase(c.ReferenceDir)

	// CLI flags override config file
	if flags.SceneFile != "" {
		c.SceneFile = flags.SceneFile
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.ReferenceDir != "" {
		c.ReferenceDir = flags.ReferenceDir
	}
	if flags.Group != "" {
		c.Group = flags.Group
	}
	if flags.Size > 0 {
		c.SizeX = flags.Size
		c.SizeY = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Preview {
		c.Preview = true
	}
	if flags.PreviewFormat != "" {
		c.PreviewFormat = flags.PreviewFormat
	}

	// A reference check needs something to compare
	if c.ReferenceDir != "" {
		c.Preview = true
	}

	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.SizeX <= 0 {
		c.SizeX = icon.DefaultSize
	}
	if c.SizeY <= 0 {
		c.SizeY = icon.DefaultSize
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.PreviewFormat == "" {
		c.PreviewFormat = PreviewWebP
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 128
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.MaxDiff <= 0 {
		c.MaxDiff = 2.0
	}
}

// Validate reports settings that Resolve cannot repair.
func (c *Config) Validate() error {
	if c.SceneFile == "" {
		return fmt.Errorf("config: no scene file given")
	}
	if c.PreviewFormat != PreviewWebP && c.PreviewFormat != PreviewPNG {
		return fmt.Errorf("config: unknown preview format %q", c.PreviewFormat)
	}
	if _, err := icon.AxisRange("x", c.SizeX); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := icon.AxisRange("y", c.SizeY); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) underBase(p string) string {
	if p == "" || c.BaseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SceneFile     string
	OutputDir     string
	ReferenceDir  string
	Group         string
	Size          int
	Workers       int
	Preview       bool
	PreviewFormat string
}
