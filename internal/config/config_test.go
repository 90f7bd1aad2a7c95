package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vco-icon-geom/internal/icon"
)

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{SceneFile: "scene.yaml"})

	assert.Equal(t, "scene.yaml", cfg.SceneFile)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, icon.DefaultSize, cfg.SizeX)
	assert.Equal(t, icon.DefaultSize, cfg.SizeY)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, PreviewWebP, cfg.PreviewFormat)
	assert.Equal(t, 128, cfg.PreviewSize)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, 2.0, cfg.MaxDiff)
	assert.False(t, cfg.Preview)
	require.NoError(t, cfg.Validate())
}

func TestLoadResolvesAgainstFileDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"scene": "scenes/icons.yaml",
		"output_dir": "out",
		"reference_dir": "/abs/refs",
		"group": "Icons",
		"size_x": 32,
		"preview_format": "png"
	}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Resolve(Flags{})

	assert.Equal(t, dir, cfg.BaseDir)
	assert.Equal(t, filepath.Join(dir, "scenes", "icons.yaml"), cfg.SceneFile)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	assert.Equal(t, "/abs/refs", cfg.ReferenceDir)
	assert.Equal(t, "Icons", cfg.Group)
	assert.Equal(t, 32, cfg.SizeX)
	assert.Equal(t, icon.DefaultSize, cfg.SizeY)
	assert.Equal(t, PreviewPNG, cfg.PreviewFormat)
	assert.True(t, cfg.Preview, "reference dir enables previews")
}

func TestFlagsOverrideFile(t *testing.T) {
	cfg := Config{BaseDir: "/base", OutputDir: "out", Group: "A", Workers: 3, SizeX: 10, SizeY: 20}
	cfg.Resolve(Flags{SceneFile: "s.json", OutputDir: "flag-out", Group: "B", Workers: 7, Size: 64, Preview: true})

	assert.Equal(t, "s.json", cfg.SceneFile)
	assert.Equal(t, "flag-out", cfg.OutputDir)
	assert.Equal(t, "B", cfg.Group)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 64, cfg.SizeX)
	assert.Equal(t, 64, cfg.SizeY)
	assert.True(t, cfg.Preview)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "config: parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no scene", Config{}, "no scene file"},
		{"format", Config{SceneFile: "s", PreviewFormat: "gif", SizeX: 1, SizeY: 1}, "unknown preview format"},
		{"size", Config{SceneFile: "s", PreviewFormat: PreviewPNG, SizeX: 255, SizeY: 1}, "size-x 255 out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
