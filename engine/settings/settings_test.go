package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderer/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facet.toml")
	content := `
[window]
title = "demo"

[logging]
level = "debug"

[render]
antialiasing = "none"
culling = "frontface"
alpha_blending = true

[headless]
output = "out.bmp"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Window.Title)
	assert.Equal(t, uint32(1280), s.Window.Width)
	assert.Equal(t, core.LogLevelDebug, s.LogLevel())
	assert.Equal(t, config.RenderConfig{
		Antialiasing:  config.AntialiasingNone,
		Culling:       config.CullingFrontface,
		AlphaBlending: true,
	}, s.Render)
	assert.Equal(t, "out.bmp", s.Headless.Output)
	assert.Equal(t, uint32(800), s.Headless.Width)
}

func TestLoadRejectsUnsupportedAntialiasing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facet.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render]\nantialiasing = \"msaa8x\"\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrUnsupportedAntialiasing)
}

func TestLoadRejectsZeroWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facet.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidth = 0\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrInvalidDimensions)
}

func TestLoadReportsSyntaxErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facet.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "facet.toml")
	s := Default()
	s.Render = config.Performance()
	s.Shaders.Path = "shaders/custom.wgsl"

	require.NoError(t, s.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}
