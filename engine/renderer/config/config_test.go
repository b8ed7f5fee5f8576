package config

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/facet/engine/core"
)

func TestSampleCounts(t *testing.T) {
	tests := []struct {
		mode        AntialiasingMode
		samples     uint32
		multisample bool
		supported   bool
	}{
		{AntialiasingNone, 1, false, true},
		{AntialiasingMSAA2x, 2, true, true},
		{AntialiasingMSAA4x, 4, true, true},
		{AntialiasingMSAA8x, 8, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.samples, tt.mode.SampleCount())
			assert.Equal(t, tt.multisample, tt.mode.IsMultisampled())
			assert.Equal(t, tt.supported, tt.mode.IsSupported())
		})
	}
}

func TestSupportedModes(t *testing.T) {
	assert.Equal(t, AntialiasingMSAA4x, BestSupported())
	assert.Equal(t, []AntialiasingMode{AntialiasingNone, AntialiasingMSAA2x, AntialiasingMSAA4x}, SupportedModes())
	assert.Equal(t, AntialiasingMSAA2x, AntialiasingNone.Next())
	assert.Equal(t, AntialiasingNone, AntialiasingMSAA4x.Next())
}

func TestPresets(t *testing.T) {
	assert.Equal(t, RenderConfig{AntialiasingMSAA4x, CullingBackface, false}, DefaultRenderConfig())
	assert.Equal(t, RenderConfig{AntialiasingMSAA4x, CullingNone, true}, For2D())
	assert.Equal(t, RenderConfig{AntialiasingMSAA4x, CullingBackface, false}, For3D())
	assert.Equal(t, RenderConfig{AntialiasingNone, CullingBackface, false}, Performance())

	for _, cfg := range []RenderConfig{DefaultRenderConfig(), For2D(), For3D(), Performance()} {
		assert.NoError(t, cfg.Validate())
	}
}

func TestValidateRejects8x(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.Antialiasing = AntialiasingMSAA8x
	assert.ErrorIs(t, cfg.Validate(), core.ErrUnsupportedAntialiasing)
}

func TestCullingCycle(t *testing.T) {
	assert.Equal(t, CullingBackface, CullingNone.Next())
	assert.Equal(t, CullingFrontface, CullingBackface.Next())
	assert.Equal(t, CullingNone, CullingFrontface.Next())
}

func TestRenderConfigTOML(t *testing.T) {
	data, err := toml.Marshal(For2D())
	require.NoError(t, err)
	assert.Contains(t, string(data), "msaa4x")

	var back RenderConfig
	require.NoError(t, toml.Unmarshal(data, &back))
	assert.Equal(t, For2D(), back)

	var cfg RenderConfig
	require.NoError(t, toml.Unmarshal([]byte("antialiasing = \"2x\"\nculling = \"front\"\nalpha_blending = true\n"), &cfg))
	assert.Equal(t, RenderConfig{AntialiasingMSAA2x, CullingFrontface, true}, cfg)

	err = toml.Unmarshal([]byte("antialiasing = \"16x\"\n"), &cfg)
	assert.Error(t, err)
}
