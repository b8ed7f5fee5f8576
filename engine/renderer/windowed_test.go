package renderer

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderer/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseSurfaceFormat(t *testing.T) {
	f, err := chooseSurfaceFormat([]gputypes.TextureFormat{
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatBGRA8UnormSrgb,
	})
	require.NoError(t, err)
	assert.Equal(t, gputypes.TextureFormatBGRA8UnormSrgb, f)

	f, err = chooseSurfaceFormat([]gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm})
	require.NoError(t, err)
	assert.Equal(t, gputypes.TextureFormatBGRA8Unorm, f)

	_, err = chooseSurfaceFormat(nil)
	assert.ErrorIs(t, err, core.ErrNoSurfaceFormat)
}

func TestChooseAlphaMode(t *testing.T) {
	assert.Equal(t, gputypes.CompositeAlphaModeOpaque, chooseAlphaMode([]gputypes.CompositeAlphaMode{
		gputypes.CompositeAlphaModeAuto, gputypes.CompositeAlphaModeOpaque,
	}))
	assert.Equal(t, gputypes.CompositeAlphaModeAuto, chooseAlphaMode(nil))
}

type zeroSource struct{}

func (zeroSource) SurfaceHandles() (uintptr, uintptr, error) { return 0, 0, core.ErrUnsupportedPlatform }
func (zeroSource) FramebufferSize() (uint32, uint32)         { return 0, 0 }

func TestNewWindowedRejectsMinimizedWindow(t *testing.T) {
	_, err := NewWindowed(zeroSource{}, config.DefaultRenderConfig())
	assert.ErrorIs(t, err, core.ErrInvalidDimensions)
}
