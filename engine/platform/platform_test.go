package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKey(t *testing.T) {
	cases := []struct {
		key  glfw.Key
		want core.KeyCode
	}{
		{glfw.KeyA, core.KEY_A},
		{glfw.KeyM, core.KEY_M},
		{glfw.KeyZ, core.KEY_Z},
		{glfw.Key1, core.KEY_1},
		{glfw.Key9, core.KEY_9},
		{glfw.KeyF1, core.KEY_F1},
		{glfw.KeyF12, core.KEY_F12},
		{glfw.KeyEscape, core.KEY_ESCAPE},
		{glfw.KeyLeftShift, core.KEY_LSHIFT},
		{glfw.KeySpace, core.KEY_SPACE},
	}
	for _, tc := range cases {
		got, ok := translateKey(tc.key)
		assert.True(t, ok, "key %d", tc.key)
		assert.Equal(t, tc.want, got, "key %d", tc.key)
	}

	_, ok := translateKey(glfw.KeyUnknown)
	assert.False(t, ok)
}

func TestCallbacksFeedCore(t *testing.T) {
	core.EventInitialize()
	defer core.EventShutdown()
	assert.NoError(t, core.InputInitialize())
	defer core.InputShutdown()

	var width, height uint32
	core.EventRegister(core.EVENT_CODE_RESIZED, t, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
		width, height = data.Data.U32[0], data.Data.U32[1]
		return true
	})
	framebufferSizeCallback(nil, 640, 480)
	assert.Equal(t, []uint32{640, 480}, []uint32{width, height})
	framebufferSizeCallback(nil, -1, 0)
	assert.Equal(t, []uint32{0, 0}, []uint32{width, height})

	keyCallback(nil, glfw.KeyC, 0, glfw.Press, 0)
	assert.True(t, core.InputIsKeyDown(core.KEY_C))
	keyCallback(nil, glfw.KeyC, 0, glfw.Repeat, 0)
	assert.True(t, core.InputIsKeyDown(core.KEY_C))
	keyCallback(nil, glfw.KeyC, 0, glfw.Release, 0)
	assert.False(t, core.InputIsKeyDown(core.KEY_C))

	quit := false
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, t, func(core.SystemEventCode, interface{}, interface{}, core.EventContext) bool {
		quit = true
		return true
	})
	closeCallback(nil)
	assert.True(t, quit)
}

func TestPlatformWithoutWindow(t *testing.T) {
	p := New()
	assert.False(t, p.PumpMessages())
	w, h := p.FramebufferSize()
	assert.Zero(t, w)
	assert.Zero(t, h)
	_, _, err := p.SurfaceHandles()
	assert.Error(t, err)
}
