package engine

import (
	"testing"
	"time"

	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderer/config"
	"github.com/spaghettifunk/facet/engine/renderer/metadata"
	"github.com/spaghettifunk/facet/engine/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, app *Application) *Engine {
	t.Helper()
	if app.ApplicationConfig == nil {
		app.ApplicationConfig = ApplicationConfigFromSettings(settings.Default())
	}
	e, err := New(app)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.assetManager.Shutdown() })
	return e
}

func resizeEvent(width, height uint32) core.EventContext {
	ctx := core.EventContext{}
	ctx.Data.U32[0] = width
	ctx.Data.U32[1] = height
	return ctx
}

func keyEvent(key core.KeyCode) core.EventContext {
	ctx := core.EventContext{}
	ctx.Data.U16[0] = uint16(key)
	return ctx
}

func TestNewRequiresApplication(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoApplication)
	_, err = New(&Application{})
	assert.ErrorIs(t, err, ErrNoApplication)
}

func TestNewRejectsUnsupportedAntialiasing(t *testing.T) {
	cfg := ApplicationConfigFromSettings(settings.Default())
	cfg.Render.Antialiasing = config.AntialiasingMSAA8x
	_, err := New(&Application{ApplicationConfig: cfg})
	assert.ErrorIs(t, err, core.ErrUnsupportedAntialiasing)
}

func TestApplicationConfigFromSettings(t *testing.T) {
	s := settings.Default()
	s.Window.Title = "demo"
	s.Shaders.Path = "shaders/basic.wgsl"
	cfg := ApplicationConfigFromSettings(s)

	assert.Equal(t, "demo", cfg.Name)
	assert.Equal(t, uint32(1280), cfg.StartWidth)
	assert.Equal(t, uint32(720), cfg.StartHeight)
	assert.Equal(t, config.DefaultRenderConfig(), cfg.Render)
	assert.Equal(t, "shaders/basic.wgsl", cfg.ShaderPath)
	assert.True(t, cfg.HotReload)
	assert.Equal(t, core.LogLevelInfo, cfg.LogLevel)
}

func TestRunRequiresInitialize(t *testing.T) {
	e := newTestEngine(t, &Application{})
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	assert.Error(t, e.Run())
	assert.Equal(t, "uninitialized", e.Stage().String())
}

func TestResizeSuspendsAndResumes(t *testing.T) {
	var sizes [][2]uint32
	e := newTestEngine(t, &Application{
		FnOnResize: func(width, height uint32) error {
			sizes = append(sizes, [2]uint32{width, height})
			return nil
		},
	})

	assert.False(t, e.onResized(core.EVENT_CODE_RESIZED, nil, e, resizeEvent(1280, 720)))

	assert.True(t, e.onResized(core.EVENT_CODE_RESIZED, nil, e, resizeEvent(0, 0)))
	assert.True(t, e.isSuspended)
	assert.Empty(t, sizes)

	assert.True(t, e.onResized(core.EVENT_CODE_RESIZED, nil, e, resizeEvent(800, 600)))
	assert.False(t, e.isSuspended)
	assert.Equal(t, [][2]uint32{{800, 600}}, sizes)
	w, h := e.GetFramebufferSize()
	assert.Equal(t, []uint32{800, 600}, []uint32{w, h})
}

func TestResumeDoesNotCountSuspendedTime(t *testing.T) {
	e := newTestEngine(t, &Application{})
	now := time.Unix(0, 0)
	e.clock = core.NewClockFrom(func() time.Time { return now })
	e.clock.Start()
	e.width, e.height = 800, 600

	now = now.Add(time.Second)
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	require.True(t, e.onResized(core.EVENT_CODE_RESIZED, nil, e, resizeEvent(0, 0)))
	now = now.Add(30 * time.Second)
	require.True(t, e.onResized(core.EVENT_CODE_RESIZED, nil, e, resizeEvent(800, 600)))
	assert.False(t, e.isSuspended)
	assert.InDelta(t, 31.0, e.lastTime, 1e-9)

	now = now.Add(16 * time.Millisecond)
	e.clock.Update()
	assert.InDelta(t, 0.016, e.clock.Elapsed()-e.lastTime, 1e-9)
}

func TestEscapeRequestsQuit(t *testing.T) {
	require.True(t, core.EventInitialize())
	defer core.EventShutdown()

	e := newTestEngine(t, &Application{})
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onQuit)
	e.isRunning.Store(true)

	assert.True(t, e.onKey(core.EVENT_CODE_KEY_PRESSED, nil, e, keyEvent(core.KEY_ESCAPE)))
	assert.False(t, e.isRunning.Load())
}

func TestKeysReachApplication(t *testing.T) {
	var pressed []core.KeyCode
	e := newTestEngine(t, &Application{
		FnOnKey: func(_ *Engine, key core.KeyCode) bool {
			pressed = append(pressed, key)
			return key == core.KEY_M
		},
	})
	assert.True(t, e.onKey(core.EVENT_CODE_KEY_PRESSED, nil, e, keyEvent(core.KEY_M)))
	assert.False(t, e.onKey(core.EVENT_CODE_KEY_PRESSED, nil, e, keyEvent(core.KEY_Q)))
	assert.Equal(t, []core.KeyCode{core.KEY_M, core.KEY_Q}, pressed)
}

func TestShutdownFromAnotherGoroutine(t *testing.T) {
	e := newTestEngine(t, &Application{})
	e.isRunning.Store(true)
	done := make(chan struct{})
	go func() {
		_ = e.Shutdown()
		close(done)
	}()
	<-done
	assert.False(t, e.isRunning.Load())
}

func TestShaderReloadWithoutRendererIsIgnored(t *testing.T) {
	e := newTestEngine(t, &Application{})
	e.shaderPath = "/tmp/basic.wgsl"
	e.applyShaderReload(&metadata.Resource{FullPath: "/tmp/basic.wgsl", Type: metadata.ResourceTypeShader, Data: "fn x("})
	e.applyShaderReload(nil)
	e.applyShaderReloads()
}
