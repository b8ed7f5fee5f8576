package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/spaghettifunk/facet/engine/assets"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/platform"
	"github.com/spaghettifunk/facet/engine/renderer"
	"github.com/spaghettifunk/facet/engine/renderer/metadata"
	"github.com/spaghettifunk/facet/engine/scene"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

var ErrNoApplication = errors.New("engine requires an application with a config")

type Engine struct {
	currentStage Stage
	app          *Application
	isRunning    atomic.Bool
	isSuspended  bool
	platform     *platform.Platform
	assetManager *assets.AssetManager
	renderer     *renderer.WindowedRenderer
	scene        *scene.Scene
	width        uint32
	height       uint32
	clock        *core.Clock
	metrics      *core.Metrics
	lastTime     float64
	shaderPath   string
}

func New(app *Application) (*Engine, error) {
	if app == nil || app.ApplicationConfig == nil {
		core.LogError("%s", ErrNoApplication)
		return nil, ErrNoApplication
	}
	cfg := app.ApplicationConfig
	if err := cfg.Render.Validate(); err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	core.SetLogLevel(cfg.LogLevel)

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		app:          app,
		platform:     platform.New(),
		assetManager: am,
		scene:        scene.New(),
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		width:        cfg.StartWidth,
		height:       cfg.StartHeight,
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Scene() *scene.Scene {
	return e.scene
}

// Renderer is nil until Initialize succeeds.
func (e *Engine) Renderer() *renderer.WindowedRenderer {
	return e.renderer
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.app.ApplicationConfig

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onQuit)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.platform.Startup(cfg.Name, cfg.StartPosX, cfg.StartPosY, cfg.StartWidth, cfg.StartHeight); err != nil {
		return err
	}

	backends, err := renderer.ParseBackends(cfg.Backend)
	if err != nil {
		core.LogError("%s", err)
		return err
	}
	r, err := renderer.NewWindowed(e.platform, cfg.Render, renderer.WithBackends(backends))
	if err != nil {
		return err
	}
	e.renderer = r
	e.width, e.height = e.platform.FramebufferSize()

	if err := e.initializeShader(cfg); err != nil {
		return err
	}

	if e.app.FnInitialize != nil {
		if err := e.app.FnInitialize(e); err != nil {
			return err
		}
	}
	if e.app.FnOnResize != nil {
		if err := e.app.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

// initializeShader loads the configured WGSL file and, with hot reload on,
// watches its directory.
func (e *Engine) initializeShader(cfg *ApplicationConfig) error {
	if cfg.ShaderPath == "" {
		return nil
	}
	path, err := filepath.Abs(cfg.ShaderPath)
	if err != nil {
		return err
	}
	e.shaderPath = path

	if err := e.assetManager.Initialize(filepath.Dir(path)); err != nil {
		core.LogError("unable to watch %s: %s", filepath.Dir(path), err.Error())
		return err
	}
	res, err := e.assetManager.LoadAsset(path)
	if err != nil {
		core.LogError("%s", err)
		return err
	}
	defer e.assetManager.UnloadAsset(res)

	src, ok := res.Source()
	if !ok {
		return fmt.Errorf("%s is not a WGSL source", path)
	}
	if err := e.renderer.ReloadShader(src); err != nil {
		return err
	}
	if !cfg.HotReload {
		return e.assetManager.Shutdown()
	}
	core.LogInfo("watching %s for shader changes", path)
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine cannot run in stage %s", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}
		e.applyShaderReloads()

		if e.isSuspended {
			e.platform.Sleep(16)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := platform.GetAbsoluteTime()

		if e.app.FnUpdate != nil {
			if err := e.app.FnUpdate(e, delta); err != nil {
				core.LogError("application update failed, shutting down: %s", err.Error())
				e.isRunning.Store(false)
				break
			}
		}
		e.scene.Update(delta)

		// a failed frame is skipped, the next one retries with a reconfigured surface
		if err := e.renderer.RenderScene(e.scene); err != nil {
			core.LogError("frame skipped: %s", err.Error())
		}

		frameElapsedTime := platform.GetAbsoluteTime() - frameStartTime
		e.metrics.Update(frameElapsedTime)

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		// As a safety, input is the last thing to be updated before
		// this frame ends.
		core.InputUpdate(delta)

		// Update last time
		e.lastTime = currentTime
	}

	return e.teardown()
}

// resume restarts frame timing so the first frame after a suspension gets a normal delta.
func (e *Engine) resume() {
	e.isSuspended = false
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()
}

// applyShaderReloads drains the reload channel without blocking.
func (e *Engine) applyShaderReloads() {
	if e.shaderPath == "" {
		return
	}
	for {
		select {
		case res, ok := <-e.assetManager.Reloads():
			if !ok {
				return
			}
			e.applyShaderReload(res)
		default:
			return
		}
	}
}

// applyShaderReload ignores every file but the configured shader.
func (e *Engine) applyShaderReload(res *metadata.Resource) {
	if res == nil || e.renderer == nil || filepath.Clean(res.FullPath) != e.shaderPath {
		return
	}
	src, ok := res.Source()
	if !ok {
		return
	}
	if err := e.renderer.ReloadShader(src); err != nil {
		return
	}
	core.EventFire(core.EVENT_CODE_SHADER_RELOADED, e, core.EventContext{})
}

// Shutdown asks the run loop to stop. Safe to call from any goroutine.
func (e *Engine) Shutdown() error {
	e.isRunning.Store(false)
	return nil
}

func (e *Engine) teardown() error {
	e.currentStage = EngineStageShuttingDown
	var errs []error
	if e.app.FnShutdown != nil {
		errs = append(errs, e.app.FnShutdown())
	}
	if e.renderer != nil {
		e.renderer.Release()
		e.renderer = nil
	}
	errs = append(errs,
		e.assetManager.Shutdown(),
		e.platform.Shutdown(),
		core.EventShutdown(),
		core.InputShutdown(),
	)
	fps, frameTime := e.metrics.Frame()
	core.LogInfo("engine stopped (last %.0f fps, %.2f ms/frame)", fps, frameTime)
	return errors.Join(errs...)
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onQuit(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
	e.isRunning.Store(false)
	return true
}

func (e *Engine) onKey(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	key := core.KeyCode(data.Data.U16[0])
	if key == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
		// Block anything else from processing this.
		return true
	}
	if e.app.FnOnKey != nil {
		return e.app.FnOnKey(e, key)
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	width, height := data.Data.U32[0], data.Data.U32[1]

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.resume()
	}
	if e.renderer != nil {
		if err := e.renderer.Resize(width, height); err != nil {
			core.LogError("%s", err)
		}
	}
	if e.app.FnOnResize != nil {
		if err := e.app.FnOnResize(width, height); err != nil {
			core.LogError("%s", err)
		}
	}
	return true
}
