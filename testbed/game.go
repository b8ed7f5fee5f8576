package testbed

import (
	"github.com/spaghettifunk/facet/engine"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/math"
	"github.com/spaghettifunk/facet/engine/renderer"
	"github.com/spaghettifunk/facet/engine/renderer/config"
	"github.com/spaghettifunk/facet/engine/scene"
	"github.com/spaghettifunk/facet/engine/settings"
	"golang.org/x/exp/rand"
)

// scatteredObjects is the number of random objects placed behind the demo row.
const scatteredObjects = 12

// Controls is the part of a renderer the key bindings drive. Both renderers satisfy it.
type Controls interface {
	Config() config.RenderConfig
	SetAntialiasing(mode config.AntialiasingMode) error
	SetAlphaBlending(enabled bool)
	Set2DMode()
	Set3DMode()
	SetPerformanceMode()
	ClearCache()
	CacheStats() renderer.CacheStats
	Camera() *renderer.Camera
}

type TestGame struct {
	*engine.Application
}

type gameState struct {
	culling   config.CullingMode
	rng       *rand.Rand
	sinceLog  float64
	moveSpeed float32
}

func NewTestGame(s settings.Settings, seed uint64) *TestGame {
	tg := &TestGame{
		Application: &engine.Application{
			ApplicationConfig: engine.ApplicationConfigFromSettings(s),
			State: &gameState{
				culling:   s.Render.Culling,
				rng:       rand.New(rand.NewSource(seed)),
				moveSpeed: 2.0,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnOnKey = tg.OnKey
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	state := g.State.(*gameState)
	scene.PopulateDemo(e.Scene(), state.rng, scatteredObjects)
	core.LogInfo("demo scene ready with %d objects", e.Scene().Len())
	core.LogInfo("keys: 1 2D, 2 3D, 3 performance, M antialiasing, C culling, B blending, R clear cache, P projection, WASD/QE move, Esc quit")
	return nil
}

// Update moves the camera while movement keys are held and logs frame metrics every few seconds.
func (g *TestGame) Update(e *engine.Engine, deltaTime float64) error {
	state := g.State.(*gameState)
	if r := e.Renderer(); r != nil {
		moveCamera(r.Camera(), state.moveSpeed*float32(deltaTime))
	}

	state.sinceLog += deltaTime
	if state.sinceLog >= 5 {
		state.sinceLog = 0
		fps, ms := e.Metrics().Frame()
		core.LogDebug("%.0f fps, %.2f ms/frame", fps, ms)
	}
	return nil
}

func moveCamera(c *renderer.Camera, step float32) {
	var d math.Vec3
	if core.InputIsKeyDown(core.KEY_A) || core.InputIsKeyDown(core.KEY_LEFT) {
		d.X -= step
	}
	if core.InputIsKeyDown(core.KEY_D) || core.InputIsKeyDown(core.KEY_RIGHT) {
		d.X += step
	}
	if core.InputIsKeyDown(core.KEY_Q) || core.InputIsKeyDown(core.KEY_DOWN) {
		d.Y -= step
	}
	if core.InputIsKeyDown(core.KEY_E) || core.InputIsKeyDown(core.KEY_UP) {
		d.Y += step
	}
	if core.InputIsKeyDown(core.KEY_W) {
		d.Z -= step
	}
	if core.InputIsKeyDown(core.KEY_S) {
		d.Z += step
	}
	if d == (math.Vec3{}) {
		return
	}
	c.SetPosition(c.Position().Add(d))
	c.LookAt(c.Target().Add(d))
}

func (g *TestGame) OnKey(e *engine.Engine, key core.KeyCode) bool {
	r := e.Renderer()
	if r == nil {
		return false
	}
	return g.handleKey(r, e.Scene(), key)
}

func (g *TestGame) handleKey(r Controls, s *scene.Scene, key core.KeyCode) bool {
	state := g.State.(*gameState)

	switch key {
	case core.KEY_1:
		r.Set2DMode()
	case core.KEY_2:
		r.Set3DMode()
	case core.KEY_3:
		r.SetPerformanceMode()
	case core.KEY_M:
		next := r.Config().Antialiasing.Next()
		if err := r.SetAntialiasing(next); err != nil {
			core.LogError("%s", err)
			return true
		}
	case core.KEY_C:
		// every object carries its own mode, so the scene is updated rather than the renderer
		state.culling = state.culling.Next()
		s.SetCulling(state.culling)
		core.LogInfo("culling: %s", state.culling)
	case core.KEY_B:
		r.SetAlphaBlending(!r.Config().AlphaBlending)
	case core.KEY_R:
		stats := r.CacheStats()
		r.ClearCache()
		core.LogInfo("vertex cache cleared (%d buffers, %d vertices)", stats.Entries, stats.Vertices)
		return true
	case core.KEY_P:
		c := r.Camera()
		if c.ProjectionMode() == renderer.ProjectionPerspective {
			c.SetProjectionMode(renderer.ProjectionOrthographic)
		} else {
			c.SetProjectionMode(renderer.ProjectionPerspective)
		}
		core.LogInfo("projection: %s", c.ProjectionMode())
		return true
	default:
		return false
	}

	core.LogInfo("render config: %s", r.Config())
	core.EventFire(core.EVENT_CODE_RENDER_CONFIG_CHANGED, g, core.EventContext{})
	return true
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	core.LogDebug("demo resized to %dx%d", width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed")
	return nil
}
