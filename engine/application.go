package engine

import (
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderer/config"
	"github.com/spaghettifunk/facet/engine/settings"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel core.LogLevel
	Render   config.RenderConfig
	// WGSL file replacing the embedded shader. Empty keeps the embedded one.
	ShaderPath string
	// Watch ShaderPath and rebuild the pipelines when it changes.
	HotReload bool
	// Graphics backends to consider, as accepted by renderer.ParseBackends.
	Backend string
}

// ApplicationConfigFromSettings places the window at 100,100 with the configured size.
func ApplicationConfigFromSettings(s settings.Settings) *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  s.Window.Width,
		StartHeight: s.Window.Height,
		Name:        s.Window.Title,
		LogLevel:    s.LogLevel(),
		Render:      s.Render,
		ShaderPath:  s.Shaders.Path,
		HotReload:   s.Shaders.HotReload,
		Backend:     s.Headless.Backend,
	}
}

/**
 * @brief The callbacks an application hands to the engine. Every callback is
 * optional. State is left to the application.
 */
type Application struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
	FnOnKey           OnKey
	FnShutdown        Shutdown
}

type Initialize func(e *Engine) error
type Update func(e *Engine, deltaTime float64) error
type OnResize func(width uint32, height uint32) error

// OnKey receives key presses. Returning true stops further handling.
type OnKey func(e *Engine, key core.KeyCode) bool
type Shutdown func() error
