package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderer/config"
)

type WindowSettings struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type LoggingSettings struct {
	Level string `toml:"level"`
}

type ShaderSettings struct {
	// Path of a WGSL file that replaces the embedded shader. Empty keeps the embedded one.
	Path      string `toml:"path"`
	HotReload bool   `toml:"hot_reload"`
}

type HeadlessSettings struct {
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	Output string `toml:"output"`
	// Backend restricts adapter selection: "all", "primary", "vulkan", "metal", "dx12", "gl".
	Backend string `toml:"backend"`
}

// Settings is the application configuration read from a TOML file.
type Settings struct {
	Window   WindowSettings      `toml:"window"`
	Logging  LoggingSettings     `toml:"logging"`
	Render   config.RenderConfig `toml:"render"`
	Shaders  ShaderSettings      `toml:"shaders"`
	Headless HeadlessSettings    `toml:"headless"`
}

func Default() Settings {
	return Settings{
		Window: WindowSettings{
			Title:  "Facet",
			Width:  1280,
			Height: 720,
		},
		Logging: LoggingSettings{Level: core.LogLevelInfo.String()},
		Render:  config.DefaultRenderConfig(),
		Shaders: ShaderSettings{HotReload: true},
		Headless: HeadlessSettings{
			Width:   800,
			Height:  600,
			Output:  "frame.png",
			Backend: "all",
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogDebug("settings file %s not found, using defaults", path)
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return s, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return s, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings as TOML, creating parent directories.
func (s Settings) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (s Settings) Validate() error {
	if s.Window.Width == 0 || s.Window.Height == 0 {
		return fmt.Errorf("window: %w", core.ErrInvalidDimensions)
	}
	if s.Headless.Width == 0 || s.Headless.Height == 0 {
		return fmt.Errorf("headless: %w", core.ErrInvalidDimensions)
	}
	return s.Render.Validate()
}

// LogLevel returns the parsed logging level.
func (s Settings) LogLevel() core.LogLevel {
	return core.ParseLogLevel(s.Logging.Level)
}
