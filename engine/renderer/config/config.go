package config

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/facet/engine/core"
)

// AntialiasingMode selects the multisample count of the color target.
type AntialiasingMode uint8

const (
	AntialiasingNone AntialiasingMode = iota
	AntialiasingMSAA2x
	AntialiasingMSAA4x
	AntialiasingMSAA8x
)

// SampleCount returns the number of samples per pixel for the mode.
func (m AntialiasingMode) SampleCount() uint32 {
	switch m {
	case AntialiasingMSAA2x:
		return 2
	case AntialiasingMSAA4x:
		return 4
	case AntialiasingMSAA8x:
		return 8
	default:
		return 1
	}
}

func (m AntialiasingMode) IsMultisampled() bool {
	return m.SampleCount() > 1
}

// IsSupported reports whether the renderer can create pipelines for the mode.
// 8x is not guaranteed by WebGPU for the formats used here.
func (m AntialiasingMode) IsSupported() bool {
	switch m {
	case AntialiasingNone, AntialiasingMSAA2x, AntialiasingMSAA4x:
		return true
	default:
		return false
	}
}

// Next returns the following supported mode, wrapping around to None.
func (m AntialiasingMode) Next() AntialiasingMode {
	modes := SupportedModes()
	for i, mode := range modes {
		if mode == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return AntialiasingNone
}

func (m AntialiasingMode) String() string {
	switch m {
	case AntialiasingNone:
		return "none"
	case AntialiasingMSAA2x:
		return "msaa2x"
	case AntialiasingMSAA4x:
		return "msaa4x"
	case AntialiasingMSAA8x:
		return "msaa8x"
	}
	return fmt.Sprintf("antialiasing(%d)", uint8(m))
}

func (m AntialiasingMode) MarshalText() ([]byte, error) {
	if m > AntialiasingMSAA8x {
		return nil, fmt.Errorf("invalid antialiasing mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *AntialiasingMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "none", "off", "":
		*m = AntialiasingNone
	case "msaa2x", "2x":
		*m = AntialiasingMSAA2x
	case "msaa4x", "4x":
		*m = AntialiasingMSAA4x
	case "msaa8x", "8x":
		*m = AntialiasingMSAA8x
	default:
		return fmt.Errorf("unknown antialiasing mode %q", text)
	}
	return nil
}

// BestSupported returns the highest sample count mode the renderer supports.
func BestSupported() AntialiasingMode {
	return AntialiasingMSAA4x
}

// SupportedModes lists the modes accepted by SetAntialiasing, lowest first.
func SupportedModes() []AntialiasingMode {
	return []AntialiasingMode{AntialiasingNone, AntialiasingMSAA2x, AntialiasingMSAA4x}
}

// CullingMode selects which triangle faces are discarded.
type CullingMode uint8

const (
	CullingNone CullingMode = iota
	CullingBackface
	CullingFrontface
)

// CullingModes lists every culling mode in draw order.
func CullingModes() []CullingMode {
	return []CullingMode{CullingNone, CullingBackface, CullingFrontface}
}

// Next cycles None -> Backface -> Frontface -> None.
func (c CullingMode) Next() CullingMode {
	return (c + 1) % 3
}

func (c CullingMode) String() string {
	switch c {
	case CullingNone:
		return "none"
	case CullingBackface:
		return "backface"
	case CullingFrontface:
		return "frontface"
	}
	return fmt.Sprintf("culling(%d)", uint8(c))
}

func (c CullingMode) MarshalText() ([]byte, error) {
	if c > CullingFrontface {
		return nil, fmt.Errorf("invalid culling mode %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *CullingMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "none", "":
		*c = CullingNone
	case "backface", "back":
		*c = CullingBackface
	case "frontface", "front":
		*c = CullingFrontface
	default:
		return fmt.Errorf("unknown culling mode %q", text)
	}
	return nil
}

// RenderConfig groups the pipeline-level settings shared by both renderers.
type RenderConfig struct {
	Antialiasing  AntialiasingMode `toml:"antialiasing"`
	Culling       CullingMode      `toml:"culling"`
	AlphaBlending bool             `toml:"alpha_blending"`
}

// DefaultRenderConfig is 4x MSAA, backface culling and no blending.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Antialiasing:  AntialiasingMSAA4x,
		Culling:       CullingBackface,
		AlphaBlending: false,
	}
}

// For2D disables culling so flat shapes stay visible from both sides and
// enables alpha blending.
func For2D() RenderConfig {
	return RenderConfig{
		Antialiasing:  AntialiasingMSAA4x,
		Culling:       CullingNone,
		AlphaBlending: true,
	}
}

func For3D() RenderConfig {
	return RenderConfig{
		Antialiasing:  AntialiasingMSAA4x,
		Culling:       CullingBackface,
		AlphaBlending: false,
	}
}

// Performance turns off multisampling.
func Performance() RenderConfig {
	return RenderConfig{
		Antialiasing:  AntialiasingNone,
		Culling:       CullingBackface,
		AlphaBlending: false,
	}
}

// Validate returns core.ErrUnsupportedAntialiasing for modes the renderer
// cannot create pipelines for.
func (c RenderConfig) Validate() error {
	if !c.Antialiasing.IsSupported() {
		return fmt.Errorf("%w: %s", core.ErrUnsupportedAntialiasing, c.Antialiasing)
	}
	if c.Culling > CullingFrontface {
		return fmt.Errorf("invalid culling mode %d", uint8(c.Culling))
	}
	return nil
}

func (c RenderConfig) String() string {
	return fmt.Sprintf("aa=%s culling=%s blending=%t", c.Antialiasing, c.Culling, c.AlphaBlending)
}
