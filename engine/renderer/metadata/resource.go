package metadata

import "time"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not a resource the engine knows how to load. */
	ResourceTypeNone ResourceType = iota
	/** @brief WGSL shader source. */
	ResourceTypeShader
	/** @brief Precompiled SPIR-V shader module. */
	ResourceTypeShaderBinary
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeShaderBinary:
		return "shader-binary"
	default:
		return "none"
	}
}

/** @brief The SPIR-V magic number, first word of every module. */
const SPIRVMagic uint32 = 0x07230203

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource (file name without extension). */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The resource type. */
	Type ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/**
	 * @brief The resource data. A string for ResourceTypeShader,
	 * []uint32 words for ResourceTypeShaderBinary.
	 */
	Data interface{}
	/** @brief When the resource was read from disk. */
	LoadedAt time.Time
}

// Source returns the WGSL text of a shader resource.
func (r *Resource) Source() (string, bool) {
	s, ok := r.Data.(string)
	return s, ok && r.Type == ResourceTypeShader
}

// Words returns the SPIR-V words of a binary shader resource.
func (r *Resource) Words() ([]uint32, bool) {
	w, ok := r.Data.([]uint32)
	return w, ok && r.Type == ResourceTypeShaderBinary
}
