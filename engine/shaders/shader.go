package shaders

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/spaghettifunk/facet/engine/core"
)

//go:embed basic.wgsl
var basicSource string

const (
	/** @brief Name of the vertex stage entry point every facet shader must export. */
	VertexEntryPoint = "vs_main"
	/** @brief Name of the fragment stage entry point every facet shader must export. */
	FragmentEntryPoint = "fs_main"
)

/**
 * @brief Returns the built-in WGSL shader: one mat4 uniform at group 0 binding 0,
 * position and color vertex inputs, flat color output.
 */
func Source() string {
	return basicSource
}

/**
 * @brief Parses, lowers and validates the given WGSL source and checks that it
 * exposes the vertex and fragment entry points the pipelines expect.
 * @param source The WGSL source.
 * @returns nil if the source is usable; otherwise an error wrapping core.ErrShaderValidation.
 */
func Validate(source string) error {
	_, err := validate(source)
	return err
}

func validate(source string) (*ir.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrShaderValidation, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrShaderValidation, err)
	}
	issues, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrShaderValidation, err)
	}
	if len(issues) > 0 {
		return nil, fmt.Errorf("%w: %s (%d issues)", core.ErrShaderValidation, issues[0].Error(), len(issues))
	}
	if !hasEntryPoint(module, VertexEntryPoint, ir.StageVertex) {
		return nil, fmt.Errorf("%w: missing @vertex fn %s", core.ErrShaderValidation, VertexEntryPoint)
	}
	if !hasEntryPoint(module, FragmentEntryPoint, ir.StageFragment) {
		return nil, fmt.Errorf("%w: missing @fragment fn %s", core.ErrShaderValidation, FragmentEntryPoint)
	}
	return module, nil
}

func hasEntryPoint(module *ir.Module, name string, stage ir.ShaderStage) bool {
	for _, ep := range module.EntryPoints {
		if ep.Name == name && ep.Stage == stage {
			return true
		}
	}
	return false
}

/**
 * @brief Validates the source and compiles it to a SPIR-V binary.
 * Used by the build script to ship precompiled modules.
 */
func CompileSPIRV(source string) ([]byte, error) {
	if err := Validate(source); err != nil {
		return nil, err
	}
	spv, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("CompileSPIRV - %w", err)
	}
	return spv, nil
}

// Load reads a WGSL file from disk and validates it.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	source := string(data)
	if err := Validate(source); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return source, nil
}
