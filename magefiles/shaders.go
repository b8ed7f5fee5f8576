//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/spaghettifunk/facet/engine/shaders"
)

type Shaders mg.Namespace

const shaderDir = "engine/shaders"

func wgslFiles() ([]string, error) {
	return filepath.Glob(filepath.Join(shaderDir, "*.wgsl"))
}

// Validates every WGSL file in engine/shaders.
func (Shaders) Validate() error {
	files, err := wgslFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if _, err := shaders.Load(f); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", f)
	}
	return nil
}

// Compiles every WGSL file in engine/shaders to SPIR-V next to the source.
func (Shaders) Compile() error {
	mg.Deps(Shaders.Validate)
	files, err := wgslFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		spv, err := shaders.CompileSPIRV(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		out := strings.TrimSuffix(f, filepath.Ext(f)) + ".spv"
		if err := os.WriteFile(out, spv, 0o644); err != nil {
			return err
		}
		fmt.Printf("%s -> %s (%d bytes)\n", f, out, len(spv))
	}
	return nil
}

