//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Validates the shaders and runs the windowed demo.
func (Run) Engine() error {
	mg.Deps(Shaders.Validate)
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Renders the demo scene off-screen into the configured image file.
func (Run) Headless() error {
	mg.Deps(Shaders.Validate)
	fmt.Println("Run headless renderer...")
	if _, err := executeCmd("go", withArgs("run", "./cmd/headless"), withStream()); err != nil {
		return err
	}
	return nil
}
