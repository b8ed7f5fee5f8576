//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const (
	webDir    = "web"
	wasmFile  = "facet.wasm"
	wasmServe = "github.com/hajimehoshi/wasmserve@latest"
	binDir    = "bin"
)

const webIndexTpl = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>facet</title>
  <script src="wasm_exec.js"></script>
  <script>
    const go = new Go();
    WebAssembly.instantiateStreaming(fetch("%s"), go.importObject)
      .then((result) => go.run(result.instance))
      .catch((err) => { document.getElementById("status").textContent = err; });
  </script>
</head>
<body>
  <canvas id="wasm-canvas" width="800" height="600"></canvas>
  <p id="status">loading...</p>
</body>
</html>
`

// Installs wasmserve, builds ./cmd/web for js/wasm into web/ and writes the page around it.
func (Build) Web() error {
	if _, err := executeCmd("go", withArgs("install", wasmServe), withStream()); err != nil {
		return err
	}
	if err := os.MkdirAll(webDir, 0o755); err != nil {
		return err
	}
	if _, err := executeCmd("go",
		withArgs("build", "-o", filepath.Join(webDir, wasmFile), "./cmd/web"),
		withEnv("GOOS=js", "GOARCH=wasm"),
		withStream()); err != nil {
		return err
	}

	goroot, err := executeCmd("go", withArgs("env", "GOROOT"))
	if err != nil {
		return err
	}
	if err := copyWasmExec(strings.TrimSpace(goroot)); err != nil {
		return err
	}
	index := fmt.Sprintf(webIndexTpl, wasmFile)
	if err := os.WriteFile(filepath.Join(webDir, "index.html"), []byte(index), 0o644); err != nil {
		return err
	}

	fmt.Println("Web build ready in ./" + webDir)
	fmt.Println("Serve it with any static file server, for example:")
	fmt.Println("  cd " + webDir + " && python3 -m http.server 8080")
	fmt.Println("or build and serve in one step with:")
	fmt.Println("  wasmserve ./cmd/web")
	fmt.Println("then open http://localhost:8080")
	return nil
}

// wasm_exec.js moved from misc/wasm to lib/wasm in Go 1.24.
func copyWasmExec(goroot string) error {
	dst := filepath.Join(webDir, "wasm_exec.js")
	var lastErr error
	for _, dir := range []string{"lib/wasm", "misc/wasm"} {
		src := filepath.Join(goroot, dir, "wasm_exec.js")
		if lastErr = copyFile(src, dst); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("wasm_exec.js not found under %s: %w", goroot, lastErr)
}

// Builds the windowed demo into bin/.
func (Build) Native() error {
	mg.Deps(Shaders.Validate)
	_, err := executeCmd("go", withArgs("build", "-o", filepath.Join(binDir, "facet"), "."), withStream())
	return err
}

// Builds the headless renderer example into bin/.
func (Build) Headless() error {
	mg.Deps(Shaders.Validate)
	_, err := executeCmd("go", withArgs("build", "-o", filepath.Join(binDir, "facet-headless"), "./cmd/headless"), withStream())
	return err
}
