//go:build js && wasm

/*
Browser entry point. Builds the demo scene, tries to bring up a renderer and
copies one rendered frame onto the page canvas, reporting progress in the
#status element. The browser backend of wgpu is not available yet, so GPU
initialization failures are reported on the page, together with the fact
that nothing is drawn, instead of crashing the module.
*/
package main

import (
	"context"
	"fmt"
	"image"
	"syscall/js"

	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderer"
	"github.com/spaghettifunk/facet/engine/renderer/config"
	"github.com/spaghettifunk/facet/engine/scene"
	"golang.org/x/exp/rand"
)

const canvasID = "wasm-canvas"

func setStatus(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	core.LogInfo("%s", msg)
	doc := js.Global().Get("document")
	if doc.IsUndefined() {
		return
	}
	if el := doc.Call("getElementById", "status"); !el.IsNull() {
		el.Set("textContent", msg)
	}
}

func canvasSize() (uint32, uint32) {
	doc := js.Global().Get("document")
	if doc.IsUndefined() {
		return 800, 600
	}
	canvas := doc.Call("getElementById", canvasID)
	if canvas.IsNull() {
		return 800, 600
	}
	return uint32(canvas.Get("width").Int()), uint32(canvas.Get("height").Int())
}

// failureStatus is shown when no frame reaches the canvas.
func failureStatus(err error) string {
	return fmt.Sprintf("%s; nothing is drawn on the canvas", err)
}

// drawToCanvas copies img into the canvas through its 2D context.
func drawToCanvas(img *image.NRGBA) error {
	doc := js.Global().Get("document")
	if doc.IsUndefined() {
		return fmt.Errorf("no document to draw into")
	}
	canvas := doc.Call("getElementById", canvasID)
	if canvas.IsNull() {
		return fmt.Errorf("canvas #%s not found", canvasID)
	}
	pixels := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(pixels, img.Pix)
	data := js.Global().Get("ImageData").New(pixels, img.Bounds().Dx(), img.Bounds().Dy())
	canvas.Call("getContext", "2d").Call("putImageData", data, 0, 0)
	return nil
}

// renderFrame converts a panic from an unimplemented backend into an error.
func renderFrame(r *renderer.HeadlessRenderer, sc *scene.Scene) (img *image.NRGBA, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("rendering failed: %v", rec)
		}
	}()
	return r.RenderImage(context.Background(), sc)
}

// startRenderer converts a panic from an unimplemented backend into an error.
func startRenderer(width, height uint32) (r *renderer.HeadlessRenderer, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("GPU initialization failed: %v", rec)
		}
	}()
	return renderer.NewHeadless(width, height, config.Performance())
}

func main() {
	sc := scene.New()
	scene.PopulateDemo(sc, rand.New(rand.NewSource(1)), 12)
	setStatus("scene ready with %d objects", sc.Len())

	width, height := canvasSize()
	r, err := startRenderer(width, height)
	if err != nil {
		setStatus("%s", failureStatus(err))
		return
	}
	defer r.Release()
	setStatus("renderer %s ready (%dx%d)", r.ID(), width, height)

	img, err := renderFrame(r, sc)
	if err == nil {
		err = drawToCanvas(img)
	}
	if err != nil {
		setStatus("%s", failureStatus(err))
		return
	}
	setStatus("drew %d objects at %dx%d", sc.Len(), width, height)
}
