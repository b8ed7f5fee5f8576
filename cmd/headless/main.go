/*
Renders the demo scene off-screen and writes it to an image file
(.png, .bmp or .tiff by extension).
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/gogpu/wgpu/hal/allbackends"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderer"
	"github.com/spaghettifunk/facet/engine/scene"
	"github.com/spaghettifunk/facet/engine/settings"
	"github.com/spaghettifunk/facet/engine/shaders"
	"golang.org/x/exp/rand"
)

func main() {
	configPath := flag.String("config", "facet.toml", "settings file")
	output := flag.String("out", "", "output image, overrides [headless] output")
	width := flag.Uint("width", 0, "image width, overrides [headless] width")
	height := flag.Uint("height", 0, "image height, overrides [headless] height")
	aa := flag.String("aa", "", "antialiasing: none, msaa2x, msaa4x")
	seed := flag.Uint64("seed", 1, "seed for the scattered demo objects")
	scattered := flag.Int("objects", 12, "number of scattered demo objects")
	orthographic := flag.Bool("ortho", false, "use the orthographic camera")
	flag.Parse()

	if err := run(*configPath, *output, uint32(*width), uint32(*height), *aa, *seed, *scattered, *orthographic); err != nil {
		core.LogError("%s", err)
		os.Exit(1)
	}
}

func run(configPath, output string, width, height uint32, aa string, seed uint64, scattered int, orthographic bool) error {
	s, err := settings.Load(configPath)
	if err != nil {
		return err
	}
	core.SetLogLevel(s.LogLevel())

	h := s.Headless
	if output != "" {
		h.Output = output
	}
	if width > 0 {
		h.Width = width
	}
	if height > 0 {
		h.Height = height
	}
	cfg := s.Render
	if aa != "" {
		if err := cfg.Antialiasing.UnmarshalText([]byte(aa)); err != nil {
			return err
		}
	}
	backends, err := renderer.ParseBackends(h.Backend)
	if err != nil {
		return err
	}

	r, err := renderer.NewHeadless(h.Width, h.Height, cfg, renderer.WithBackends(backends))
	if err != nil {
		return err
	}
	defer r.Release()

	if s.Shaders.Path != "" {
		src, err := shaders.Load(s.Shaders.Path)
		if err != nil {
			return err
		}
		if err := r.ReloadShader(src); err != nil {
			return err
		}
	}
	if orthographic {
		r.Camera().SetProjectionMode(renderer.ProjectionOrthographic)
	}

	sc := scene.New()
	scene.PopulateDemo(sc, rand.New(rand.NewSource(seed)), scattered)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	img, err := r.RenderImage(ctx, sc)
	if err != nil {
		return err
	}
	if err := renderer.SaveImage(h.Output, img); err != nil {
		return err
	}
	stats := r.CacheStats()
	core.LogInfo("wrote %s (%dx%d, %s, %d objects, %d cached vertex buffers)",
		h.Output, h.Width, h.Height, r.Config(), sc.Len(), stats.Entries)
	return nil
}
