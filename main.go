/*
Windowed demo of the facet renderer: a row of primitives plus scattered
objects, with key bindings for the render presets.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/gogpu/wgpu/hal/allbackends"
	"github.com/spaghettifunk/facet/engine"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/settings"
	"github.com/spaghettifunk/facet/testbed"
)

func main() {
	configPath := flag.String("config", "facet.toml", "settings file")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed for the scattered demo objects")
	flag.Parse()

	s, err := settings.Load(*configPath)
	if err != nil {
		core.LogFatal("unable to load settings: %s", err.Error())
	}
	core.SetLogLevel(s.LogLevel())

	tb := testbed.NewTestGame(s, *seed)

	engine, err := engine.New(tb.Application)
	if err != nil {
		panic(err)
	}

	if err := engine.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		_ = engine.Shutdown()
	}()

	// run engine
	if err := engine.Run(); err != nil {
		panic(err)
	}
}
