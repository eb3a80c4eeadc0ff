package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	depthtop "github.com/calrizien/depthtop"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	scenePath := flag.String("scene", "", "Path to a YAML scene file (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := depthtop.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *scenePath != "" {
		cfg.ScenePath = *scenePath
	}
	if *debug {
		cfg.Debug = true
	}

	scene, err := depthtop.LoadScene(cfg.ScenePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := depthtop.NewApp()
	app.UseModules(
		depthtop.LoggingModule{Prefix: "depthtop", Debug: cfg.Debug},
		depthtop.ConfigModule{Config: cfg},
		depthtop.TimeModule{},
		depthtop.NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title),
		depthtop.InputModule{},
		depthtop.AssetServerModule{},
		depthtop.WindowModule{Scene: scene},
		depthtop.StereoCameraModule{Config: cfg},
		depthtop.HoverModule{},
		depthtop.CompositorModule{Config: cfg},
	)
	app.Run()
}
