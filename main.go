// Package main provides the entry point for the Plan Sketcher desktop editor.
package main

import (
	"flag"
	"log"

	fyneapp "fyne.io/fyne/v2/app"

	"plan-sketcher/internal/app"
	"plan-sketcher/internal/client"
	"plan-sketcher/internal/config"
	"plan-sketcher/internal/interaction"
	"plan-sketcher/internal/render"
	"plan-sketcher/internal/version"
	"plan-sketcher/ui/canvas"
	"plan-sketcher/ui/mainwindow"
	"plan-sketcher/ui/prefs"
)

const (
	appID    = "io.plansketcher.editor"
	appTitle = "Plan Sketcher"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s %s", appTitle, version.String())

	configPath := flag.String("config", "", "TOML config file")
	envFile := flag.String("env", ".env", "dotenv file with environment overrides")
	config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ApplyFlags(flag.CommandLine); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}
	opts, err := cfg.Canvas.Options()
	if err != nil {
		log.Fatalf("Invalid canvas config: %v", err)
	}

	appPrefs := prefs.Load()
	// The saved URL only replaces the built-in default, never a configured one.
	apiURL := cfg.Client.APIURL
	if apiURL == config.Default().Client.APIURL {
		apiURL = appPrefs.String(prefs.KeyAPIURL, apiURL)
	}
	api := client.New(apiURL, client.WithTimeout(cfg.Client.Timeout.Duration))
	log.Printf("Drawing API: %s", api.BaseURL())

	state := app.NewState()
	core := interaction.NewCore(state)
	restoreSession(core, appPrefs)

	// Open a drawing given on the command line
	if flag.NArg() > 0 {
		path := flag.Arg(0)
		if err := state.LoadFile(path); err != nil {
			log.Printf("Failed to load drawing %s: %v", path, err)
		}
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.SketchTheme{})

	sketch := canvas.New(core, render.NewRenderer(opts))
	win := mainwindow.New(fyneApp, core, sketch, api, appPrefs)
	win.ShowAndRun()

	win.SavePreferences()
	win.StopWatching()
	log.Printf("%s exiting", appTitle)
}

// restoreSession applies the tool, annotation flag and name from the last run.
func restoreSession(core *interaction.Core, p *prefs.Prefs) {
	if name := p.String(prefs.KeyTool, ""); name != "" {
		tool, err := interaction.ParseTool(name)
		if err != nil {
			log.Printf("Ignoring saved tool: %v", err)
		} else {
			core.SetActiveTool(tool)
		}
	}
	core.SetAnnotationsVisible(p.Bool(prefs.KeyAnnotations, false))
	if name := p.String(prefs.KeyDrawingName, ""); name != "" {
		core.State().SetDrawingName(name)
	}
}
