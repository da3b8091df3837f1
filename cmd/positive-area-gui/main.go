package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"positive-area/internal/app"
	"positive-area/internal/config"
	"positive-area/internal/gui"
	"positive-area/internal/logger"
)

const (
	windowWidth  = 700
	windowHeight = 550
)

func main() {
	log := logger.NewConsoleLogger(logger.LevelFromEnv())

	cfg, err := config.LoadConfig(os.Getenv("POSITIVE_AREA_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	core, err := app.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	core.ListenForInterrupts()

	fyneApp := fyneapp.NewWithID(app.AppID)
	window := fyneApp.NewWindow("Positive Area Calculator")
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.CenterOnScreen()
	window.SetMaster()

	view := gui.NewView(window, cfg.Output.Directory)
	view.SetController(gui.NewController(core.Context(), core.Runner, log))

	window.SetCloseIntercept(func() {
		log.Info("Application", "shutdown requested", nil)
		core.Cancel()
		window.Close()
	})

	log.Info("Application", "starting GUI", map[string]interface{}{
		"version": app.AppVersion,
		"reader":  cfg.Processing.Reader,
	})
	view.Show()
	fyneApp.Run()

	core.Shutdown()
}
