// Lyrics Overlay - a borderless, always-on-top lyrics window.
//
// The overlay is a pair of layered surfaces: a translucent backdrop and a
// per-pixel-alpha text surface. A controller drives it over a JSON-lines
// protocol on stdin/stdout or TCP.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"github.com/NaveLIL/lyrics-overlay/config"
	"github.com/NaveLIL/lyrics-overlay/control"
	"github.com/NaveLIL/lyrics-overlay/fonts"
	"github.com/NaveLIL/lyrics-overlay/headless"
	"github.com/NaveLIL/lyrics-overlay/logger"
	"github.com/NaveLIL/lyrics-overlay/overlay"
	"github.com/NaveLIL/lyrics-overlay/raster"
)

const (
	appName    = "Lyrics Overlay"
	appVersion = "1.0.0"
)

// Application holds all application components.
type Application struct {
	config    *config.Config
	configMgr *config.Manager
	log       *logger.Logger
	headless  bool

	loop    *overlay.Loop
	overlay *overlay.Overlay
	server  *control.Server
	native  nativeUI

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
	done         chan struct{}
}

// nativeUI is the platform-specific shell: tray and hotkeys on Windows.
type nativeUI interface {
	// Run blocks until the application shuts down.
	Run()
	Stop()
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	headless := flag.Bool("headless", false, "Use the in-memory platform instead of native windows")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", appName, appVersion)
		os.Exit(0)
	}

	app := &Application{headless: *headless, done: make(chan struct{})}
	if err := app.init(*configPath, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := app.run(); err != nil {
		app.log.Errorf("Fatal: %v", err)
		app.shutdown()
		os.Exit(1)
	}
}

func (app *Application) init(configPath string, debug bool) error {
	var err error
	app.ctx, app.cancel = context.WithCancel(context.Background())
	app.log = logger.Get()

	app.configMgr = config.GetManager()
	if configPath == "" {
		configPath, err = config.GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}
	if err := app.configMgr.Load(configPath); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.config = app.configMgr.Get()

	if debug {
		app.config.Logging.Level = "debug"
	}
	if err := app.log.Init(&app.config.Logging, filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Infof("Starting %s v%s", appName, appVersion)
	app.log.Infof("Config loaded from: %s", configPath)

	if err := multierr.Combine(app.config.Validate()...); err != nil {
		for _, e := range multierr.Errors(err) {
			app.log.Warnf("Config validation warning: %v", e)
		}
	}
	return nil
}

func (app *Application) run() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	s, err := app.config.Style()
	if err != nil {
		return fmt.Errorf("invalid overlay style: %w", err)
	}

	platform, backend, pump, err := app.newPlatform()
	if err != nil {
		return err
	}

	app.loop = overlay.NewLoop(pump)
	go func() {
		app.loop.Run(app.ctx)
		close(app.done)
	}()

	if err := app.startOverlay(func() (*overlay.Overlay, error) {
		return overlay.New(s, platform, backend)
	}); err != nil {
		return err
	}

	app.native = app.newNativeUI()

	dispatcher := control.NewDispatcher(app.loop, app.overlay, app.log)
	app.server = control.NewServer(dispatcher)
	if app.config.Control.Listen != "" {
		if _, err := app.server.Listen(app.ctx, app.config.Control.Listen); err != nil {
			app.log.Errorf("Control server disabled: %v", err)
		}
	}
	if app.config.Control.Stdio {
		go func() {
			if err := app.server.Serve(app.ctx, os.Stdin, os.Stdout); err != nil {
				app.log.Warnf("Stdio control stopped: %v", err)
			}
			if app.ctx.Err() == nil && app.native == nil {
				// Without a tray the controller owns our lifetime.
				app.log.Info("Controller disconnected")
				app.shutdown()
			}
		}()
	}

	go func() {
		select {
		case <-sigCh:
			app.log.Info("Received shutdown signal")
			app.shutdown()
		case <-app.ctx.Done():
		}
	}()

	app.log.Info("Application started")

	if app.native != nil {
		app.native.Run()
		app.shutdown()
		return nil
	}
	<-app.ctx.Done()
	app.shutdown()
	return nil
}

// startOverlay builds the overlay on the UI loop and applies the start-up
// visibility.
func (app *Application) startOverlay(build func() (*overlay.Overlay, error)) error {
	var buildErr error
	err := app.loop.Do(func() {
		app.overlay, buildErr = build()
		if buildErr != nil {
			return
		}
		app.overlay.OnMove(func(p image.Point) {
			app.log.Debugf("Overlay moved to (%d, %d)", p.X, p.Y)
		})
		if app.config.Overlay.ShowOnStart {
			if err := app.overlay.Create(); err != nil {
				app.log.Errorf("Failed to show overlay: %v", err)
			}
		}
	})
	if err != nil {
		return err
	}
	if buildErr != nil {
		return fmt.Errorf("failed to create overlay: %w", buildErr)
	}
	return nil
}

// toggleVisible shows or hides the overlay and returns the new visibility.
func (app *Application) toggleVisible() bool {
	var visible bool
	app.loop.Do(func() {
		if app.overlay.Visible() {
			app.overlay.Hide()
		} else if err := app.overlay.Show(); err != nil {
			app.log.Errorf("Failed to show overlay: %v", err)
		}
		visible = app.overlay.Visible()
	})
	return visible
}

// toggleLock flips click-through and returns the new state.
func (app *Application) toggleLock() bool {
	var locked bool
	app.loop.Do(func() {
		on := !app.overlay.Style().ClickThrough
		if err := app.overlay.SetClickThrough(on); err != nil {
			app.log.Errorf("Failed to set click-through: %v", err)
		}
		locked = app.overlay.Style().ClickThrough
	})
	return locked
}

// exportLog writes the buffered log entries next to the configuration.
func (app *Application) exportLog() {
	dir, err := config.GetConfigDir()
	if err != nil {
		app.log.Errorf("Failed to get config directory: %v", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("lyrics-overlay-%s.log", time.Now().Format("2006-01-02_15-04-05")))
	if err := app.log.ExportLogs(path, app.log.Recent(0)); err != nil {
		app.log.Errorf("Failed to export log: %v", err)
		return
	}
	app.log.Infof("Log exported to: %s", path)
}

// shutdown destroys the window pair, stores the last position and stops
// every component.
func (app *Application) shutdown() {
	app.shutdownOnce.Do(func() {
		app.log.Info("Shutting down...")

		var pos image.Point
		if app.loop != nil && app.overlay != nil {
			app.loop.Do(func() {
				pos = app.overlay.Style().Position
				app.overlay.Close()
			})
		}

		app.cancel()
		if app.server != nil {
			app.server.Close()
		}
		if app.loop != nil {
			select {
			case <-app.done:
			case <-time.After(2 * time.Second):
				app.log.Warn("Shutdown timeout, UI loop still running")
			}
		}

		var err error
		if app.overlay != nil {
			err = multierr.Append(err, app.configMgr.RememberPosition(pos.X, pos.Y))
			err = multierr.Append(err, app.configMgr.Save())
		}
		if err != nil {
			app.log.Warnf("Failed to save config: %v", err)
		}

		if app.native != nil {
			app.native.Stop()
		}
		app.log.Close()
	})
}

// fontsOptions maps the fonts section onto the portable text backend.
func (app *Application) fontsOptions() fonts.Options {
	return fonts.Options{
		SystemFonts: app.config.Fonts.SystemFonts,
		CacheDir:    app.config.Fonts.CacheDir,
		DPI:         app.config.Fonts.DPI,
	}
}

// headlessPlatform renders into memory, optionally dumping frames to disk.
func (app *Application) headlessPlatform() (overlay.Platform, raster.Backend) {
	app.log.Info("Using headless platform")
	return headless.New(headless.Options{DumpDir: app.config.Headless.DumpDir}), fonts.NewBackend(app.fontsOptions())
}
