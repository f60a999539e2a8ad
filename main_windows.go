//go:build windows

package main

import (
	"fmt"

	"github.com/NaveLIL/lyrics-overlay/autostart"
	"github.com/NaveLIL/lyrics-overlay/config"
	"github.com/NaveLIL/lyrics-overlay/hotkeys"
	"github.com/NaveLIL/lyrics-overlay/overlay"
	"github.com/NaveLIL/lyrics-overlay/raster"
	"github.com/NaveLIL/lyrics-overlay/ui"
	"github.com/NaveLIL/lyrics-overlay/win32"
)

func (app *Application) newPlatform() (overlay.Platform, raster.Backend, func(), error) {
	if app.headless {
		p, b := app.headlessPlatform()
		return p, b, nil, nil
	}
	p, err := win32.NewPlatform()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize windows: %w", err)
	}
	return p, win32.NewGDIBackend(), p.Pump, nil
}

// shell is the tray plus global hotkeys.
type shell struct {
	tray    *ui.TrayUI
	hotkeys *hotkeys.Manager
}

func (s *shell) Run() {
	if s.tray != nil {
		s.tray.Run()
	}
}

func (s *shell) Stop() {
	if s.tray != nil {
		s.tray.Quit()
	}
	if s.hotkeys != nil {
		s.hotkeys.Stop()
	}
}

// newNativeUI starts hotkeys and builds the tray. It returns nil when
// neither is enabled so the controller keeps ownership of the process.
func (app *Application) newNativeUI() nativeUI {
	if app.headless {
		return nil
	}
	s := &shell{}

	auto := autostart.New(fmt.Sprintf(`-config "%s"`, app.configMgr.FilePath()))
	if err := auto.Sync(app.config.UI.Autostart); err != nil {
		app.log.Warnf("Failed to sync autostart: %v", err)
	}

	if app.config.UI.TrayEnabled {
		var locked, visible bool
		app.loop.Do(func() {
			locked = app.overlay.Style().ClickThrough
			visible = app.overlay.Visible()
		})
		s.tray = ui.NewTrayUI(&app.config.UI, locked, visible)
		s.tray.SetCallbacks(ui.Callbacks{
			ToggleVisible: app.toggleVisible,
			ToggleLock:    app.toggleLock,
			ToggleAutostart: func() bool {
				on, err := auto.Toggle()
				if err != nil {
					app.log.Errorf("Failed to toggle autostart: %v", err)
				}
				if err := app.configMgr.Update(func(c *config.Config) { c.UI.Autostart = on }); err != nil {
					app.log.Warnf("Failed to store autostart: %v", err)
				}
				return on
			},
			ExportLog: app.exportLog,
			Quit:      app.shutdown,
		})
	}

	if app.config.Hotkeys.Enabled {
		s.hotkeys = hotkeys.New()
		s.hotkeys.Start(app.ctx)
		s.hotkeys.RegisterDefaults(app.config.Hotkeys.ClickThrough, app.config.Hotkeys.Visibility,
			func() {
				locked := app.toggleLock()
				if s.tray != nil {
					s.tray.SetLocked(locked)
				}
			},
			func() {
				visible := app.toggleVisible()
				if s.tray != nil {
					s.tray.SetVisible(visible)
				}
			})
	}

	if s.tray == nil {
		if s.hotkeys != nil {
			go func() {
				<-app.ctx.Done()
				s.hotkeys.Stop()
			}()
		}
		return nil
	}
	return s
}
