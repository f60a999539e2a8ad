//go:build !windows

package main

import (
	"github.com/NaveLIL/lyrics-overlay/overlay"
	"github.com/NaveLIL/lyrics-overlay/raster"
)

// newPlatform always falls back to the in-memory platform: layered
// windows only exist on Windows.
func (app *Application) newPlatform() (overlay.Platform, raster.Backend, func(), error) {
	if !app.headless {
		app.log.Warn("Native windows are not supported on this platform")
	}
	p, b := app.headlessPlatform()
	return p, b, nil, nil
}

func (app *Application) newNativeUI() nativeUI { return nil }
