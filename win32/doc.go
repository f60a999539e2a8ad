// Package win32 implements overlay.Platform and raster.Backend on top of
// user32 layered windows and GDI, plus the message helpers used by global
// hotkeys. Everything except this file is Windows-only.
package win32
