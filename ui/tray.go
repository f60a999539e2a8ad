// Package ui provides the system tray menu for the lyrics overlay.
package ui

import (
	"sync"

	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"

	"github.com/NaveLIL/lyrics-overlay/config"
	"github.com/NaveLIL/lyrics-overlay/logger"
)

// Callbacks are run from the tray goroutine. Toggles return the new state.
type Callbacks struct {
	ToggleVisible   func() bool
	ToggleLock      func() bool
	ToggleAutostart func() bool
	ExportLog       func()
	Quit            func()
}

// TrayUI manages the system tray icon and menu.
type TrayUI struct {
	config *config.UIConfig
	log    *logrus.Entry
	cb     Callbacks

	mVisible   *systray.MenuItem
	mLock      *systray.MenuItem
	mAutostart *systray.MenuItem
	mExportLog *systray.MenuItem
	mQuit      *systray.MenuItem

	locked   bool
	visible  bool
	mu       sync.Mutex
	running  bool
	quitting bool
	ready    chan struct{}
}

// NewTrayUI creates a tray UI. locked and visible are the initial states
// shown in the menu.
func NewTrayUI(cfg *config.UIConfig, locked, visible bool) *TrayUI {
	return &TrayUI{
		config:  cfg,
		log:     logger.Get().Component("tray"),
		locked:  locked,
		visible: visible,
		ready:   make(chan struct{}),
	}
}

// SetCallbacks sets the menu actions. It must be called before Run.
func (t *TrayUI) SetCallbacks(cb Callbacks) { t.cb = cb }

// Run starts the system tray and blocks until Quit.
func (t *TrayUI) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayUI) onReady() {
	t.mu.Lock()
	t.running = true
	t.mu.Unlock()

	systray.SetIcon(generateSimpleIcon(0x33, 0x99, 0xFF))
	systray.SetTitle("Lyrics Overlay")
	systray.SetTooltip("Lyrics Overlay")

	t.mVisible = systray.AddMenuItem(visibleLabel(t.visible), "Show or hide the lyrics overlay")
	t.mLock = systray.AddMenuItemCheckbox("Lock (click-through)", "Let mouse input pass through the overlay", t.locked)
	systray.AddSeparator()
	t.mAutostart = systray.AddMenuItemCheckbox("Start with Windows", "Start automatically when Windows starts", t.config.Autostart)
	t.mExportLog = systray.AddMenuItem("Export Log", "Write recent log entries to a file")
	systray.AddSeparator()
	t.mQuit = systray.AddMenuItem("Exit", "Close the lyrics overlay")

	close(t.ready)
	go t.handleMenuEvents()
	t.log.Info("System tray initialized")
}

func (t *TrayUI) onExit() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
	t.log.Info("System tray closed")
}

func visibleLabel(visible bool) string {
	if visible {
		return "Hide Lyrics"
	}
	return "Show Lyrics"
}

func setChecked(item *systray.MenuItem, on bool) {
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func (t *TrayUI) handleMenuEvents() {
	for {
		select {
		case <-t.mVisible.ClickedCh:
			if t.cb.ToggleVisible != nil {
				t.mVisible.SetTitle(visibleLabel(t.cb.ToggleVisible()))
			}

		case <-t.mLock.ClickedCh:
			if t.cb.ToggleLock != nil {
				t.SetLocked(t.cb.ToggleLock())
			}

		case <-t.mAutostart.ClickedCh:
			if t.cb.ToggleAutostart != nil {
				on := t.cb.ToggleAutostart()
				setChecked(t.mAutostart, on)
			}

		case <-t.mExportLog.ClickedCh:
			if t.cb.ExportLog != nil {
				t.cb.ExportLog()
			}

		case <-t.mQuit.ClickedCh:
			if t.cb.Quit != nil {
				t.cb.Quit()
			}
			return
		}
	}
}

// SetLocked updates the lock checkbox, for changes made outside the menu.
func (t *TrayUI) SetLocked(on bool) {
	t.mu.Lock()
	t.locked = on
	t.mu.Unlock()
	select {
	case <-t.ready:
		setChecked(t.mLock, on)
	default:
	}
}

// SetVisible updates the visibility item label.
func (t *TrayUI) SetVisible(on bool) {
	t.mu.Lock()
	t.visible = on
	t.mu.Unlock()
	select {
	case <-t.ready:
		t.mVisible.SetTitle(visibleLabel(on))
	default:
	}
}

// Quit closes the system tray, making Run return.
func (t *TrayUI) Quit() {
	t.mu.Lock()
	if t.quitting {
		t.mu.Unlock()
		return
	}
	t.quitting = true
	t.mu.Unlock()
	systray.Quit()
}

// IsRunning reports whether the tray is running.
func (t *TrayUI) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// generateSimpleIcon builds a 16x16 single-colour ICO.
func generateSimpleIcon(r, g, b byte) []byte {
	const width, height = 16, 16

	xorSize := width * height * 4
	andSize := ((width + 31) / 32) * 4 * height
	dataSize := 40 + xorSize + andSize

	buf := make([]byte, 6+16+dataSize)

	// ICONDIR
	buf[2] = 1 // type: icon
	buf[4] = 1 // image count

	// ICONDIRENTRY
	buf[6] = width
	buf[7] = height
	buf[10] = 1  // planes
	buf[12] = 32 // bits per pixel
	buf[14] = byte(dataSize)
	buf[15] = byte(dataSize >> 8)
	buf[16] = byte(dataSize >> 16)
	buf[17] = byte(dataSize >> 24)
	buf[18] = 22 // image offset

	// BITMAPINFOHEADER
	off := 22
	buf[off] = 40
	buf[off+4] = width
	buf[off+8] = height * 2 // XOR and AND masks
	buf[off+12] = 1
	buf[off+14] = 32
	buf[off+20] = byte(xorSize + andSize)
	buf[off+21] = byte((xorSize + andSize) >> 8)

	// XOR mask, BGRA bottom-up. A one pixel transparent border rounds it off.
	off += 40
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := off + (y*width+x)*4
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				continue
			}
			buf[i] = b
			buf[i+1] = g
			buf[i+2] = r
			buf[i+3] = 255
		}
	}
	return buf
}
