package hotkeys

import "errors"

// HotkeyID identifies a registered hotkey.
type HotkeyID int

const (
	HotkeyClickThrough HotkeyID = iota + 1
	HotkeyVisibility
)

// Handler runs when its hotkey is pressed. It is called on its own
// goroutine and must marshal overlay work onto the UI loop.
type Handler func()

// ErrNotRunning is returned by Register when the manager thread is not
// running or exits before answering.
var ErrNotRunning = errors.New("hotkey manager not running")

type registration struct {
	id       HotkeyID
	hotkey   string
	handler  Handler
	resultCh chan error
}

// submit hands reg to the manager thread and waits for its answer. A nil
// or closed done means the thread is gone.
func submit(queue chan<- registration, done <-chan struct{}, reg registration) error {
	if done == nil {
		return ErrNotRunning
	}
	select {
	case queue <- reg:
	case <-done:
		return ErrNotRunning
	}
	select {
	case err := <-reg.resultCh:
		return err
	case <-done:
		return ErrNotRunning
	}
}
