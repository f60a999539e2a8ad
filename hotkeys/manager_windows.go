//go:build windows

package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NaveLIL/lyrics-overlay/logger"
	"github.com/NaveLIL/lyrics-overlay/win32"
)

// Manager owns a locked OS thread that registers hotkeys and receives
// WM_HOTKEY. Hotkeys registered with a nil window belong to the thread
// that registered them.
type Manager struct {
	handlers   map[HotkeyID]Handler
	mu         sync.RWMutex
	log        *logrus.Entry
	running    bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	registerCh chan registration
	done       chan struct{} // closed when messageLoop returns
}

// New creates a hotkey manager.
func New() *Manager {
	return &Manager{
		handlers:   make(map[HotkeyID]Handler),
		log:        logger.Get().Component("hotkeys"),
		registerCh: make(chan registration, 4),
	}
}

// Register registers hotkey on the manager thread. It returns
// ErrNotRunning when Start has not been called or the thread has exited.
func (m *Manager) Register(id HotkeyID, hotkey string, handler Handler) error {
	m.mu.RLock()
	done := m.done
	m.mu.RUnlock()

	reg := registration{id: id, hotkey: hotkey, handler: handler, resultCh: make(chan error, 1)}
	return submit(m.registerCh, done, reg)
}

func (m *Manager) register(reg registration) error {
	modifiers, vk, ok := ParseHotkey(reg.hotkey)
	if !ok {
		return fmt.Errorf("invalid hotkey %q", reg.hotkey)
	}
	if err := win32.RegisterHotKey(0, int(reg.id), modifiers, vk); err != nil {
		return fmt.Errorf("register %s: %w", reg.hotkey, err)
	}

	m.mu.Lock()
	m.handlers[reg.id] = reg.handler
	m.mu.Unlock()

	m.log.Infof("Registered hotkey: %s (ID: %d)", reg.hotkey, reg.id)
	return nil
}

// Start starts the manager thread.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	done := make(chan struct{})
	m.done = done
	m.mu.Unlock()

	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go m.messageLoop(ctx, done)
	m.log.Info("Hotkey manager started")
}

// Stop unregisters every hotkey and stops the manager thread.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	m.log.Info("Hotkey manager stopped")
}

func (m *Manager) messageLoop(ctx context.Context, done chan struct{}) {
	defer m.wg.Done()
	defer close(done)
	defer m.dropPending()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer m.unregisterAll()

	var msg win32.MSG
	for {
		select {
		case <-ctx.Done():
			return
		case reg := <-m.registerCh:
			err := m.register(reg)
			if err != nil {
				m.log.Warnf("Hotkey not registered: %v", err)
			}
			reg.resultCh <- err
		default:
			if !win32.PeekMessage(&msg) {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if msg.Message != win32.WM_HOTKEY {
				continue
			}
			id := HotkeyID(msg.WParam)
			m.mu.RLock()
			handler := m.handlers[id]
			m.mu.RUnlock()
			if handler != nil {
				m.log.Debugf("Hotkey pressed: ID=%d", id)
				go handler()
			}
		}
	}
}

// dropPending answers registrations queued after the loop stopped reading.
func (m *Manager) dropPending() {
	for {
		select {
		case reg := <-m.registerCh:
			reg.resultCh <- ErrNotRunning
		default:
			return
		}
	}
}

// unregisterAll runs on the manager thread; hotkeys can only be removed by
// the thread that registered them.
func (m *Manager) unregisterAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.handlers {
		if err := win32.UnregisterHotKey(0, int(id)); err != nil {
			m.log.Warnf("Failed to unregister hotkey %d: %v", id, err)
		}
		delete(m.handlers, id)
	}
}

// RegisterDefaults registers the click-through and visibility bindings.
// Empty bindings are skipped.
func (m *Manager) RegisterDefaults(clickThrough, visibility string, onClickThrough, onVisibility Handler) {
	if clickThrough != "" && onClickThrough != nil {
		if err := m.Register(HotkeyClickThrough, clickThrough, onClickThrough); errors.Is(err, ErrNotRunning) {
			m.log.Warn("Hotkey manager is not running, skipping default bindings")
			return
		}
	}
	if visibility != "" && onVisibility != nil {
		_ = m.Register(HotkeyVisibility, visibility, onVisibility)
	}
}
