//go:build windows

package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows/registry"

	"github.com/NaveLIL/lyrics-overlay/config"
	"github.com/NaveLIL/lyrics-overlay/logger"
)

const registryPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// Manager manages the Run key entry.
type Manager struct {
	name string
	args string
	log  *logrus.Entry
}

// New creates a manager that registers the running executable. args is
// appended to the command line, for example the config path.
func New(args string) *Manager {
	return &Manager{
		name: config.AppName,
		args: args,
		log:  logger.Get().Component("autostart"),
	}
}

// IsEnabled reports whether the Run key entry exists.
func (m *Manager) IsEnabled() (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, registryPath, registry.QUERY_VALUE)
	if err != nil {
		return false, fmt.Errorf("failed to open registry key: %w", err)
	}
	defer key.Close()

	_, _, err = key.GetStringValue(m.name)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read registry value: %w", err)
	}
	return true, nil
}

// Enable writes the Run key entry.
func (m *Manager) Enable() error {
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, registryPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open registry key: %w", err)
	}
	defer key.Close()

	value := fmt.Sprintf(`"%s"`, exePath)
	if m.args != "" {
		value += " " + m.args
	}
	if err := key.SetStringValue(m.name, value); err != nil {
		return fmt.Errorf("failed to set registry value: %w", err)
	}

	m.log.Infof("Autostart enabled: %s", value)
	return nil
}

// Disable removes the Run key entry.
func (m *Manager) Disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, registryPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open registry key: %w", err)
	}
	defer key.Close()

	if err := key.DeleteValue(m.name); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("failed to delete registry value: %w", err)
	}

	m.log.Info("Autostart disabled")
	return nil
}

// Toggle flips the setting and returns the new state.
func (m *Manager) Toggle() (bool, error) {
	enabled, err := m.IsEnabled()
	if err != nil {
		return false, err
	}
	if enabled {
		return false, m.Disable()
	}
	return true, m.Enable()
}

// Sync makes the Run key match want.
func (m *Manager) Sync(want bool) error {
	enabled, err := m.IsEnabled()
	if err != nil {
		return err
	}
	switch {
	case want && !enabled:
		return m.Enable()
	case !want && enabled:
		return m.Disable()
	}
	return nil
}
