// Package hotkeys provides global hotkey registration.
package hotkeys

import (
	"strconv"
	"strings"
)

// Modifier flags, matching the values RegisterHotKey expects.
const (
	ModAlt     uint32 = 0x0001
	ModControl uint32 = 0x0002
	ModShift   uint32 = 0x0004
	ModWin     uint32 = 0x0008
)

var modifierNames = map[string]uint32{
	"ctrl":    ModControl,
	"control": ModControl,
	"alt":     ModAlt,
	"shift":   ModShift,
	"win":     ModWin,
}

var keyCodes = map[string]uint32{
	"space": 0x20, "enter": 0x0D, "tab": 0x09, "escape": 0x1B, "esc": 0x1B,
	"up": 0x26, "down": 0x28, "left": 0x25, "right": 0x27,
}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		keyCodes[string(c)] = uint32('A' + (c - 'a'))
	}
	for c := '0'; c <= '9'; c++ {
		keyCodes[string(c)] = uint32(c)
	}
	for i := 1; i <= 12; i++ {
		keyCodes["f"+strconv.Itoa(i)] = uint32(0x70 + i - 1)
	}
}

// ParseHotkey parses a binding such as "Ctrl+Alt+L" into modifier flags and
// a virtual key code. The key must come last.
func ParseHotkey(hotkey string) (modifiers uint32, vk uint32, ok bool) {
	var parts []string
	for _, p := range strings.Split(hotkey, "+") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, strings.ToLower(p))
		}
	}
	if len(parts) == 0 {
		return 0, 0, false
	}

	for _, p := range parts[:len(parts)-1] {
		m, ok := modifierNames[p]
		if !ok {
			return 0, 0, false
		}
		modifiers |= m
	}
	vk, ok = keyCodes[parts[len(parts)-1]]
	if !ok {
		return 0, 0, false
	}
	return modifiers, vk, true
}
