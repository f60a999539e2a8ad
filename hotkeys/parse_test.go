package hotkeys

import "testing"

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		in   string
		mods uint32
		vk   uint32
		ok   bool
	}{
		{"Ctrl+Alt+L", ModControl | ModAlt, 0x4C, true},
		{"ctrl + shift + h", ModControl | ModShift, 0x48, true},
		{"Win+F12", ModWin, 0x7B, true},
		{"Alt+F1", ModAlt, 0x70, true},
		{"Control+7", ModControl, 0x37, true},
		{"Esc", 0, 0x1B, true},
		{"Ctrl+Hyper+L", 0, 0, false},
		{"Ctrl+", 0, 0, false},
		{"", 0, 0, false},
		{"Ctrl+Alt+PrintScreen", 0, 0, false},
	}

	for _, tt := range tests {
		mods, vk, ok := ParseHotkey(tt.in)
		if ok != tt.ok || mods != tt.mods || vk != tt.vk {
			t.Errorf("ParseHotkey(%q): expected (%#x, %#x, %v), got (%#x, %#x, %v)",
				tt.in, tt.mods, tt.vk, tt.ok, mods, vk, ok)
		}
	}
}
