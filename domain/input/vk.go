package input

// ParseVK converts a key name (e.g. "q", "esc", "F3") into a Windows virtual-key code.
// Recognizes A..Z, 0..9, F1..F12, esc, space and enter.
func ParseVK(key string) (byte, bool) {
	k := NormalizeKey(key)
	switch k {
	case "esc":
		return 0x1B, true
	case "space":
		return 0x20, true
	case "enter":
		return 0x0D, true
	}
	if len(k) == 1 {
		c := k[0]
		switch {
		case c >= 'a' && c <= 'z':
			return c - 'a' + 'A', true // VK codes match upper-case ASCII
		case c >= '0' && c <= '9':
			return c, true
		}
		return 0, false
	}
	if len(k) >= 2 && len(k) <= 3 && k[0] == 'f' {
		n := 0
		for _, d := range k[1:] {
			if d < '0' || d > '9' {
				return 0, false
			}
			n = n*10 + int(d-'0')
		}
		if n >= 1 && n <= 12 {
			return byte(0x70 + n - 1), true // VK_F1=0x70
		}
	}
	return 0, false
}

// ValidKey reports whether key names a key every source can observe.
func ValidKey(key string) bool {
	_, ok := ParseVK(key)
	return ok
}

// asyncPressed interprets a GetAsyncKeyState result: the high bit means the key
// is down, the low bit that it was pressed since the previous query.
func asyncPressed(state uint16) bool { return state&0x8001 != 0 }
