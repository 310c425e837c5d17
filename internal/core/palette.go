package core

// cursorPalette is the fixed, ordered set of cursor colors handed out to
// participants of a room.
var cursorPalette = []string{
	"#00d9ff",
	"#a855f7",
	"#22c55e",
	"#f59e0b",
	"#ef4444",
	"#ec4899",
}

// assignCursorColor picks the first palette color not currently in use in the
// room. When every color is taken it wraps on the occupant count, so colors
// repeat past the palette size. No color state is kept anywhere else; the
// in-use set is recomputed from live membership on every call.
func assignCursorColor(inUse map[string]struct{}, occupants int) string {
	for _, color := range cursorPalette {
		if _, taken := inUse[color]; !taken {
			return color
		}
	}
	return cursorPalette[occupants%len(cursorPalette)]
}
