package ui

import "strings"

// glyphHeight is the row count of every digit glyph.
const glyphHeight = 5

var digits = map[rune][glyphHeight]string{
	'0': {"█████", "█   █", "█   █", "█   █", "█████"},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", " ███ "},
	'2': {"█████", "    █", "█████", "█    ", "█████"},
	'3': {"█████", "    █", " ████", "    █", "█████"},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "█████", "    █", "█████"},
	'6': {"█████", "█    ", "█████", "█   █", "█████"},
	'7': {"█████", "    █", "   █ ", "  █  ", "  █  "},
	'8': {"█████", "█   █", "█████", "█   █", "█████"},
	'9': {"█████", "█   █", "█████", "    █", "█████"},
	':': {"   ", " █ ", "   ", " █ ", "   "},
}

// bigTime renders an M:SS clock in block digits. Runes without a glyph are
// skipped.
func bigTime(clock string) string {
	var rows [glyphHeight]strings.Builder
	first := true
	for _, ch := range clock {
		glyph, ok := digits[ch]
		if !ok {
			continue
		}
		for row := range glyphHeight {
			if !first {
				rows[row].WriteByte(' ')
			}
			rows[row].WriteString(glyph[row])
		}
		first = false
	}
	lines := make([]string, glyphHeight)
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}
