package termformat

import "github.com/codalotl/richsync/internal/q/uni"

// TextWidthWithANSICodes returns how many terminal cells str occupies, ignoring ANSI escape sequences (ex: styling from Style.Apply). opts controls width
// measurement, as in uni.TextWidth.
func TextWidthWithANSICodes(str string, opts *uni.Options) int {
	width := 0
	for str != "" {
		i := indexEscape(str)
		width += uni.TextWidth(str[:i], opts)
		str = str[i:]
		if str == "" {
			break
		}
		n := ansiSequenceLength(str)
		if n == 0 {
			// Unterminated sequence: skip the ESC alone.
			n = 1
		}
		str = str[n:]
	}
	return width
}

func indexEscape(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			return i
		}
	}
	return len(s)
}

// ansiSequenceLength returns the byte length of the escape sequence at the start of s, or 0 if s does not start with a complete one.
func ansiSequenceLength(s string) int {
	if len(s) < 2 || s[0] != '\x1b' {
		return 0
	}
	switch s[1] {
	case '[': // CSI, ended by a byte in 0x40-0x7E
		for i := 2; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
	case ']': // OSC, ended by BEL or ST
		for i := 2; i < len(s); i++ {
			if s[i] == '\a' || (s[i] == '\\' && s[i-1] == '\x1b') {
				return i + 1
			}
		}
	case 'P', '^', '_': // ended by ST
		for i := 2; i < len(s); i++ {
			if s[i] == '\\' && s[i-1] == '\x1b' {
				return i + 1
			}
		}
	default:
		return 2
	}
	return 0
}
