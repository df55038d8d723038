package termformat

import (
	"fmt"
	"strings"
)

// Sanitize makes user text s safe to print:
//   - If tabWidth > 0, each \t becomes tabWidth spaces. Otherwise, \t is left as-is.
//   - \r and \n are left as-is.
//   - Other ASCII control characters (<= 0x1F, and 0x7F) become "\xXX" (ex: ESC becomes the four characters \x1B).
//   - Invalid UTF-8 becomes U+FFFD.
func Sanitize(s string, tabWidth int) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t' && tabWidth > 0:
			b.WriteString(strings.Repeat(" ", tabWidth))
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7F:
			fmt.Fprintf(&b, `\x%02X`, r)
		default:
			// Ranging over invalid UTF-8 already yields U+FFFD.
			b.WriteRune(r)
		}
	}
	return b.String()
}
