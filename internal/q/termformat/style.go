// Package termformat styles and measures text for ANSI terminals.
package termformat

import (
	"strconv"
	"strings"
)

// ANSIReset returns the terminal to its default style.
const ANSIReset = "\x1b[0m"

// Color is a basic ANSI foreground color, encoded as its SGR parameter. ColorDefault leaves the color unchanged.
type Color int

const (
	ColorDefault Color = 0
	ColorRed     Color = 31
	ColorGreen   Color = 32
	ColorYellow  Color = 33
	ColorBlue    Color = 34
	ColorMagenta Color = 35
	ColorCyan    Color = 36
)

// Style is a set of SGR attributes.
type Style struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Foreground    Color
}

// IsZero reports whether s changes nothing.
func (s Style) IsZero() bool {
	return s == Style{}
}

// ANSISequence returns the single SGR sequence selecting s, or "" if s is zero.
func (s Style) ANSISequence() string {
	var params []string
	if s.Bold {
		params = append(params, "1")
	}
	if s.Italic {
		params = append(params, "3")
	}
	if s.Underline {
		params = append(params, "4")
	}
	if s.Strikethrough {
		params = append(params, "9")
	}
	if s.Foreground != ColorDefault {
		params = append(params, strconv.Itoa(int(s.Foreground)))
	}
	if len(params) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}

// Apply returns str styled with s and followed by ANSIReset. A zero s returns str unchanged.
func (s Style) Apply(str string) string {
	seq := s.ANSISequence()
	if seq == "" || str == "" {
		return str
	}
	return seq + str + ANSIReset
}
