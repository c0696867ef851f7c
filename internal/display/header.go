package display

import (
	"strings"
	"unicode/utf8"
)

// Level is a header depth: weekday, meal and restaurant.
type Level int

const (
	H1 Level = iota + 1
	H2
	H3
)

const fill = "~"

// Header renders title centered in a row of tildes, framed by hashes.
func Header(level Level, title string) string {
	inner := " " + title + " "
	switch level {
	case H1:
		return "# " + center(inner, 50) + " #"
	case H2:
		return " # " + center(inner, 48) + " # "
	default:
		return "  # " + center(inner, 46) + " #  "
	}
}

// center pads s with tildes to width runes; the extra tilde of an odd pad
// goes to the right. Longer strings are returned unchanged.
func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(fill, left) + s + strings.Repeat(fill, pad-left)
}
