package dwr

import (
	"html"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// FormatText turns a raw quoted field value into display text.
//
// The surrounding quotes are dropped, <br> tags become newlines and the
// " \/ " separator becomes ", ". Escapes and HTML entities are decoded last
// because the replacements above match the source text, not the decoded one.
func FormatText(raw string) (string, bool) {
	if utf8.RuneCountInString(raw) < 2 {
		return "", false
	}
	_, first := utf8.DecodeRuneInString(raw)
	_, last := utf8.DecodeLastRuneInString(raw)
	s := raw[first : len(raw)-last]

	s = strings.ReplaceAll(s, "<br>", "\n")
	s = strings.ReplaceAll(s, ` \/ `, ", ")
	s = strings.TrimSpace(s)

	s, ok := unescape(s)
	if !ok {
		return "", false
	}
	return html.UnescapeString(s), true
}

// unescape decodes backslash escapes as written by the DWR serializer:
// the JSON set plus \xHH and octal. Any other escape rejects the value.
func unescape(s string) (string, bool) {
	if !strings.Contains(s, `\`) {
		return s, true
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", false
		}
		switch s[i+1] {
		case '"', '\'', '\\', '/':
			b.WriteByte(s[i+1])
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			r, n, ok := decodeUnicodeEscape(s[i:])
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i += n
			continue
		case 'x':
			if i+4 > len(s) {
				return "", false
			}
			v, err := strconv.ParseUint(s[i+2:i+4], 16, 8)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(v))
			i += 4
			continue
		case '0', '1', '2', '3', '4', '5', '6', '7':
			r, n := octalEscape(s[i+1:])
			b.WriteRune(r)
			i += 1 + n
			continue
		default:
			return "", false
		}
		i += 2
	}
	return b.String(), true
}

// octalEscape reads up to three octal digits, stopping before a value
// above 0377, and returns the rune and the number of digits consumed.
func octalEscape(s string) (rune, int) {
	var v rune
	n := 0
	for n < 3 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
		next := v*8 + rune(s[n]-'0')
		if next > 0377 {
			break
		}
		v = next
		n++
	}
	return v, n
}

// decodeUnicodeEscape reads \uXXXX (or a \uXXXX\uXXXX surrogate pair) at the
// start of s and returns the rune and the number of bytes consumed.
func decodeUnicodeEscape(s string) (rune, int, bool) {
	r, ok := hex4(s)
	if !ok {
		return 0, 0, false
	}
	if !utf16.IsSurrogate(r) {
		return r, 6, true
	}
	low, ok := hex4(s[6:])
	if !ok {
		return 0, 0, false
	}
	pair := utf16.DecodeRune(r, low)
	if pair == utf8.RuneError {
		return 0, 0, false
	}
	return pair, 12, true
}

func hex4(s string) (rune, bool) {
	if len(s) < 6 || s[0] != '\\' || s[1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(s[2:6], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
