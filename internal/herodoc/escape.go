package herodoc

import (
	"bytes"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// literalUnicode rewrites \uXXXX escapes of non-ASCII characters inside
// JSON strings as literal UTF-8. ASCII escapes, control characters and
// lone surrogates stay escaped.
func literalUnicode(src []byte) []byte {
	if !bytes.Contains(src, []byte(`\u`)) {
		return src
	}
	out := make([]byte, 0, len(src))
	inString := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			out = append(out, c)
			continue
		}
		switch c {
		case '"':
			inString = false
			out = append(out, c)
		case '\\':
			if r, n := decodeEscape(src[i:]); n > 0 {
				out = utf8.AppendRune(out, r)
				i += n - 1
				continue
			}
			out = append(out, c)
			if i+1 < len(src) {
				i++
				out = append(out, src[i])
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// decodeEscape decodes a non-ASCII \u escape or surrogate pair at the
// start of b. n is 0 when the escape has to stay.
func decodeEscape(b []byte) (r rune, n int) {
	r, ok := hexEscape(b)
	if !ok || r < utf8.RuneSelf {
		return 0, 0
	}
	if !utf16.IsSurrogate(r) {
		return r, 6
	}
	low, ok := hexEscape(b[6:])
	if !ok {
		return 0, 0
	}
	r = utf16.DecodeRune(r, low)
	if r == utf8.RuneError {
		return 0, 0
	}
	return r, 12
}

func hexEscape(b []byte) (rune, bool) {
	if len(b) < 6 || b[0] != '\\' || b[1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b[2:6]), 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
