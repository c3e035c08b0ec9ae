// Package display converts raw bencoded bytes to a log-safe string and back.
//
// Printable ASCII passes through unchanged, except for '"', '[', '\' and ']'.
// Every other byte is written as a four character token "[xx]" holding the
// byte in lowercase hex.
package display

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

func isPlain(b byte) bool {
	if b < 32 || b > 126 {
		return false
	}
	switch b {
	case '"', '[', '\\', ']':
		return false
	}
	return true
}

// BytesToDisplay renders data with every unsafe byte escaped as [xx].
func BytesToDisplay(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		if isPlain(b) {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('[')
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0f])
		sb.WriteByte(']')
	}
	return sb.String()
}

// DisplayToBytes reverses BytesToDisplay. Characters outside a token map to
// their Latin-1 byte value; a token must hold exactly two hex digits and a
// bare ']' is rejected.
func DisplayToBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] == ']' {
			return nil, fmt.Errorf("display: unmatched ']' at offset %d", i)
		}
		if s[i] != '[' {
			r, size := decodeRune(s[i:])
			if r > 0xff {
				return nil, fmt.Errorf("display: character %q at offset %d is not a single byte", r, i)
			}
			out = append(out, byte(r))
			i += size
			continue
		}

		end := strings.IndexByte(s[i:], ']')
		if end < 0 {
			return nil, fmt.Errorf("display: unterminated escape at offset %d", i)
		}
		token := s[i+1 : i+end]
		if len(token) != 2 {
			return nil, fmt.Errorf("display: escape %q at offset %d must hold two hex digits", token, i)
		}
		b, err := hex.DecodeString(token)
		if err != nil {
			return nil, fmt.Errorf("display: escape %q at offset %d: %w", token, i, err)
		}
		out = append(out, b[0])
		i += end + 1
	}
	return out, nil
}

// decodeRune reads one UTF-8 rune; invalid UTF-8 is taken as a raw byte.
func decodeRune(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return rune(s[0]), 1
	}
	return r, size
}
