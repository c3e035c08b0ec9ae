package torrent

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"torrentcodec/pkg/display"
)

// ErrorPolicy selects what happens when text cannot be converted.
type ErrorPolicy int

const (
	// Strict fails the whole call with a DecodeError or EncodeError.
	Strict ErrorPolicy = iota
	// Replace substitutes U+FFFD when decoding and the charset's
	// replacement byte when encoding.
	Replace
)

func (p ErrorPolicy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Replace:
		return "replace"
	}
	return fmt.Sprintf("ErrorPolicy(%d)", int(p))
}

func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return Strict, nil
	case "replace":
		return Replace, nil
	}
	return Strict, fmt.Errorf("unknown error policy %q", s)
}

// DefaultEncoding is used when no WithEncoding option is given.
const DefaultEncoding = "utf-8"

// aliases covers common names neither index knows, and names WHATWG would
// map to a different charset ("ascii" is windows-1252 there).
var aliases = map[string]string{
	"646":     "us-ascii",
	"ascii":   "us-ascii",
	"latin-1": "iso-8859-1",
	"u8":      "utf-8",
	"utf":     "utf-8",
}

type charset struct {
	name string
	enc  encoding.Encoding
	utf8 bool
}

var utf8Charset = &charset{name: "utf-8", enc: unicode.UTF8, utf8: true}

// lookupCharset resolves an encoding name. IANA names win over WHATWG labels
// so that "iso-8859-1" means real Latin-1 rather than windows-1252.
func lookupCharset(name string) (*charset, error) {
	candidates := []string{strings.ToLower(strings.TrimSpace(name))}
	if candidates[0] == "" {
		candidates[0] = DefaultEncoding
	}
	if norm := strings.ReplaceAll(candidates[0], "_", "-"); norm != candidates[0] {
		candidates = append(candidates, norm)
	}
	for _, c := range candidates {
		if alias, ok := aliases[c]; ok {
			c = alias
		}
		if c == "utf-8" || c == "utf8" {
			return utf8Charset, nil
		}
		if e, err := ianaindex.IANA.Encoding(c); err == nil && e != nil {
			return &charset{name: c, enc: e}, nil
		}
		if e, err := htmlindex.Get(c); err == nil && e != nil {
			return &charset{name: c, enc: e}, nil
		}
	}
	return nil, &Error{Kind: KindUnknownEncoding, Offset: -1, Encoding: name, Message: fmt.Sprintf("unknown text encoding %q", name)}
}

func (c *charset) decode(b []byte, policy ErrorPolicy, path string) (string, error) {
	if c.utf8 {
		if utf8.Valid(b) {
			return string(b), nil
		}
		if policy == Strict {
			return "", c.decodeError(b, firstInvalidUTF8(b), path, nil)
		}
		out, _ := unicode.UTF8.NewDecoder().Bytes(b)
		return string(out), nil
	}

	out, n, err := transform.Bytes(c.enc.NewDecoder(), b)
	if err != nil {
		return "", c.decodeError(b, n, path, err)
	}
	if policy == Strict {
		// Charset decoders substitute silently; a lossless decode must encode back
		// to the same bytes.
		back, err := c.enc.NewEncoder().Bytes(out)
		if err != nil || !bytes.Equal(back, b) {
			return "", c.decodeError(b, c.firstUndecodable(b, out), path, nil)
		}
	}
	return string(out), nil
}

func (c *charset) encode(s string, policy ErrorPolicy, path string) ([]byte, error) {
	if c.utf8 {
		if utf8.ValidString(s) {
			return []byte(s), nil
		}
		if policy == Strict {
			return nil, c.encodeError(s, firstInvalidUTF8([]byte(s)), path, nil)
		}
		return []byte(strings.ToValidUTF8(s, "�")), nil
	}

	enc := c.enc.NewEncoder()
	if policy == Replace {
		enc = encoding.ReplaceUnsupported(enc)
	}
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, c.encodeError(s, c.firstUnencodable(s), path, err)
	}
	return out, nil
}

func (c *charset) firstUnencodable(s string) int {
	for i, r := range s {
		if _, err := c.enc.NewEncoder().String(string(r)); err != nil {
			return i
		}
	}
	return -1
}

func (c *charset) decodeError(b []byte, offset int, path string, cause error) error {
	return &Error{
		Kind:     KindDecode,
		Path:     path,
		Offset:   offset,
		Encoding: c.name,
		Message:  fmt.Sprintf("cannot decode %q as %s", display.BytesToDisplay(b), c.name),
		Cause:    cause,
	}
}

func (c *charset) encodeError(s string, offset int, path string, cause error) error {
	return &Error{
		Kind:     KindEncode,
		Path:     path,
		Offset:   offset,
		Encoding: c.name,
		Message:  fmt.Sprintf("cannot encode %q as %s", s, c.name),
		Cause:    cause,
	}
}

func firstInvalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// firstUndecodable returns the byte offset in b of the first rune of out that
// does not encode back to the bytes it came from.
func (c *charset) firstUndecodable(b, out []byte) int {
	pos := 0
	for _, r := range string(out) {
		rb, err := c.enc.NewEncoder().Bytes([]byte(string(r)))
		if err != nil || !bytes.HasPrefix(b[pos:], rb) {
			return pos
		}
		pos += len(rb)
	}
	if pos < len(b) {
		return pos
	}
	return -1
}
