package bencode

import (
	"bytes"
	"math/big"
	"strconv"
)

const (
	endMarker = 'e'
	colon     = ':'
	startDict = 'd'
	startInt  = 'i'
	startList = 'l'
)

// DefaultMaxDepth bounds list/dict nesting when no WithMaxDepth option is given.
const DefaultMaxDepth = 256

// Option configures a Decoder or Encoder.
type Option func(*options)

type options struct {
	maxDepth int
}

// WithMaxDepth sets the maximum list/dict nesting. Values <= 0 select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		o.maxDepth = n
	}
}

func buildOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Decoder reads bencoded values from a byte slice. It only ever moves an
// offset forward; the slice itself is never written.
type Decoder struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int
}

func NewDecoder(data []byte, opts ...Option) *Decoder {
	o := buildOptions(opts)
	return &Decoder{data: data, maxDepth: o.maxDepth}
}

// Decode decodes the first value in data. Bytes following that value are ignored.
func Decode(data []byte, opts ...Option) (Value, error) {
	return NewDecoder(data, opts...).Decode()
}

// Pos is the offset of the first byte not yet consumed.
func (d *Decoder) Pos() int {
	return d.pos
}

// Remaining is the number of bytes after Pos.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// Decode decodes the next value and advances past it.
func (d *Decoder) Decode() (Value, error) {
	if d.pos >= len(d.data) {
		if d.pos == 0 {
			return nil, malformed(0, "cannot decode empty input")
		}
		return nil, malformed(d.pos, "unexpected end of input")
	}
	return d.decodeValue()
}

func (d *Decoder) decodeValue() (Value, error) {
	switch b := d.data[d.pos]; {
	case b == startDict:
		return d.decodeDict()
	case b == startList:
		return d.decodeList()
	case b == startInt:
		return d.decodeInt()
	case isDigit(b):
		return d.decodeBytes()
	default:
		return nil, malformed(d.pos, "expected 'd', 'i', 'l' or a digit, got %q", b)
	}
}

func (d *Decoder) decodeBytes() (Bytes, error) {
	start := d.pos
	end := start
	for end < len(d.data) && isDigit(d.data[end]) {
		end++
	}
	if end >= len(d.data) {
		return nil, malformed(start, "byte string length has no ':' delimiter")
	}
	if d.data[end] != colon {
		return nil, malformed(end, "invalid byte %q in byte string length", d.data[end])
	}

	available := len(d.data) - (end + 1)
	length, err := strconv.Atoi(string(d.data[start:end]))
	if err != nil || length > available {
		return nil, malformed(start, "byte string length %s exceeds remaining %d bytes", d.data[start:end], available)
	}

	body := end + 1
	out := make(Bytes, length)
	copy(out, d.data[body:body+length])
	d.pos = body + length
	return out, nil
}

func (d *Decoder) decodeInt() (Integer, error) {
	start := d.pos
	body := d.data[start+1:]
	end := bytes.IndexByte(body, endMarker)
	if end < 0 {
		return Integer{}, malformed(start, "unterminated integer")
	}
	digits := body[:end]
	if len(digits) == 0 {
		return Integer{}, malformed(start, "empty integer")
	}
	if !validIntegerBody(digits) {
		return Integer{}, malformed(start, "invalid integer %q", digits)
	}
	n, ok := new(big.Int).SetString(string(digits), 10)
	if !ok {
		return Integer{}, malformed(start, "invalid integer %q", digits)
	}
	d.pos = start + 1 + end + 1
	return Integer{n: n}, nil
}

func (d *Decoder) decodeList() (List, error) {
	start := d.pos
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	list := List{}
	for {
		if d.pos >= len(d.data) {
			return nil, malformed(start, "unterminated list")
		}
		if d.data[d.pos] == endMarker {
			d.pos++
			return list, nil
		}
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
}

// decodeDict reads key/value pairs until 'e'. A later duplicate key replaces
// the earlier value.
func (d *Decoder) decodeDict() (*Map, error) {
	start := d.pos
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	m := NewMap()
	for {
		if d.pos >= len(d.data) {
			return nil, malformed(start, "unterminated dictionary")
		}
		if d.data[d.pos] == endMarker {
			d.pos++
			return m, nil
		}
		if !isDigit(d.data[d.pos]) {
			return nil, malformed(d.pos, "dictionary key must be a byte string, got %q", d.data[d.pos])
		}
		key, err := d.decodeBytes()
		if err != nil {
			return nil, err
		}

		if d.pos >= len(d.data) {
			return nil, malformed(start, "unterminated dictionary")
		}
		if d.data[d.pos] == endMarker {
			return nil, malformed(d.pos, "dictionary key %q has no value", key)
		}
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
}

func (d *Decoder) enter() error {
	if d.depth >= d.maxDepth {
		return tooDeep(d.pos, d.maxDepth)
	}
	d.depth++
	d.pos++
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
