package bencode

import (
	"bytes"
	"io"
	"strconv"
)

// Encoder writes bencoded values to an io.Writer.
//
// Maps are written in their iteration order. Callers that need canonical
// output (sorted keys) must build their maps in sorted order.
type Encoder struct {
	w        io.Writer
	maxDepth int
}

func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	o := buildOptions(opts)
	return &Encoder{w: w, maxDepth: o.maxDepth}
}

// Encode returns the bencoding of v.
func Encode(v Value, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes v. Nothing is written if v cannot be encoded.
func (e *Encoder) Encode(v Value) error {
	var buf []byte
	buf, err := e.appendValue(buf, v, 0)
	if err != nil {
		return err
	}
	_, err = e.w.Write(buf)
	return err
}

func (e *Encoder) appendValue(buf []byte, v Value, depth int) ([]byte, error) {
	switch x := v.(type) {
	case Bytes:
		return appendBytes(buf, x), nil
	case Integer:
		buf = append(buf, startInt)
		buf = append(buf, x.String()...)
		return append(buf, endMarker), nil
	case List:
		if depth >= e.maxDepth {
			return nil, tooDeep(-1, e.maxDepth)
		}
		buf = append(buf, startList)
		for _, item := range x {
			var err error
			if buf, err = e.appendValue(buf, item, depth+1); err != nil {
				return nil, err
			}
		}
		return append(buf, endMarker), nil
	case *Map:
		if depth >= e.maxDepth {
			return nil, tooDeep(-1, e.maxDepth)
		}
		buf = append(buf, startDict)
		if x != nil {
			for _, k := range x.keys {
				buf = appendBytes(buf, []byte(k))
				var err error
				if buf, err = e.appendValue(buf, x.vals[k], depth+1); err != nil {
					return nil, err
				}
			}
		}
		return append(buf, endMarker), nil
	case nil:
		return nil, unsupported("cannot encode a nil value")
	default:
		return nil, unsupported("cannot encode values of type %T", v)
	}
}

func appendBytes(buf, b []byte) []byte {
	buf = strconv.AppendInt(buf, int64(len(b)), 10)
	buf = append(buf, colon)
	return append(buf, b...)
}
