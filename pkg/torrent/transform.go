package torrent

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"torrentcodec/pkg/bencode"
)

// utf8Suffix marks a key whose value is always UTF-8, whatever the torrent's
// own encoding (for example "name.utf-8" next to a cp1251 "name").
const utf8Suffix = ".utf-8"

// binaryFields hold raw digests. Their values are shown as lowercase hex.
var binaryFields = map[string]struct{}{
	"ed2k":     {},
	"filehash": {},
	"pieces":   {},
}

func isBinaryField(key string) bool {
	_, ok := binaryFields[key]
	return ok
}

// Option configures Decode and Encode.
type Option func(*config)

type config struct {
	encoding string
	policy   ErrorPolicy
	maxDepth int
}

// WithEncoding sets the text encoding for keys and values that are neither
// ".utf-8" fields nor binary fields. Names such as "utf-8", "cp1251",
// "latin_1" and "shift_jis" are accepted.
func WithEncoding(name string) Option {
	return func(c *config) {
		c.encoding = name
	}
}

func WithErrors(p ErrorPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithMaxDepth bounds list/dict nesting; see bencode.WithMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n <= 0 {
			n = bencode.DefaultMaxDepth
		}
		c.maxDepth = n
	}
}

func buildConfig(opts []Option) config {
	c := config{encoding: DefaultEncoding, policy: Strict, maxDepth: bencode.DefaultMaxDepth}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Decode decodes a torrent file into a text dictionary. The root of raw must
// be a bencoded dictionary.
func Decode(raw []byte, opts ...Option) (*Dict, error) {
	v, err := DecodeValue(raw, opts...)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*Dict)
	if !ok {
		return nil, typeMismatch("", "expected a dictionary at the top level, got %s", describe(v))
	}
	return d, nil
}

// DecodeValue is Decode for any root value.
func DecodeValue(raw []byte, opts ...Option) (any, error) {
	c := buildConfig(opts)
	cs, err := lookupCharset(c.encoding)
	if err != nil {
		return nil, err
	}
	v, err := bencode.Decode(raw, bencode.WithMaxDepth(c.maxDepth))
	if err != nil {
		return nil, err
	}
	w := walker{policy: c.policy, maxDepth: c.maxDepth}
	return w.fromValue(v, cs, "", 0)
}

// FromValue converts an already decoded bencode tree.
func FromValue(v bencode.Value, opts ...Option) (any, error) {
	c := buildConfig(opts)
	cs, err := lookupCharset(c.encoding)
	if err != nil {
		return nil, err
	}
	w := walker{policy: c.policy, maxDepth: c.maxDepth}
	return w.fromValue(v, cs, "", 0)
}

// Encode is the inverse of Decode. data must be a *Dict.
func Encode(data any, opts ...Option) ([]byte, error) {
	d, ok := data.(*Dict)
	if !ok || d == nil {
		return nil, typeMismatch("", "expected a *Dict at the top level, got %T", data)
	}
	v, err := ToValue(d, opts...)
	if err != nil {
		return nil, err
	}
	c := buildConfig(opts)
	return bencode.Encode(v, bencode.WithMaxDepth(c.maxDepth))
}

// ToValue converts a text dictionary back into a bencode tree.
func ToValue(d *Dict, opts ...Option) (bencode.Value, error) {
	c := buildConfig(opts)
	cs, err := lookupCharset(c.encoding)
	if err != nil {
		return nil, err
	}
	w := walker{policy: c.policy, maxDepth: c.maxDepth}
	return w.toValue(d, cs, "", 0)
}

type walker struct {
	policy   ErrorPolicy
	maxDepth int
}

func (w walker) fromValue(v bencode.Value, cs *charset, path string, depth int) (any, error) {
	switch t := v.(type) {
	case bencode.Bytes:
		return cs.decode(t, w.policy, path)
	case bencode.Integer:
		return t, nil
	case bencode.List:
		if depth >= w.maxDepth {
			return nil, w.tooDeep(path)
		}
		out := make(List, 0, len(t))
		for i, item := range t {
			dv, err := w.fromValue(item, cs, indexPath(path, i), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, dv)
		}
		return out, nil
	case *bencode.Map:
		if depth >= w.maxDepth {
			return nil, w.tooDeep(path)
		}
		out := NewDict()
		var err error
		t.Range(func(rawKey []byte, item bencode.Value) bool {
			var key string
			key, err = cs.decode(rawKey, w.policy, keyPath(path, string(rawKey)))
			if err != nil {
				return false
			}
			sub := keyPath(path, key)

			var dv any
			switch b, isBytes := item.(bencode.Bytes); {
			case strings.HasSuffix(key, utf8Suffix):
				dv, err = w.fromValue(item, utf8Charset, sub, depth+1)
			case isBinaryField(key) && isBytes:
				dv = hex.EncodeToString(b)
			default:
				dv, err = w.fromValue(item, cs, sub, depth+1)
			}
			if err != nil {
				return false
			}
			out.Set(key, dv)
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, typeMismatch(path, "unexpected bencode value %T", v)
}

func (w walker) toValue(v any, cs *charset, path string, depth int) (bencode.Value, error) {
	switch t := v.(type) {
	case string:
		b, err := cs.encode(t, w.policy, path)
		if err != nil {
			return nil, err
		}
		return bencode.Bytes(b), nil
	case bencode.Integer:
		return t, nil
	case List:
		return w.listToValue(t, cs, path, depth)
	case []any:
		return w.listToValue(t, cs, path, depth)
	case *Dict:
		if depth >= w.maxDepth {
			return nil, w.tooDeep(path)
		}
		out := bencode.NewMap()
		var err error
		t.Range(func(key string, item any) bool {
			sub := keyPath(path, key)
			var rawKey []byte
			rawKey, err = cs.encode(key, w.policy, sub)
			if err != nil {
				return false
			}

			var bv bencode.Value
			switch s, isString := item.(string); {
			case strings.HasSuffix(key, utf8Suffix):
				bv, err = w.toValue(item, utf8Charset, sub, depth+1)
			case isBinaryField(key) && isString:
				var raw []byte
				raw, err = hex.DecodeString(s)
				if err != nil {
					err = &Error{Kind: KindEncode, Path: sub, Offset: -1, Encoding: "hex", Message: "invalid hex in binary field", Cause: err}
					return false
				}
				bv = bencode.Bytes(raw)
			default:
				bv, err = w.toValue(item, cs, sub, depth+1)
			}
			if err != nil {
				return false
			}
			out.Set(rawKey, bv)
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	// Native integers and raw []byte are accepted as a convenience.
	bv, err := bencode.FromGo(v)
	if err != nil {
		return nil, fmt.Errorf("torrent: at %s: %w", displayPath(path), err)
	}
	if _, nested := bv.(bencode.List); nested {
		return nil, typeMismatch(path, "unexpected value %T", v)
	}
	if _, nested := bv.(*bencode.Map); nested {
		return nil, typeMismatch(path, "unexpected value %T", v)
	}
	return bv, nil
}

func (w walker) listToValue(items []any, cs *charset, path string, depth int) (bencode.Value, error) {
	if depth >= w.maxDepth {
		return nil, w.tooDeep(path)
	}
	out := make(bencode.List, 0, len(items))
	for i, item := range items {
		bv, err := w.toValue(item, cs, indexPath(path, i), depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, bv)
	}
	return out, nil
}

func (w walker) tooDeep(path string) error {
	return &bencode.Error{
		Kind:    bencode.KindNestingTooDeep,
		Offset:  -1,
		Message: fmt.Sprintf("nesting exceeds %d levels at %s", w.maxDepth, displayPath(path)),
	}
}

func keyPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

func displayPath(path string) string {
	if path == "" {
		return "top level"
	}
	return path
}

func describe(v any) string {
	switch v.(type) {
	case string:
		return "a string"
	case bencode.Integer:
		return "an integer"
	case List:
		return "a list"
	}
	return fmt.Sprintf("%T", v)
}
