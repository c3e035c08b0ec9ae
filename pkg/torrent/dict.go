package torrent

import (
	"bytes"
	"encoding/json"
	"fmt"

	"torrentcodec/pkg/bencode"
)

// Dict is a text-keyed dictionary that keeps the order its keys were added in.
//
// Values are string, bencode.Integer, List or *Dict.
type Dict struct {
	keys []string
	vals map[string]any
}

// List is an ordered sequence of torrent values.
type List []any

func NewDict() *Dict {
	return &Dict{vals: make(map[string]any)}
}

// Set stores v under key, keeping the position of an existing key.
func (d *Dict) Set(key string, v any) {
	if d.vals == nil {
		d.vals = make(map[string]any)
	}
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
}

func (d *Dict) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.vals[key]
	return v, ok
}

// GetString returns the value under key when it is a string.
func (d *Dict) GetString(key string) (string, bool) {
	v, ok := d.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetDict returns the value under key when it is a *Dict.
func (d *Dict) GetDict(key string) (*Dict, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Dict)
	return sub, ok
}

func (d *Dict) Delete(key string) {
	if d == nil {
		return
	}
	if _, ok := d.vals[key]; !ok {
		return
	}
	delete(d.vals, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Range calls fn for each entry in order until fn returns false.
func (d *Dict) Range(fn func(key string, v any) bool) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		if !fn(k, d.vals[k]) {
			return
		}
	}
}

// MarshalJSON writes the dictionary as a JSON object in key order. Integers
// are written as JSON numbers of any size.
func (d *Dict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *Dict:
		buf.WriteByte('{')
		for i, k := range t.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, t.vals[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case List:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case bencode.Integer:
		buf.WriteString(t.String())
	case string:
		s, err := json.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(s)
	default:
		return fmt.Errorf("torrent: cannot write %T as JSON", v)
	}
	return nil
}

// Equal reports whether two torrent value trees are identical, including key order.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bencode.Integer:
		y, ok := b.(bencode.Integer)
		return ok && x.Cmp(y) == 0
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		if x.Len() != y.Len() {
			return false
		}
		for i, k := range x.keys {
			if y.keys[i] != k || !Equal(x.vals[k], y.vals[k]) {
				return false
			}
		}
		return true
	}
	return false
}
