package bencode

import (
	"bytes"
	"fmt"
	"math/big"
)

// Value is one of Bytes, Integer, List or *Map.
type Value interface {
	isValue()
}

// Bytes is a length-prefixed byte string.
type Bytes []byte

// Integer is an arbitrary precision signed integer.
// The zero value is 0.
type Integer struct {
	n *big.Int
}

// List is an ordered sequence of values.
type List []Value

func (Bytes) isValue()   {}
func (Integer) isValue() {}
func (List) isValue()    {}
func (*Map) isValue()    {}

func (b Bytes) String() string {
	return string(b)
}

func NewInteger(n int64) Integer {
	return Integer{n: big.NewInt(n)}
}

// NewBigInteger copies n, so later changes to n do not leak into the value.
func NewBigInteger(n *big.Int) Integer {
	if n == nil {
		return Integer{}
	}
	return Integer{n: new(big.Int).Set(n)}
}

// ParseInteger parses a base 10 integer with an optional leading '-'.
func ParseInteger(s string) (Integer, error) {
	if !validIntegerBody([]byte(s)) {
		return Integer{}, fmt.Errorf("invalid integer %q", s)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Integer{}, fmt.Errorf("invalid integer %q", s)
	}
	return Integer{n: n}, nil
}

// Big returns a copy of the integer.
func (i Integer) Big() *big.Int {
	if i.n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.n)
}

func (i Integer) IsInt64() bool {
	return i.n == nil || i.n.IsInt64()
}

// Int64 returns the low 64 bits when the integer does not fit; check IsInt64 first.
func (i Integer) Int64() int64 {
	if i.n == nil {
		return 0
	}
	return i.n.Int64()
}

func (i Integer) Cmp(o Integer) int {
	return i.Big().Cmp(o.Big())
}

func (i Integer) String() string {
	if i.n == nil {
		return "0"
	}
	return i.n.String()
}

// Equal reports whether a and b have the same shape and contents.
// Map comparison is order sensitive.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Bytes:
		y, ok := b.(Bytes)
		return ok && bytes.Equal(x, y)
	case Integer:
		y, ok := b.(Integer)
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
	case *Map:
		y, ok := b.(*Map)
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

func validIntegerBody(b []byte) bool {
	if len(b) > 0 && b[0] == '-' {
		b = b[1:]
	}
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
