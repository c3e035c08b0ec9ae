package bencode

import (
	"math/big"
	"sort"
)

// FromGo converts native Go data into a Value.
//
// Strings and byte slices become Bytes, every integer width becomes Integer,
// []any becomes List and map[string]any becomes a Map with sorted keys.
// Values that are already a Value are returned as is. Anything else,
// including bool and floats, is an UnsupportedType error.
func FromGo(data any) (Value, error) {
	return fromGo(data, 0, DefaultMaxDepth)
}

func fromGo(data any, depth, maxDepth int) (Value, error) {
	switch t := data.(type) {
	case Value:
		return t, nil
	case string:
		return Bytes(t), nil
	case []byte:
		return Bytes(append([]byte{}, t...)), nil
	case int:
		return NewInteger(int64(t)), nil
	case int8:
		return NewInteger(int64(t)), nil
	case int16:
		return NewInteger(int64(t)), nil
	case int32:
		return NewInteger(int64(t)), nil
	case int64:
		return NewInteger(t), nil
	case uint:
		return NewBigInteger(new(big.Int).SetUint64(uint64(t))), nil
	case uint8:
		return NewInteger(int64(t)), nil
	case uint16:
		return NewInteger(int64(t)), nil
	case uint32:
		return NewInteger(int64(t)), nil
	case uint64:
		return NewBigInteger(new(big.Int).SetUint64(t)), nil
	case *big.Int:
		if t == nil {
			return nil, unsupported("cannot convert a nil *big.Int")
		}
		return NewBigInteger(t), nil
	case []any:
		if depth >= maxDepth {
			return nil, tooDeep(-1, maxDepth)
		}
		list := make(List, 0, len(t))
		for _, item := range t {
			v, err := fromGo(item, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case map[string]any:
		if depth >= maxDepth {
			return nil, tooDeep(-1, maxDepth)
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		m := NewMap()
		for _, k := range keys {
			v, err := fromGo(t[k], depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			m.SetString(k, v)
		}
		return m, nil
	case nil:
		return nil, unsupported("cannot convert a nil value")
	default:
		return nil, unsupported("cannot convert values of type %T", data)
	}
}
