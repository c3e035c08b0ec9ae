package bencode

// Map is a dictionary keyed by raw byte strings. Iteration follows insertion
// order, which for decoded maps is the order the keys appeared on the wire.
type Map struct {
	keys []string
	vals map[string]Value
}

func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Set stores v under key. Setting an existing key replaces its value and keeps
// the key at its original position.
func (m *Map) Set(key []byte, v Value) {
	m.SetString(string(key), v)
}

func (m *Map) SetString(key string, v Value) {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

func (m *Map) Get(key []byte) (Value, bool) {
	return m.GetString(string(key))
}

func (m *Map) GetString(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

func (m *Map) Delete(key []byte) {
	if m == nil {
		return
	}
	k := string(key)
	if _, ok := m.vals[k]; !ok {
		return
	}
	delete(m.vals, k)
	for i, existing := range m.keys {
		if existing == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in iteration order.
func (m *Map) Keys() [][]byte {
	if m == nil {
		return nil
	}
	out := make([][]byte, len(m.keys))
	for i, k := range m.keys {
		out[i] = []byte(k)
	}
	return out
}

// Range calls fn for each entry in order until fn returns false.
func (m *Map) Range(fn func(key []byte, v Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn([]byte(k), m.vals[k]) {
			return
		}
	}
}
