package bencode

import (
	"bytes"
	"math/big"
	"testing"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	spam := NewMap()
	spam.SetString("spam", List{Bytes("a"), Bytes("b")})

	unsorted := NewMap()
	unsorted.SetString("z", NewInteger(1))
	unsorted.SetString("a", Bytes(""))

	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"empty bytes", Bytes{}, "0:"},
		{"bytes", Bytes("spam"), "4:spam"},
		{"binary bytes", Bytes{0x00, 0xff}, "2:\x00\xff"},
		{"zero", NewInteger(0), "i0e"},
		{"zero value integer", Integer{}, "i0e"},
		{"negative", NewInteger(-17), "i-17e"},
		{"empty list", List{}, "le"},
		{"empty map", NewMap(), "de"},
		{"nested", spam, "d4:spaml1:a1:bee"},
		{"insertion order kept", unsorted, "d1:zi1e1:a0:e"},
	}
	for _, tt := range tests {
		got, err := Encode(tt.in)
		if err != nil {
			t.Fatalf("%s: Encode() error = %v", tt.name, err)
		}
		if string(got) != tt.want {
			t.Fatalf("%s: Encode() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestEncodeUnsupported(t *testing.T) {
	t.Parallel()

	if _, err := Encode(nil); !IsKind(err, KindUnsupportedType) {
		t.Fatalf("Encode(nil) error = %v, want UnsupportedType", err)
	}
	if _, err := Encode(List{Bytes("ok"), nil}); !IsKind(err, KindUnsupportedType) {
		t.Fatalf("Encode(list with nil) error = %v, want UnsupportedType", err)
	}
}

func TestEncoderWritesNothingOnError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := NewEncoder(&buf).Encode(List{Bytes("abc"), nil})
	if err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Fatalf("Encoder wrote %q before failing", buf.Bytes())
	}
}

func TestEncodeSelfReferenceIsBounded(t *testing.T) {
	t.Parallel()

	loop := make(List, 1)
	loop[0] = loop
	if _, err := Encode(loop, WithMaxDepth(32)); !IsKind(err, KindNestingTooDeep) {
		t.Fatalf("Encode() error = %v, want NestingTooDeep", err)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	huge, _ := new(big.Int).SetString("98765432109876543210987654321", 10)

	inner := NewMap()
	inner.SetString("length", NewInteger(123456789012345))
	inner.SetString("empty", Bytes{})
	inner.SetString("pieces", Bytes{0x00, 0x01, 0xfe, 0xff})

	root := NewMap()
	root.SetString("zeta", List{})
	root.SetString("alpha", List{NewInteger(0), NewInteger(-1), NewBigInteger(huge), NewMap()})
	root.SetString("info", inner)
	root.SetString("nested", List{List{List{Bytes("deep")}}})

	values := []Value{
		Bytes{},
		Bytes("hello"),
		NewInteger(0),
		NewInteger(42),
		NewInteger(-17),
		NewBigInteger(huge),
		List{},
		NewMap(),
		root,
	}
	for _, v := range values {
		enc, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode(%#v) error = %v", v, err)
		}
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", enc, err)
		}
		if !Equal(dec, v) {
			t.Fatalf("round trip of %q changed the value", enc)
		}
	}
}

func TestCanonicalIntegers(t *testing.T) {
	t.Parallel()

	for _, n := range []int64{0, 42, -17, 123456789012345, -9223372036854775808, 9223372036854775807} {
		enc, err := Encode(NewInteger(n))
		if err != nil {
			t.Fatalf("Encode(%d) error = %v", n, err)
		}
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", enc, err)
		}
		if got := dec.(Integer).Int64(); got != n {
			t.Fatalf("round trip of %d = %d", n, got)
		}
	}
}

func TestNonCanonicalInputIsNormalized(t *testing.T) {
	t.Parallel()

	v := mustDecode(t, "li007ei-0e03:abce")
	enc, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(enc) != "li7ei0e3:abce" {
		t.Fatalf("Encode() = %q, want %q", enc, "li7ei0e3:abce")
	}
}

func TestFromGo(t *testing.T) {
	t.Parallel()

	v, err := FromGo(map[string]any{
		"name":   "file.txt",
		"length": int64(10),
		"pieces": []byte{0xde, 0xad},
		"path":   []any{"a", "b"},
		"size":   uint64(1 << 63),
	})
	if err != nil {
		t.Fatalf("FromGo() error = %v", err)
	}
	enc, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := "d6:lengthi10e4:name8:file.txt4:pathl1:a1:be6:pieces2:\xde\xad4:sizei9223372036854775808ee"
	if string(enc) != want {
		t.Fatalf("Encode(FromGo()) = %q, want %q", enc, want)
	}

	for _, bad := range []any{nil, true, 1.5, []any{struct{}{}}, map[string]any{"k": false}} {
		if _, err := FromGo(bad); !IsKind(err, KindUnsupportedType) {
			t.Fatalf("FromGo(%#v) error = %v, want UnsupportedType", bad, err)
		}
	}
}
