package torrent

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/anacrolix/torrent/metainfo"
)

func sampleTorrent() []byte {
	pieces := strings.Repeat("\x11\x22\x33\x44\x55", 8)
	return []byte("d" +
		bstr("announce") + bstr("http://tracker.example.com/announce") +
		bstr("info") + "d" +
		bstr("length") + "i1048576e" +
		bstr("name") + bstr("album.zip") +
		bstr("piece length") + "i524288e" +
		bstr("pieces") + bstr(pieces) +
		"e" +
		"e")
}

func TestInfoHash(t *testing.T) {
	t.Parallel()

	raw := sampleTorrent()
	got, err := InfoHash(raw)
	if err != nil {
		t.Fatalf("InfoHash() error = %v", err)
	}

	start := bytes.Index(raw, []byte("4:infod")) + len("4:info")
	sum := sha1.Sum(raw[start : len(raw)-1])
	if want := strings.ToUpper(hex.EncodeToString(sum[:])); got != want {
		t.Fatalf("InfoHash() = %s, want %s", got, want)
	}

	mi, err := metainfo.Load(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("metainfo.Load() error = %v", err)
	}
	if want := strings.ToUpper(mi.HashInfoBytes().HexString()); got != want {
		t.Fatalf("InfoHash() = %s, anacrolix = %s", got, want)
	}
}

func TestInfoHashV2(t *testing.T) {
	t.Parallel()

	raw := sampleTorrent()
	got, err := InfoHashV2(raw)
	if err != nil {
		t.Fatalf("InfoHashV2() error = %v", err)
	}
	info, err := InfoBytes(raw)
	if err != nil {
		t.Fatalf("InfoBytes() error = %v", err)
	}
	sum := sha256.Sum256(info)
	if want := "1220" + hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("InfoHashV2() = %s, want %s", got, want)
	}
}

func TestInfoBytesErrors(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"le", "de", "d4:infoi1ee"} {
		if _, err := InfoBytes([]byte(raw)); !IsKind(err, KindTypeMismatch) {
			t.Fatalf("InfoBytes(%q) error = %v, want TypeMismatch", raw, err)
		}
	}
}

func TestCalculateHash(t *testing.T) {
	t.Parallel()

	const hexHash = "c12fe1c06bba254a9dc9f519b335aa7c1367a88a"
	const base32Hash = "YEX6DQDLXISUVHOJ6UM3GNNKPQJWPKEK"

	tests := []struct {
		name string
		link string
	}{
		{"hex magnet", "magnet:?xt=urn:btih:" + hexHash + "&dn=album"},
		{"uppercase hex magnet", "magnet:?xt=urn:btih:" + strings.ToUpper(hexHash)},
		{"base32 magnet", "magnet:?xt=urn:btih:" + base32Hash},
	}
	for _, tt := range tests {
		got, err := CalculateHash(tt.link, nil)
		if err != nil {
			t.Fatalf("%s: CalculateHash() error = %v", tt.name, err)
		}
		if got != strings.ToUpper(hexHash) {
			t.Fatalf("%s: CalculateHash() = %s, want %s", tt.name, got, strings.ToUpper(hexHash))
		}
	}

	raw := sampleTorrent()
	fromData, err := CalculateHash("http://example.com/file.torrent", raw)
	if err != nil {
		t.Fatalf("CalculateHash(data) error = %v", err)
	}
	want, _ := InfoHash(raw)
	if fromData != want {
		t.Fatalf("CalculateHash(data) = %s, want %s", fromData, want)
	}

	if _, err := CalculateHash("http://example.com/file.torrent", nil); err == nil {
		t.Fatal("CalculateHash() without link or data expected error")
	}
	if _, err := CalculateHash("magnet:?dn=nohash", nil); err == nil {
		t.Fatal("CalculateHash() of magnet without xt expected error")
	}
}
