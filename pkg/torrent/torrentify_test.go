package torrent

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/anacrolix/torrent/metainfo"

	"torrentcodec/pkg/bencode"
)

func writeTestFile(t *testing.T, size int) string {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "test_file.bin")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreate(t *testing.T) {
	t.Parallel()

	const pieceLength = 16 * 1024
	path := writeTestFile(t, 3*pieceLength+100)

	raw, err := Create(path, "http://tracker.example.com/announce", pieceLength)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	d, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got, _ := d.GetString("announce"); got != "http://tracker.example.com/announce" {
		t.Fatalf("announce = %q", got)
	}
	info, ok := d.GetDict("info")
	if !ok {
		t.Fatal("missing info")
	}
	if name, _ := info.GetString("name"); name != "test_file.bin" {
		t.Fatalf("name = %q", name)
	}
	length, _ := info.Get("length")
	if !Equal(length, bencode.NewInteger(3*pieceLength+100)) {
		t.Fatalf("length = %v", length)
	}

	hexPieces, _ := info.GetString("pieces")
	pieces, err := hex.DecodeString(hexPieces)
	if err != nil {
		t.Fatalf("pieces is not hex: %v", err)
	}
	if len(pieces) != 4*sha1.Size {
		t.Fatalf("len(pieces) = %d, want %d", len(pieces), 4*sha1.Size)
	}
	data, _ := os.ReadFile(path)
	last := sha1.Sum(data[3*pieceLength:])
	if !bytes.Equal(pieces[3*sha1.Size:], last[:]) {
		t.Fatal("last piece hash does not cover the short tail")
	}

	// Another implementation must agree on the layout.
	mi, err := metainfo.Load(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("metainfo.Load() error = %v", err)
	}
	mInfo, err := mi.UnmarshalInfo()
	if err != nil {
		t.Fatalf("UnmarshalInfo() error = %v", err)
	}
	if mInfo.Name != "test_file.bin" || mInfo.PieceLength != pieceLength || mInfo.NumPieces() != 4 {
		t.Fatalf("anacrolix info = %+v", mInfo)
	}
	if !bytes.Equal(mInfo.Pieces, pieces) {
		t.Fatal("anacrolix pieces differ")
	}
}

func TestCreateEmptyFile(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, 0)
	raw, err := Create(path, "udp://tracker", 0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	d, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	info, _ := d.GetDict("info")
	if pieces, _ := info.GetString("pieces"); pieces != "" {
		t.Fatalf("pieces = %q, want empty", pieces)
	}
	pl, _ := info.Get("piece length")
	if !Equal(pl, bencode.NewInteger(PIECE_SIZE)) {
		t.Fatalf("piece length = %v, want %d", pl, PIECE_SIZE)
	}
}

func TestCreateMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Create(filepath.Join(t.TempDir(), "missing"), "udp://tracker", 0); err == nil {
		t.Fatal("expected error")
	}
}
