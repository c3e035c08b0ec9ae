package main

import (
	"os"
	"path/filepath"
	"testing"

	"torrentcodec/pkg/metainfo"
	"torrentcodec/pkg/torrent"
)

func TestCreateAndReencode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "song.flac")
	if err := os.WriteFile(src, make([]byte, 5000), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out", "song")
	if err := createCmd(src, "http://tracker.example.com/announce", out, 1024); err != nil {
		t.Fatalf("createCmd() error = %v", err)
	}
	created := out + ".torrent"
	mi, err := metainfo.Load(created)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if mi.Info.Name != "song.flac" || len(mi.PieceHashes()) != 5 {
		t.Fatalf("MetaInfo = %+v", mi)
	}

	copied := filepath.Join(dir, "copy.torrent")
	opts := []torrent.Option{torrent.WithEncoding("latin-1")}
	if err := reencodeCmd(created, copied, opts, opts); err != nil {
		t.Fatalf("reencodeCmd() error = %v", err)
	}
	a, _ := os.ReadFile(created)
	b, _ := os.ReadFile(copied)
	if string(a) != string(b) {
		t.Fatalf("reencode changed a canonical torrent:\n%q\n%q", a, b)
	}
}

func TestCreateRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := createCmd(dir, "udp://tracker", filepath.Join(dir, "x"), 0); err == nil {
		t.Fatal("createCmd() of a directory expected error")
	}
}

func TestHashCmdErrors(t *testing.T) {
	if err := hashCmd("magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a", true); err == nil {
		t.Fatal("hashCmd() -v2 with magnet expected error")
	}
	if err := hashCmd(filepath.Join(t.TempDir(), "missing.torrent"), false); err == nil {
		t.Fatal("hashCmd() of missing file expected error")
	}
}
