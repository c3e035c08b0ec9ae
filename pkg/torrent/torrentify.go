package torrent

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"

	"torrentcodec/pkg/bencode"
)

const PIECE_SIZE = 512 * 1024 // 512 KB

// Create builds a single-file torrent for filePath announcing to trackerURL.
// pieceLength <= 0 selects PIECE_SIZE.
func Create(filePath string, trackerURL string, pieceLength int64, opts ...Option) ([]byte, error) {
	if pieceLength <= 0 {
		pieceLength = PIECE_SIZE
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, err
	}

	pieces, err := hashPieces(file, pieceLength)
	if err != nil {
		return nil, err
	}

	// Keys are added in sorted order so the output is canonical.
	info := NewDict()
	info.Set("length", bencode.NewInteger(fileInfo.Size()))
	info.Set("name", filepath.Base(filePath))
	info.Set("piece length", bencode.NewInteger(pieceLength))
	info.Set("pieces", hex.EncodeToString(pieces))

	torrent := NewDict()
	torrent.Set("announce", trackerURL)
	torrent.Set("info", info)

	return Encode(torrent, opts...)
}

// hashPieces returns the concatenated SHA-1 digests of each pieceLength chunk of r.
func hashPieces(r io.Reader, pieceLength int64) ([]byte, error) {
	pieces := []byte{}
	buf := make([]byte, pieceLength)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			hash := sha1.Sum(buf[:n])
			pieces = append(pieces, hash[:]...)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return pieces, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
