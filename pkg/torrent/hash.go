package torrent

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
	sha256 "github.com/minio/sha256-simd"
	"github.com/multiformats/go-multihash"

	"torrentcodec/pkg/bencode"
)

// InfoBytes returns the bencoding of the "info" dictionary of a torrent file.
// The dictionary is re-encoded in wire order, so the result matches the
// original bytes whenever the torrent was written canonically.
func InfoBytes(raw []byte) ([]byte, error) {
	v, err := bencode.Decode(raw)
	if err != nil {
		return nil, err
	}
	root, ok := v.(*bencode.Map)
	if !ok {
		return nil, typeMismatch("", "torrent is not a dictionary")
	}
	info, ok := root.GetString("info")
	if !ok {
		return nil, typeMismatch("info", "missing info dictionary")
	}
	if _, ok := info.(*bencode.Map); !ok {
		return nil, typeMismatch("info", "info is not a dictionary")
	}
	return bencode.Encode(info)
}

// InfoHash is the uppercase hex SHA-1 of the info dictionary, the v1 torrent hash.
func InfoHash(raw []byte) (string, error) {
	info, err := InfoBytes(raw)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(info)
	return strings.ToUpper(hex.EncodeToString(sum[:])), nil
}

// InfoHashV2 is the SHA-256 of the info dictionary as a hex multihash
// ("1220" followed by the digest), as used by urn:btmh: magnet links.
func InfoHashV2(raw []byte) (string, error) {
	info, err := InfoBytes(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(info)
	mh, err := multihash.Encode(sum[:], multihash.SHA2_256)
	if err != nil {
		return "", fmt.Errorf("torrent: multihash: %w", err)
	}
	return multihash.Multihash(mh).HexString(), nil
}

// CalculateHash returns the uppercase hex info hash of a torrent, taken from
// a magnet link when link is one and computed from data otherwise. Magnet
// links may carry the hash as 40 hex or 32 base32 characters.
func CalculateHash(link string, data []byte) (string, error) {
	if strings.HasPrefix(link, "magnet:") {
		m, err := metainfo.ParseMagnetUri(link)
		if err != nil {
			return "", fmt.Errorf("torrent: cannot parse magnet link: %w", err)
		}
		if m.InfoHash == (metainfo.Hash{}) {
			return "", fmt.Errorf("torrent: magnet link has no btih info hash")
		}
		return strings.ToUpper(m.InfoHash.HexString()), nil
	}
	if len(data) > 0 {
		return InfoHash(data)
	}
	return "", fmt.Errorf("torrent: cannot calculate torrent hash without magnet link or data")
}
