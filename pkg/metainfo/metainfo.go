// Package metainfo offers a typed, read-only view of a .torrent file.
package metainfo

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/zeebo/bencode"
)

type MetaInfo struct {
	Announce     string
	AnnounceList [][]string
	Comment      string
	CreatedBy    string
	CreationDate int64
	Info         Info

	infoBytes []byte
}

// bencodeTorrent keeps info raw so HashInfo hashes the bytes as written.
type bencodeTorrent struct {
	Announce     string             `bencode:"announce"`
	AnnounceList [][]string         `bencode:"announce-list,omitempty"`
	Comment      string             `bencode:"comment,omitempty"`
	CreatedBy    string             `bencode:"created by,omitempty"`
	CreationDate int64              `bencode:"creation date,omitempty"`
	Info         bencode.RawMessage `bencode:"info"`
}

type Info struct {
	Name        string `bencode:"name"`
	Length      int64  `bencode:"length,omitempty"` // single-file torrents only
	PieceLength int64  `bencode:"piece length"`
	Pieces      []byte `bencode:"pieces"`
	Private     int64  `bencode:"private,omitempty"`
	Files       []File `bencode:"files,omitempty"` // multi-file torrents only
}

type File struct {
	Length int64    `bencode:"length"`
	Path   []string `bencode:"path"`
}

// Parse decodes a metainfo buffer.
func Parse(data []byte) (*MetaInfo, error) {
	var bt bencodeTorrent
	if err := bencode.DecodeBytes(data, &bt); err != nil {
		return nil, errors.Wrap(err, "failed to decode torrent file")
	}
	if len(bt.Info) == 0 {
		return nil, errors.New("torrent file has no info dictionary")
	}

	mi := MetaInfo{
		Announce:     bt.Announce,
		AnnounceList: bt.AnnounceList,
		Comment:      bt.Comment,
		CreatedBy:    bt.CreatedBy,
		CreationDate: bt.CreationDate,
	}
	if err := bencode.DecodeBytes(bt.Info, &mi.Info); err != nil {
		return nil, errors.Wrap(err, "failed to decode info dictionary")
	}
	if len(mi.Info.Pieces)%sha1.Size != 0 {
		return nil, errors.Errorf("pieces length %d is not a multiple of %d", len(mi.Info.Pieces), sha1.Size)
	}
	mi.infoBytes = bt.Info
	return &mi, nil
}

// Load reads and parses the .torrent file at path.
func Load(path string) (*MetaInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	mi, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return mi, nil
}

func (mi *MetaInfo) PieceHashes() [][sha1.Size]byte {
	hashes := make([][sha1.Size]byte, len(mi.Info.Pieces)/sha1.Size)
	for i := range hashes {
		copy(hashes[i][:], mi.Info.Pieces[i*sha1.Size:])
	}
	return hashes
}

// TotalLength is the single-file length or the sum over Files.
func (mi *MetaInfo) TotalLength() int64 {
	if len(mi.Info.Files) == 0 {
		return mi.Info.Length
	}
	var total int64
	for _, f := range mi.Info.Files {
		total += f.Length
	}
	return total
}

func (mi *MetaInfo) IsPrivate() bool {
	return mi.Info.Private == 1
}

// HashInfo returns the uppercase hex SHA-1 of the info dictionary exactly as
// it appears in the file, which is the hash peers and trackers use.
func (mi *MetaInfo) HashInfo() string {
	sum := sha1.Sum(mi.infoBytes)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
