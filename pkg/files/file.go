package files

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const torrentExt = ".torrent"

type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time // Last modification time
	IsDir   bool      // Whether it's a directory
}

// Stat describes the file at path.
func Stat(path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}

	return &FileInfo{
		Path:    path,
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// ReadTorrentFile reads a .torrent file into memory.
func ReadTorrentFile(path string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), torrentExt) {
		return nil, errors.Errorf("%s is not a %s file", path, torrentExt)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

// WriteTorrentFile writes data to path, creating parent directories.
// The .torrent extension is appended when missing. It returns the final path.
func WriteTorrentFile(path string, data []byte) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), torrentExt) {
		path += torrentExt
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}
