package torrent

import (
	"log"
)

// ReadName returns info.name of a torrent file, or defaultName when the file
// cannot be decoded or has no name. Undecodable text is always replaced,
// whatever error policy opts carry.
func ReadName(raw []byte, defaultName string, opts ...Option) string {
	opts = append(opts[:len(opts):len(opts)], WithErrors(Replace))
	d, err := Decode(raw, opts...)
	if err != nil {
		log.Printf("Unable to decode torrent file: %v", err)
		return defaultName
	}

	info, ok := d.GetDict("info")
	if ok {
		if name, ok := info.GetString("name"); ok {
			return name
		}
	}

	if defaultName != "" {
		log.Printf("Couldn't get name from torrent file. Defaulting to '%s'", defaultName)
	} else {
		log.Printf("Couldn't get name from torrent file. No default given")
	}
	return defaultName
}
