package archive

import (
	"crypto/sha512"
	"encoding/hex"
	"os"
)

// Record is the immutable identity of one input archive: where it lives,
// how big it is, and the digest of its full byte content.
type Record struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Fingerprint string `json:"fingerprint"`
}

// Load reads the archive at path and builds its Record. The raw bytes are
// returned alongside so extraction and scanning reuse the single read.
func Load(path string) (Record, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, nil, err
	}
	sum := sha512.Sum512(data)
	return Record{
		Path:        path,
		Size:        int64(len(data)),
		Fingerprint: hex.EncodeToString(sum[:]),
	}, data, nil
}
