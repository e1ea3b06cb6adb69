// file: internal/fileops/hash.go
// version: 2.0.0
// guid: 0a1b2c3d-4e5f-6a7b-8c9d-0e1f2a3b4c5d

package fileops

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digest identifies the bytes of a container or legacy file
type Digest struct {
	SHA256 string
	Size   int64
}

// DigestFile reads path once and returns its SHA-256 and size
func DigestFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()

	d, err := DigestReader(f)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to digest %s: %w", path, err)
	}
	return d, nil
}

// DigestReader consumes r and returns the digest of everything read
func DigestReader(r io.Reader) (Digest, error) {
	hasher := sha256.New()
	n, err := io.Copy(hasher, r)
	if err != nil {
		return Digest{}, err
	}
	return Digest{SHA256: hex.EncodeToString(hasher.Sum(nil)), Size: n}, nil
}
