// file: internal/archive/archive.go
// version: 1.1.0
// guid: 4a07c6e9-d815-4f3b-a2c0-95b1e8f7d364

// Package archive reads and writes playlist containers: zip archives with a
// playlist.json manifest and at most one cover image entry. Both directions
// validate the playlist, so an invalid model is never written and a
// malformed container is never accepted.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/klauspost/compress/zip"

	"github.com/jdfalk/blist/internal/fileops"
	"github.com/jdfalk/blist/internal/playlist"
	"github.com/jdfalk/blist/internal/validation"
)

// ManifestName is the entry holding the JSON manifest
const ManifestName = "playlist.json"

// Extension is the canonical file extension of a container
const Extension = ".blist"

// DefaultMaxEntrySize caps how much a single entry may inflate to
const DefaultMaxEntrySize int64 = 32 << 20

// Options controls decoding
type Options struct {
	// PreserveCustomData keeps customData objects and folds keys outside
	// the schema into them. When false all custom data is discarded.
	PreserveCustomData bool
	// MaxEntrySize limits the uncompressed size of each entry read
	MaxEntrySize int64
}

// DefaultOptions returns the options Read uses
func DefaultOptions() Options {
	return Options{
		PreserveCustomData: true,
		MaxEntrySize:       DefaultMaxEntrySize,
	}
}

// Write validates p and writes it as a container to w
func Write(w io.Writer, p *playlist.Playlist) error {
	// Step 1: validate, cover included
	if err := p.Validate(); err != nil {
		return newError(opWrite, ErrValidation, err)
	}

	manifestData, err := playlist.MarshalJSON(fromModel(p))
	if err != nil {
		return newError(opWrite, ErrFormat, fmt.Errorf("failed to encode manifest: %w", err))
	}

	// Step 2: manifest entry
	zw := zip.NewWriter(w)
	entry, err := zw.CreateHeader(&zip.FileHeader{Name: ManifestName, Method: zip.Deflate})
	if err != nil {
		return newError(opWrite, ErrIO, err)
	}
	if _, err := entry.Write(manifestData); err != nil {
		return newError(opWrite, ErrIO, err)
	}

	// Step 3: cover entry; images are already compressed
	if p.Cover != nil {
		entry, err := zw.CreateHeader(&zip.FileHeader{Name: p.Cover.Path, Method: zip.Store})
		if err != nil {
			return newError(opWrite, ErrIO, err)
		}
		if _, err := entry.Write(p.Cover.Data); err != nil {
			return newError(opWrite, ErrIO, err)
		}
	}

	if err := zw.Close(); err != nil {
		return newError(opWrite, ErrIO, err)
	}
	return nil
}

// Encode returns the container bytes for p
func Encode(p *playlist.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes p to path. An existing file at path is never replaced.
func WriteFile(path string, p *playlist.Playlist) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	if err := fileops.WriteExclusive(path, data); err != nil {
		return newError(opWrite, ErrIO, err)
	}
	return nil
}

// Read decodes a container with DefaultOptions
func Read(r io.ReaderAt, size int64) (*playlist.Playlist, error) {
	return ReadWithOptions(r, size, DefaultOptions())
}

// Decode reads a container held in memory
func Decode(data []byte) (*playlist.Playlist, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

// ReadFile opens and decodes the container at path
func ReadFile(path string) (*playlist.Playlist, error) {
	return ReadFileWithOptions(path, DefaultOptions())
}

// ReadFileWithOptions opens and decodes the container at path
func ReadFileWithOptions(path string, opts Options) (*playlist.Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(opRead, ErrIO, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, newError(opRead, ErrIO, err)
	}
	return ReadWithOptions(f, info.Size(), opts)
}

// ReadWithOptions decodes a container, resolves and checks its cover, and
// validates the result.
func ReadWithOptions(r io.ReaderAt, size int64, opts Options) (*playlist.Playlist, error) {
	if opts.MaxEntrySize <= 0 {
		opts.MaxEntrySize = DefaultMaxEntrySize
	}

	// Step 1: open the archive
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, newError(opRead, ErrFormat, fmt.Errorf("failed to open archive: %w", err))
	}
	entries, err := indexEntries(zr)
	if err != nil {
		return nil, newError(opRead, ErrFormat, err)
	}

	// Step 2: decode the manifest
	manifestFile, ok := entries[ManifestName]
	if !ok {
		return nil, newError(opRead, ErrMissingEntry, fmt.Errorf("entry %s not found", ManifestName))
	}
	data, err := readEntry(manifestFile, opts.MaxEntrySize)
	if err != nil {
		return nil, newError(opRead, ErrFormat, fmt.Errorf("failed to read %s: %w", ManifestName, err))
	}
	if !utf8.Valid(data) {
		return nil, newError(opRead, ErrFormat, fmt.Errorf("%s is not valid UTF-8", ManifestName))
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, newError(opRead, ErrFormat, fmt.Errorf("failed to parse %s: %w", ManifestName, err))
	}
	p, err := m.toModel(opts.PreserveCustomData)
	if err != nil {
		return nil, newError(opRead, ErrFormat, fmt.Errorf("failed to parse %s: %w", ManifestName, err))
	}

	// Step 3: resolve the cover; any mismatch fails the read
	if m.Cover != nil {
		cover, err := readCover(entries, *m.Cover, opts.MaxEntrySize)
		if err != nil {
			return nil, err
		}
		p.Cover = cover
	}

	// Step 4: validate everything
	if err := p.Validate(); err != nil {
		return nil, newError(opRead, ErrValidation, err)
	}
	return p, nil
}

func readCover(entries map[string]*zip.File, path string, maxSize int64) (*playlist.Cover, error) {
	exists := func(name string) bool {
		_, ok := entries[name]
		return ok
	}
	kind := playlist.KindForExtension(validation.Extension(path))
	if !validation.ResolvesToEntry(path, exists) || kind == playlist.CoverUnknown {
		return nil, newError(opRead, ErrValidation, &playlist.InvalidCoverPathError{Kind: kind, Path: path})
	}

	rc, err := entries[path].Open()
	if err != nil {
		return nil, newError(opRead, ErrFormat, fmt.Errorf("failed to open cover %s: %w", path, err))
	}
	defer rc.Close()

	// Check the signature before reading the rest of the entry.
	signature := kind.Signature()
	head := make([]byte, len(signature))
	n, err := io.ReadFull(rc, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, newError(opRead, ErrFormat, fmt.Errorf("failed to read cover %s: %w", path, err))
	}
	if !validation.HasSignature(head[:n], signature) {
		return nil, newError(opRead, ErrValidation, &playlist.InvalidCoverDataError{Kind: kind})
	}

	rest, err := io.ReadAll(io.LimitReader(rc, maxSize-int64(n)+1))
	if err != nil {
		return nil, newError(opRead, ErrFormat, fmt.Errorf("failed to read cover %s: %w", path, err))
	}
	if int64(n+len(rest)) > maxSize {
		return nil, newError(opRead, ErrFormat, fmt.Errorf("cover %s exceeds %d bytes", path, maxSize))
	}

	return &playlist.Cover{
		Path: path,
		Data: append(head[:n], rest...),
		Kind: kind,
	}, nil
}

func indexEntries(zr *zip.Reader) (map[string]*zip.File, error) {
	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if _, dup := entries[f.Name]; dup {
			return nil, fmt.Errorf("duplicate entry %s", f.Name)
		}
		entries[f.Name] = f
	}
	return entries, nil
}

func readEntry(f *zip.File, maxSize int64) ([]byte, error) {
	if f.UncompressedSize64 > uint64(maxSize) {
		return nil, fmt.Errorf("entry exceeds %d bytes", maxSize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()
	data, err := io.ReadAll(io.LimitReader(rc, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("entry exceeds %d bytes", maxSize)
	}
	return data, nil
}
