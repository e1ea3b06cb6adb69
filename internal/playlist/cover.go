// file: internal/playlist/cover.go
// version: 1.0.0
// guid: 5f0e3c82-91ad-4b7e-86c4-2d7a9e1b0f35

package playlist

import (
	"github.com/jdfalk/blist/internal/validation"
)

// CoverKind is the declared image format of a cover
type CoverKind int

const (
	// CoverUnknown is never valid. It marks a cover whose format has not
	// been established yet.
	CoverUnknown CoverKind = iota
	CoverPNG
	CoverJPEG
)

// Cover is the optional image stored next to the manifest
type Cover struct {
	// Path is the archive entry name, a single file name with extension.
	Path string
	Data []byte
	Kind CoverKind
}

// String returns the short format name used in messages
func (k CoverKind) String() string {
	switch k {
	case CoverPNG:
		return "png"
	case CoverJPEG:
		return "jpg"
	default:
		return "unknown"
	}
}

// Signature returns the magic bytes cover data of this kind starts with
func (k CoverKind) Signature() []byte {
	switch k {
	case CoverPNG:
		return validation.PNGSignature
	case CoverJPEG:
		return validation.JPEGSignature
	default:
		return nil
	}
}

// FileName returns the canonical archive entry name for this kind
func (k CoverKind) FileName() string {
	switch k {
	case CoverPNG:
		return "cover.png"
	case CoverJPEG:
		return "cover.jpg"
	default:
		return ""
	}
}

// MatchesExtension reports whether ext (lower-case, no dot) belongs to k
func (k CoverKind) MatchesExtension(ext string) bool {
	return k != CoverUnknown && KindForExtension(ext) == k
}

// KindForExtension maps a lower-case extension without dot to a kind
func KindForExtension(ext string) CoverKind {
	switch ext {
	case "png":
		return CoverPNG
	case "jpg", "jpeg":
		return CoverJPEG
	default:
		return CoverUnknown
	}
}

// SniffCoverKind classifies data by its leading bytes
func SniffCoverKind(data []byte) CoverKind {
	switch {
	case validation.HasSignature(data, validation.PNGSignature):
		return CoverPNG
	case validation.HasSignature(data, validation.JPEGSignature):
		return CoverJPEG
	default:
		return CoverUnknown
	}
}

// Validate checks the declared kind against the path extension and the
// byte signature.
func (c *Cover) Validate() error {
	if c.Kind != CoverPNG && c.Kind != CoverJPEG {
		return ErrUnknownCoverType
	}
	if !validation.IsSafeRelativePath(c.Path) || !c.Kind.MatchesExtension(validation.Extension(c.Path)) {
		return &InvalidCoverPathError{Kind: c.Kind, Path: c.Path}
	}
	if !validation.HasSignature(c.Data, c.Kind.Signature()) {
		return &InvalidCoverDataError{Kind: c.Kind}
	}
	return nil
}
