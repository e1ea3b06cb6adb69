// file: internal/validation/validation.go
// version: 1.0.0
// guid: 4d1c9a7e-2b6f-4e30-9a58-c1f07b3e6d21

// Package validation holds the primitive predicates the playlist format is
// built on. Every function is pure and safe for concurrent use.
package validation

import (
	"crypto/subtle"
	"path/filepath"
	"strings"
)

var (
	// PNGSignature is the 8-byte magic number every PNG file starts with.
	PNGSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	// JPEGSignature is the SOI marker plus the first byte of the next marker.
	JPEGSignature = []byte{0xFF, 0xD8, 0xFF}
)

// IsSingleLineNonEmpty reports whether s is non-empty and has no line breaks
func IsSingleLineNonEmpty(s string) bool {
	return s != "" && !strings.ContainsAny(s, "\r\n")
}

// IsHexString reports whether every byte of s is an ASCII hex digit.
// The empty string is vacuously hex; callers check emptiness themselves.
func IsHexString(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsSafeRelativePath reports whether p names a single file with an
// extension: no directory component, no parent reference, not absolute.
func IsSafeRelativePath(p string) bool {
	if p == "" || p == "." || p == ".." {
		return false
	}
	if strings.ContainsAny(p, `/\`) || filepath.IsAbs(p) || strings.ContainsRune(p, 0) {
		return false
	}
	// Windows volume names ("C:cover.png") are not single segments either.
	if strings.ContainsRune(p, ':') {
		return false
	}
	ext := filepath.Ext(p)
	if ext == "" || ext == "." {
		return false
	}
	// ".png" is a dot-file without a stem, not a file with an extension.
	return len(p) > len(ext)
}

// ResolvesToEntry is the read-path form of IsSafeRelativePath: the path must
// also name an entry that exists.
func ResolvesToEntry(p string, exists func(name string) bool) bool {
	if !IsSafeRelativePath(p) {
		return false
	}
	return exists != nil && exists(p)
}

// Extension returns the lower-cased extension of p without its dot
func Extension(p string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(p), "."))
}

// HasSignature reports whether data starts with signature. The prefix is
// compared in constant time.
func HasSignature(data, signature []byte) bool {
	if len(signature) == 0 || len(data) < len(signature) {
		return false
	}
	return subtle.ConstantTimeCompare(data[:len(signature)], signature) == 1
}
