// file: internal/playlist/playlist.go
// version: 2.0.0
// guid: 2a3b4c5d-6e7f-8a9b-0c1d-2e3f4a5b6c7d

// Package playlist is the in-memory model of a playlist package: the
// manifest fields, the ordered track references and the optional cover.
// Values are plain data; Validate checks every schema rule and reports the
// first violation with enough context to locate it.
package playlist

import (
	"bytes"
	"io"

	"github.com/jdfalk/blist/internal/validation"
)

// Playlist is the root of a playlist package
type Playlist struct {
	Title       string
	Author      *string
	Description *string
	Cover       *Cover
	// Maps keeps playback order.
	Maps       []Track
	CustomData CustomData
}

// New returns an empty playlist with the given title
func New(title string) *Playlist {
	return &Playlist{Title: title}
}

// SetPNGCover replaces the cover with PNG data read from r
func (p *Playlist) SetPNGCover(r io.Reader) error {
	return p.setCoverFrom(CoverPNG, r)
}

// SetJPEGCover replaces the cover with JPEG data read from r
func (p *Playlist) SetJPEGCover(r io.Reader) error {
	return p.setCoverFrom(CoverJPEG, r)
}

func (p *Playlist) setCoverFrom(kind CoverKind, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	p.SetCover(kind, data)
	return nil
}

// SetCover replaces the cover. The entry path is the kind's canonical name.
func (p *Playlist) SetCover(kind CoverKind, data []byte) {
	p.Cover = &Cover{
		Path: kind.FileName(),
		Data: data,
		Kind: kind,
	}
}

// RemoveCover drops the cover, if any
func (p *Playlist) RemoveCover() {
	p.Cover = nil
}

// AddTrack appends a track at the end of the playback order
func (p *Playlist) AddTrack(t Track) {
	p.Maps = append(p.Maps, t)
}

// Validate checks the playlist and returns the first violation found.
// Order: title, author, description, cover, then tracks by index.
func (p *Playlist) Validate() error {
	if !validation.IsSingleLineNonEmpty(p.Title) {
		return &InvalidFieldError{Entity: EntityPlaylist, Field: "title", Value: p.Title}
	}
	if p.Author != nil && !validation.IsSingleLineNonEmpty(*p.Author) {
		return &InvalidFieldError{Entity: EntityPlaylist, Field: "author", Value: *p.Author}
	}
	// Descriptions may span several lines.
	if p.Description != nil && *p.Description == "" {
		return &InvalidFieldError{Entity: EntityPlaylist, Field: "description", Value: *p.Description}
	}

	if p.Cover != nil {
		if err := p.Cover.Validate(); err != nil {
			return err
		}
	}

	for idx := range p.Maps {
		if err := p.Maps[idx].Validate(); err != nil {
			return &InvalidTrackError{Index: idx, Err: err}
		}
	}

	return nil
}

// Equal reports whether a and b are structurally equal. Nil and empty
// slices and maps are treated alike.
func Equal(a, b *Playlist) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Title != b.Title || !equalStringPtr(a.Author, b.Author) || !equalStringPtr(a.Description, b.Description) {
		return false
	}
	if !a.Cover.Equal(b.Cover) {
		return false
	}
	if len(a.Maps) != len(b.Maps) {
		return false
	}
	for i := range a.Maps {
		if !a.Maps[i].Equal(&b.Maps[i]) {
			return false
		}
	}
	return a.CustomData.Equal(b.CustomData)
}

// Equal reports whether two covers carry the same path, kind and bytes
func (c *Cover) Equal(other *Cover) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Path == other.Path && c.Kind == other.Kind && bytes.Equal(c.Data, other.Data)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// StringPtr returns a pointer to s, for optional fields
func StringPtr(s string) *string {
	return &s
}
