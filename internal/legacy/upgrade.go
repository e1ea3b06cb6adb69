// file: internal/legacy/upgrade.go
// version: 1.0.0
// guid: 5e2b7a90-c6d4-4f31-8b15-d0a9e3f6c172

package legacy

import (
	"fmt"

	"github.com/jdfalk/blist/internal/playlist"
)

// Options controls how a legacy document is upgraded
type Options struct {
	// PreserveCustomData moves unknown fields into custom data; when false
	// they are discarded.
	PreserveCustomData bool
	ImageEncoding      ImageEncoding
}

// DefaultOptions keeps custom data and detects the image encoding
func DefaultOptions() Options {
	return Options{PreserveCustomData: true, ImageEncoding: ImageAuto}
}

// Upgrade converts the document to the current model. It does not
// validate; the archive writer does that before anything is persisted.
func (d *Document) Upgrade(opts Options) (*playlist.Playlist, error) {
	p := &playlist.Playlist{
		Title:       d.Title,
		Author:      d.Author,
		Description: d.Description,
	}

	if opts.PreserveCustomData {
		custom, err := playlist.NormalizeCustomData(d.Extra)
		if err != nil {
			return nil, err
		}
		p.CustomData = custom
	}

	if len(d.Songs) > 0 {
		p.Maps = make([]playlist.Track, 0, len(d.Songs))
	}
	for idx := range d.Songs {
		track, err := d.Songs[idx].upgrade(opts.PreserveCustomData)
		if err != nil {
			return nil, fmt.Errorf("songs[%d]: %w", idx, err)
		}
		p.Maps = append(p.Maps, track)
	}

	if d.Image != nil {
		kind, data, err := decodeImage(*d.Image, opts.ImageEncoding)
		if err != nil {
			return nil, err
		}
		if kind != playlist.CoverUnknown {
			p.SetCover(kind, data)
		}
	}

	return p, nil
}

// upgrade infers the track type from which identifier is present. A song
// with neither key nor hash becomes a level id track without a level id,
// which validation later reports as a mismatched type.
func (s *Song) upgrade(preserveCustomData bool) (playlist.Track, error) {
	t := playlist.Track{
		Date: s.DateAdded,
		Key:  s.Key,
		Hash: s.Hash,
	}
	switch {
	case s.Key != nil:
		t.Type = playlist.TrackKey
	case s.Hash != nil:
		t.Type = playlist.TrackHash
	default:
		t.Type = playlist.TrackLevelID
	}

	if preserveCustomData {
		custom, err := playlist.NormalizeCustomData(s.Extra)
		if err != nil {
			return playlist.Track{}, err
		}
		t.CustomData = custom
	}
	return t, nil
}

// Convert parses a legacy document and upgrades it
func Convert(data []byte, opts Options) (*playlist.Playlist, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Upgrade(opts)
}
