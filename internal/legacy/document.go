// file: internal/legacy/document.go
// version: 1.0.0
// guid: 0c5f8e3b-a947-4d12-b6e0-2f8d1a7c9e54

// Package legacy reads the flat JSON playlists written by older tools
// and upgrades them to the current playlist model.
package legacy

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/jsonc"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Document is a legacy playlist as found on disk
type Document struct {
	Title       string  `json:"playlistTitle"`
	Author      *string `json:"playlistAuthor,omitempty"`
	Description *string `json:"playlistDescription,omitempty"`
	Songs       []Song  `json:"songs"`
	// Image is either bare base64 or a base64 data URI.
	Image *string `json:"image,omitempty"`

	// Extra holds top-level fields outside the legacy schema
	Extra map[string]json.RawMessage `json:"-"`
}

// Song is one entry of a legacy playlist
type Song struct {
	Key       *string    `json:"key,omitempty"`
	Hash      *string    `json:"hash,omitempty"`
	DateAdded *time.Time `json:"dateAdded,omitempty"`

	// Extra holds fields outside the legacy schema, such as songName
	Extra map[string]json.RawMessage `json:"-"`
}

var (
	documentKeys = []string{"playlistTitle", "playlistAuthor", "playlistDescription", "songs", "image"}
	songKeys     = []string{"key", "hash", "dateAdded"}
)

// UnmarshalJSON decodes the legacy fields and keeps the rest in Extra
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	extra, present, err := splitExtra(data, documentKeys)
	if err != nil {
		return err
	}
	if !present["playlistTitle"] {
		return fmt.Errorf("missing field `playlistTitle`")
	}
	*d = Document(decoded)
	d.Extra = extra
	return nil
}

// UnmarshalJSON decodes the legacy fields and keeps the rest in Extra
func (s *Song) UnmarshalJSON(data []byte) error {
	type plain Song
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	extra, _, err := splitExtra(data, songKeys)
	if err != nil {
		return err
	}
	*s = Song(decoded)
	s.Extra = extra
	return nil
}

func splitExtra(data []byte, known []string) (map[string]json.RawMessage, map[string]bool, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, nil, err
	}
	present := make(map[string]bool, len(known))
	for _, key := range known {
		if _, ok := all[key]; ok {
			present[key] = true
			delete(all, key)
		}
	}
	if len(all) == 0 {
		all = nil
	}
	return all, present, nil
}

// Parse decodes a legacy document. Byte order marks, comments and
// trailing commas left by hand editing are tolerated.
func Parse(data []byte) (*Document, error) {
	// UTF-16 files with a BOM are transcoded; a UTF-8 BOM is dropped.
	utf8Data, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode legacy playlist text: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(jsonc.ToJSON(utf8Data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse legacy playlist: %w", err)
	}
	return &doc, nil
}

// ReadFile reads and parses the legacy document at path
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
