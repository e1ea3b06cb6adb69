// file: internal/archive/manifest.go
// version: 1.1.0
// guid: 62f1a9d8-4c0b-4e57-b3a6-d8e9c17f205b

package archive

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jdfalk/blist/internal/playlist"
)

// manifest is the playlist.json schema. It is decoded on its own and
// converted to the model explicitly; the model never carries wire quirks.
type manifest struct {
	Title       string              `json:"title"`
	Author      *string             `json:"author,omitempty"`
	Description *string             `json:"description,omitempty"`
	Cover       *string             `json:"cover,omitempty"`
	Maps        []manifestTrack     `json:"maps"`
	CustomData  playlist.CustomData `json:"customData,omitempty"`

	// unknown holds top-level keys outside the schema.
	unknown map[string]json.RawMessage
}

type manifestTrack struct {
	Type         playlist.TrackType   `json:"type"`
	Date         *time.Time           `json:"date,omitempty"`
	Difficulties []manifestDifficulty `json:"difficulties,omitempty"`
	Key          *string              `json:"key,omitempty"`
	Hash         *string              `json:"hash,omitempty"`
	LevelID      *string              `json:"levelID,omitempty"`
	CustomData   playlist.CustomData  `json:"customData,omitempty"`

	unknown map[string]json.RawMessage
}

type manifestDifficulty struct {
	Name           string `json:"name"`
	Characteristic string `json:"characteristic"`
}

var (
	manifestKeys = []string{"title", "author", "description", "cover", "maps", "customData"}
	trackKeys    = []string{"type", "date", "difficulties", "key", "hash", "levelID", "customData"}
)

// UnmarshalJSON decodes the schema fields and keeps every other key.
func (m *manifest) UnmarshalJSON(data []byte) error {
	type plain manifest
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	unknown, present, err := splitUnknown(data, manifestKeys)
	if err != nil {
		return err
	}
	for _, required := range []string{"title", "maps"} {
		if !present[required] {
			return fmt.Errorf("missing field `%s`", required)
		}
	}
	*m = manifest(decoded)
	m.unknown = unknown
	return nil
}

// UnmarshalJSON decodes the schema fields and keeps every other key.
func (t *manifestTrack) UnmarshalJSON(data []byte) error {
	type plain manifestTrack
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	unknown, present, err := splitUnknown(data, trackKeys)
	if err != nil {
		return err
	}
	if !present["type"] {
		return fmt.Errorf("missing field `type`")
	}
	*t = manifestTrack(decoded)
	t.unknown = unknown
	return nil
}

// splitUnknown separates the keys of the object in data into those
// outside known, returned with their values, and the known ones present.
func splitUnknown(data []byte, known []string) (map[string]json.RawMessage, map[string]bool, error) {
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
	return all, present, nil
}

func fromModel(p *playlist.Playlist) manifest {
	m := manifest{
		Title:       p.Title,
		Author:      p.Author,
		Description: p.Description,
		Maps:        make([]manifestTrack, 0, len(p.Maps)),
		CustomData:  p.CustomData,
	}
	if p.Cover != nil {
		path := p.Cover.Path
		m.Cover = &path
	}
	for _, t := range p.Maps {
		mt := manifestTrack{
			Type:       t.Type,
			Date:       t.Date,
			Key:        t.Key,
			Hash:       t.Hash,
			LevelID:    t.LevelID,
			CustomData: t.CustomData,
		}
		for _, d := range t.Difficulties {
			mt.Difficulties = append(mt.Difficulties, manifestDifficulty(d))
		}
		m.Maps = append(m.Maps, mt)
	}
	return m
}

// toModel converts the decoded manifest. The cover, if any, is left for
// the caller to resolve against the archive entries.
func (m *manifest) toModel(preserveCustomData bool) (*playlist.Playlist, error) {
	p := &playlist.Playlist{
		Title:       m.Title,
		Author:      m.Author,
		Description: m.Description,
	}

	if preserveCustomData {
		custom, err := mergeCustomData(m.CustomData, m.unknown)
		if err != nil {
			return nil, err
		}
		p.CustomData = custom
	}

	if len(m.Maps) > 0 {
		p.Maps = make([]playlist.Track, 0, len(m.Maps))
	}
	for idx, mt := range m.Maps {
		t := playlist.Track{
			Type:    mt.Type,
			Date:    mt.Date,
			Key:     mt.Key,
			Hash:    mt.Hash,
			LevelID: mt.LevelID,
		}
		for _, d := range mt.Difficulties {
			t.Difficulties = append(t.Difficulties, playlist.Difficulty(d))
		}
		if preserveCustomData {
			custom, err := mergeCustomData(mt.CustomData, mt.unknown)
			if err != nil {
				return nil, fmt.Errorf("maps[%d]: %w", idx, err)
			}
			t.CustomData = custom
		}
		p.Maps = append(p.Maps, t)
	}

	return p, nil
}

// mergeCustomData folds unknown keys into the explicit custom data map.
// Explicit entries win on collision.
func mergeCustomData(explicit playlist.CustomData, unknown map[string]json.RawMessage) (playlist.CustomData, error) {
	custom, err := playlist.NormalizeCustomData(explicit)
	if err != nil {
		return nil, err
	}
	folded, err := playlist.NormalizeCustomData(unknown)
	if err != nil {
		return nil, err
	}
	custom.Merge(folded)
	return custom, nil
}

// MarshalManifest renders the playlist.json document for p, indented.
// It does not validate p.
func MarshalManifest(p *playlist.Playlist) ([]byte, error) {
	return playlist.MarshalIndentJSON(fromModel(p), "  ")
}
