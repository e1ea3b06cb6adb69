// file: internal/playlist/track.go
// version: 1.0.0
// guid: c83a17d4-6e25-4f90-b1a8-37d5e0c9f264

package playlist

import (
	"fmt"
	"sort"
	"time"

	"github.com/jdfalk/blist/internal/validation"
)

// HashLength is the length of a SHA-1 hex digest
const HashLength = 40

// TrackType says which identifier a track is referenced by
type TrackType int

const (
	TrackKey TrackType = iota
	TrackHash
	TrackLevelID
)

// String returns the wire name of the type
func (t TrackType) String() string {
	switch t {
	case TrackKey:
		return "key"
	case TrackHash:
		return "hash"
	case TrackLevelID:
		return "levelID"
	default:
		return fmt.Sprintf("TrackType(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler
func (t TrackType) MarshalText() ([]byte, error) {
	switch t {
	case TrackKey, TrackHash, TrackLevelID:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("unknown track type %d", int(t))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TrackType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "key":
		*t = TrackKey
	case "hash":
		*t = TrackHash
	case "levelID":
		*t = TrackLevelID
	default:
		return fmt.Errorf("unknown track type %q", string(text))
	}
	return nil
}

// Track references one map by key, hash or level id
type Track struct {
	Type         TrackType
	Date         *time.Time
	Difficulties []Difficulty
	Key          *string
	Hash         *string
	LevelID      *string
	CustomData   CustomData
}

// Difficulty highlights one difficulty of a track
type Difficulty struct {
	Name           string
	Characteristic string
}

func now() *time.Time {
	t := time.Now().UTC().Truncate(time.Second)
	return &t
}

// NewKeyTrack returns a track referenced by key, dated now
func NewKeyTrack(key string) Track {
	return Track{Type: TrackKey, Date: now(), Key: &key}
}

// NewHashTrack returns a track referenced by hash, dated now
func NewHashTrack(hash string) Track {
	return Track{Type: TrackHash, Date: now(), Hash: &hash}
}

// NewLevelIDTrack returns a track referenced by level id, dated now
func NewLevelIDTrack(levelID string) Track {
	return Track{Type: TrackLevelID, Date: now(), LevelID: &levelID}
}

// Validate checks the identifier matching Type is present, then each
// difficulty, then the format of every populated identifier.
func (t *Track) Validate() error {
	switch t.Type {
	case TrackKey:
		if t.Key == nil {
			return &MismatchedTypeError{Type: t.Type, Field: "key"}
		}
	case TrackHash:
		if t.Hash == nil {
			return &MismatchedTypeError{Type: t.Type, Field: "hash"}
		}
	case TrackLevelID:
		if t.LevelID == nil {
			return &MismatchedTypeError{Type: t.Type, Field: "levelID"}
		}
	default:
		return &InvalidFieldError{Entity: EntityTrack, Field: "type", Value: t.Type.String()}
	}

	for idx := range t.Difficulties {
		if err := t.Difficulties[idx].Validate(); err != nil {
			return &InvalidDifficultyError{Index: idx, Err: err}
		}
	}

	if t.Key != nil {
		if *t.Key == "" || !validation.IsHexString(*t.Key) {
			return &InvalidFieldError{Entity: EntityTrack, Field: "key", Value: *t.Key}
		}
	}
	if t.Hash != nil {
		if len(*t.Hash) != HashLength || !validation.IsHexString(*t.Hash) {
			return &InvalidFieldError{Entity: EntityTrack, Field: "hash", Value: *t.Hash}
		}
	}
	if t.LevelID != nil {
		if !validation.IsSingleLineNonEmpty(*t.LevelID) {
			return &InvalidFieldError{Entity: EntityTrack, Field: "levelID", Value: *t.LevelID}
		}
	}

	return nil
}

// Validate checks name and characteristic are single-line and non-empty
func (d *Difficulty) Validate() error {
	if !validation.IsSingleLineNonEmpty(d.Name) {
		return &InvalidFieldError{Entity: EntityDifficulty, Field: "name", Value: d.Name}
	}
	if !validation.IsSingleLineNonEmpty(d.Characteristic) {
		return &InvalidFieldError{Entity: EntityDifficulty, Field: "characteristic", Value: d.Characteristic}
	}
	return nil
}

// Equal reports structural equality. Dates compare by instant.
func (t *Track) Equal(other *Track) bool {
	if t.Type != other.Type {
		return false
	}
	switch {
	case t.Date == nil || other.Date == nil:
		if t.Date != other.Date {
			return false
		}
	case !t.Date.Equal(*other.Date):
		return false
	}
	if !equalStringPtr(t.Key, other.Key) || !equalStringPtr(t.Hash, other.Hash) || !equalStringPtr(t.LevelID, other.LevelID) {
		return false
	}
	if len(t.Difficulties) != len(other.Difficulties) {
		return false
	}
	for i := range t.Difficulties {
		if t.Difficulties[i] != other.Difficulties[i] {
			return false
		}
	}
	return t.CustomData.Equal(other.CustomData)
}

// SortTracksByDate orders tracks by date added, undated tracks first.
// The sort is stable so equal dates keep their playback order.
func SortTracksByDate(tracks []Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		a, b := tracks[i].Date, tracks[j].Date
		if a == nil {
			return b != nil
		}
		if b == nil {
			return false
		}
		return a.Before(*b)
	})
}
