// file: internal/playlist/errors.go
// version: 1.0.0
// guid: 7a94d0c3-3f18-4b2e-a5d6-0e8c71b9f452

package playlist

import (
	"errors"
	"fmt"
	"strings"
)

// Entity names used in field errors
const (
	EntityPlaylist   = "playlist"
	EntityTrack      = "beatmap"
	EntityDifficulty = "beatmap difficulty"
)

var (
	// ErrInvalidCover is wrapped by every cover error
	ErrInvalidCover = errors.New("invalid playlist cover")
	// ErrUnknownCoverType is returned for a cover whose kind is unknown
	ErrUnknownCoverType = fmt.Errorf("%w: playlist cover has an unknown type", ErrInvalidCover)
)

// InvalidFieldError reports a field whose value breaks its format rule
type InvalidFieldError struct {
	Entity string
	Field  string
	Value  string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s field `%s` has value of `%s` which doesn't respect the schema", e.Entity, e.Field, e.Value)
}

// MismatchedTypeError reports a track whose declared type has no identifier
type MismatchedTypeError struct {
	Type  TrackType
	Field string
}

func (e *MismatchedTypeError) Error() string {
	return fmt.Sprintf("missing field `%s` in beatmap of type `%s`", e.Field, e.Type)
}

// InvalidTrackError wraps the error of the track at Index
type InvalidTrackError struct {
	Index int
	Err   error
}

func (e *InvalidTrackError) Error() string {
	return fmt.Sprintf("beatmap at index `%d` is invalid: %v", e.Index, e.Err)
}

func (e *InvalidTrackError) Unwrap() error { return e.Err }

// InvalidDifficultyError wraps the error of the difficulty at Index
type InvalidDifficultyError struct {
	Index int
	Err   error
}

func (e *InvalidDifficultyError) Error() string {
	return fmt.Sprintf("beatmap difficulty at index `%d` is invalid: %v", e.Index, e.Err)
}

func (e *InvalidDifficultyError) Unwrap() error { return e.Err }

// InvalidCoverPathError reports an unsafe path or one whose extension does
// not match the cover kind
type InvalidCoverPathError struct {
	Kind CoverKind
	Path string
}

func (e *InvalidCoverPathError) Error() string {
	return fmt.Sprintf("playlist cover of type `%s` has invalid path `%s`", e.Kind, e.Path)
}

func (e *InvalidCoverPathError) Unwrap() error { return ErrInvalidCover }

// InvalidCoverDataError reports cover bytes without the kind's signature
type InvalidCoverDataError struct {
	Kind CoverKind
}

func (e *InvalidCoverDataError) Error() string {
	return fmt.Sprintf("playlist cover of type `%s` has invalid data", e.Kind)
}

func (e *InvalidCoverDataError) Unwrap() error { return ErrInvalidCover }

// FieldPath renders where a validation error occurred, for example
// "maps[2].difficulties[0].name". It returns "" for errors that do not
// come from validation.
func FieldPath(err error) string {
	var parts []string
	for err != nil {
		switch e := err.(type) {
		case *InvalidTrackError:
			parts = append(parts, fmt.Sprintf("maps[%d]", e.Index))
		case *InvalidDifficultyError:
			parts = append(parts, fmt.Sprintf("difficulties[%d]", e.Index))
		case *InvalidFieldError:
			return strings.Join(append(parts, e.Field), ".")
		case *MismatchedTypeError:
			return strings.Join(append(parts, e.Field), ".")
		case *InvalidCoverPathError, *InvalidCoverDataError:
			return strings.Join(append(parts, "cover"), ".")
		}
		if err == ErrUnknownCoverType {
			return strings.Join(append(parts, "cover"), ".")
		}
		err = errors.Unwrap(err)
	}
	return strings.Join(parts, ".")
}
