// file: internal/testutil/fixtures.go
// version: 1.0.0
// guid: 3e6a0d57-c41b-4f28-9e73-b25d8f1c0a96

package testutil

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jdfalk/blist/internal/playlist"
	"github.com/stretchr/testify/require"
)

// ValidHash is a well-formed SHA-1 hex digest
const ValidHash = "0123456789abcdef0123456789abcdef01234567"

// PNGBytes returns a minimal byte sequence starting with the PNG signature
func PNGBytes() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R',
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	}
}

// JPEGBytes returns a minimal byte sequence starting with the JPEG signature
func JPEGBytes() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}
}

// PNGBase64 returns PNGBytes encoded as standard base64
func PNGBase64() string {
	return base64.StdEncoding.EncodeToString(PNGBytes())
}

// JPEGBase64 returns JPEGBytes encoded as standard base64
func JPEGBase64() string {
	return base64.StdEncoding.EncodeToString(JPEGBytes())
}

// SamplePlaylist builds a valid playlist exercising every field: author,
// multi-line description, PNG cover, all three track types, difficulties
// and custom data on both levels.
func SamplePlaylist(t *testing.T) *playlist.Playlist {
	t.Helper()

	date := time.Date(2021, time.March, 14, 15, 9, 26, 0, time.UTC)

	p := playlist.New("Ranked Favourites")
	p.Author = playlist.StringPtr("Mapper")
	p.Description = playlist.StringPtr("Songs I keep coming back to.\nSecond line.")
	p.SetCover(playlist.CoverPNG, PNGBytes())

	keyTrack := playlist.NewKeyTrack("1a2b")
	keyTrack.Date = &date
	keyTrack.Difficulties = []playlist.Difficulty{
		{Name: "Expert", Characteristic: "Standard"},
		{Name: "ExpertPlus", Characteristic: "OneSaber"},
	}
	require.NoError(t, keyTrack.CustomData.Set("songName", "Escape"))

	hashTrack := playlist.NewHashTrack(ValidHash)
	hashTrack.Date = nil

	levelTrack := playlist.NewLevelIDTrack("custom_level_ABCDEF")
	levelTrack.Date = &date

	p.AddTrack(keyTrack)
	p.AddTrack(hashTrack)
	p.AddTrack(levelTrack)

	require.NoError(t, p.CustomData.Set("syncURL", "https://example.com/sync"))
	require.NoError(t, p.CustomData.Set("tags", []string{"ranked", "fast"}))

	require.NoError(t, p.Validate())
	return p
}

// LegacyDocument is a legacy playlist with a bare base64 PNG image, songs
// of every inferable type and unknown fields on both levels.
func LegacyDocument() string {
	return `{
  "playlistTitle": "Old Favourites",
  "playlistAuthor": "Someone",
  "playlistDescription": "Converted from the old format",
  "image": "` + PNGBase64() + `",
  "syncURL": "https://example.com/old",
  "songs": [
    {"key": "1a2b", "songName": "Escape", "dateAdded": "2020-01-02T03:04:05Z"},
    {"hash": "` + ValidHash + `", "songName": "Reality Check"},
    {"songName": "Lost"}
  ]
}`
}

// WriteFile writes content to name inside dir and returns the full path
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}
