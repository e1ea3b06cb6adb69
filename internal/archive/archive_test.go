// file: internal/archive/archive_test.go
// version: 1.0.0
// guid: d9c4a2e6-71f3-4b0d-8a5e-3f6b0c8e1d97

package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/blist/internal/fileops"
	"github.com/jdfalk/blist/internal/playlist"
	"github.com/jdfalk/blist/internal/testutil"
)

// buildZip writes the given entries, in order, into an in-memory archive
func buildZip(t *testing.T, entries ...[2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	tests := map[string]func(t *testing.T) *playlist.Playlist{
		"full sample": testutil.SamplePlaylist,
		"title only": func(t *testing.T) *playlist.Playlist {
			return playlist.New("Just a title")
		},
		"jpeg cover": func(t *testing.T) *playlist.Playlist {
			p := playlist.New("JPEG")
			p.SetCover(playlist.CoverJPEG, testutil.JPEGBytes())
			return p
		},
		"jpeg cover with .jpeg path": func(t *testing.T) *playlist.Playlist {
			p := playlist.New("JPEG")
			p.Cover = &playlist.Cover{Path: "art.jpeg", Data: testutil.JPEGBytes(), Kind: playlist.CoverJPEG}
			return p
		},
		"sub-second date": func(t *testing.T) *playlist.Playlist {
			p := playlist.New("Dates")
			track := playlist.NewKeyTrack("ff")
			date := time.Date(2022, 5, 6, 7, 8, 9, 123456789, time.UTC)
			track.Date = &date
			p.AddTrack(track)
			return p
		},
		"raw custom data with html characters": func(t *testing.T) *playlist.Playlist {
			p := playlist.New("Raw")
			p.CustomData = playlist.CustomData{"note": json.RawMessage(`{"text": "a & <b>"}`)}
			track := playlist.NewKeyTrack("ff")
			track.CustomData = playlist.CustomData{"songName": json.RawMessage(`"Rock & Roll"`)}
			p.AddTrack(track)
			return p
		},
	}

	for name, build := range tests {
		t.Run(name, func(t *testing.T) {
			original := build(t)
			require.NoError(t, original.Validate())

			data, err := Encode(original)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.True(t, playlist.Equal(original, decoded), "decoded playlist differs:\n%#v\n%#v", original, decoded)
		})
	}
}

func TestWriteLayout(t *testing.T) {
	p := testutil.SamplePlaylist(t)
	data, err := Encode(p)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, ManifestName, zr.File[0].Name)
	assert.Equal(t, "cover.png", zr.File[1].Name)

	raw, err := readEntry(zr.File[0], DefaultMaxEntrySize)
	require.NoError(t, err)

	// Cover is flattened to its path; bytes and kind never reach the JSON.
	assert.Contains(t, string(raw), `"cover":"cover.png"`)
	assert.NotContains(t, string(raw), `"Data"`)
	assert.Contains(t, string(raw), `"customData":{"syncURL":"https://example.com/sync","tags":["ranked","fast"]}`)
	assert.Contains(t, string(raw), `"type":"levelID"`)

	coverBytes, err := readEntry(zr.File[1], DefaultMaxEntrySize)
	require.NoError(t, err)
	assert.Equal(t, testutil.PNGBytes(), coverBytes)
}

func TestWriteOmitsEmptyOptionalFields(t *testing.T) {
	p := playlist.New("Minimal")
	data, err := Encode(p)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)

	raw, err := readEntry(zr.File[0], DefaultMaxEntrySize)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Minimal","maps":[]}`, string(raw))
}

func TestWriteRejectsInvalidPlaylist(t *testing.T) {
	p := playlist.New("bad\ntitle")

	var buf bytes.Buffer
	err := Write(&buf, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, buf.Len(), "nothing is written for an invalid playlist")

	var fieldErr *playlist.InvalidFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "title", fieldErr.Field)
}

func TestWriteValidatesCover(t *testing.T) {
	p := playlist.New("Cover")
	p.Cover = &playlist.Cover{Path: "subdirectory/cover.jpg", Data: testutil.JPEGBytes(), Kind: playlist.CoverJPEG}

	_, err := Encode(p)
	var pathErr *playlist.InvalidCoverPathError
	require.ErrorAs(t, err, &pathErr)

	p.SetCover(playlist.CoverPNG, testutil.JPEGBytes())
	_, err = Encode(p)
	var dataErr *playlist.InvalidCoverDataError
	require.ErrorAs(t, err, &dataErr)
}

func TestReadMissingManifest(t *testing.T) {
	data := buildZip(t, [2]string{"other.json", "{}"})
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrMissingEntry)
}

func TestReadNotAnArchive(t *testing.T) {
	_, err := Decode([]byte(`{"title":"not a zip"}`))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadMalformedManifest(t *testing.T) {
	tests := map[string]string{
		"invalid json":       `{"title": "x", "maps": [`,
		"invalid utf8":       "{\"title\": \"\xff\", \"maps\": []}",
		"missing maps":       `{"title": "x"}`,
		"missing title":      `{"maps": []}`,
		"unknown track type": `{"title": "x", "maps": [{"type": "url"}]}`,
		"missing track type": `{"title": "x", "maps": [{"key": "ab"}]}`,
		"bad date":           `{"title": "x", "maps": [{"type": "key", "key": "ab", "date": "yesterday"}]}`,
	}
	for name, manifestJSON := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(buildZip(t, [2]string{ManifestName, manifestJSON}))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestReadDuplicateEntries(t *testing.T) {
	data := buildZip(t,
		[2]string{ManifestName, `{"title":"a","maps":[]}`},
		[2]string{ManifestName, `{"title":"b","maps":[]}`},
	)
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadValidatesManifest(t *testing.T) {
	data := buildZip(t, [2]string{ManifestName, `{"title":"x","maps":[{"type":"hash","hash":"deadbeef"}]}`})
	_, err := Decode(data)
	require.ErrorIs(t, err, ErrValidation)

	var trackErr *playlist.InvalidTrackError
	require.ErrorAs(t, err, &trackErr)
	assert.Equal(t, 0, trackErr.Index)
	assert.Equal(t, "maps[0].hash", playlist.FieldPath(err))
}

func TestReadCoverFailuresAreHard(t *testing.T) {
	png := string(testutil.PNGBytes())
	tests := map[string]struct {
		entries [][2]string
		target  any
	}{
		"nested path": {
			entries: [][2]string{{ManifestName, `{"title":"x","maps":[],"cover":"subdirectory/cover.png"}`}, {"subdirectory/cover.png", png}},
			target:  new(*playlist.InvalidCoverPathError),
		},
		"parent path": {
			entries: [][2]string{{ManifestName, `{"title":"x","maps":[],"cover":"../cover.png"}`}},
			target:  new(*playlist.InvalidCoverPathError),
		},
		"missing entry": {
			entries: [][2]string{{ManifestName, `{"title":"x","maps":[],"cover":"cover.png"}`}},
			target:  new(*playlist.InvalidCoverPathError),
		},
		"unrecognised extension": {
			entries: [][2]string{{ManifestName, `{"title":"x","maps":[],"cover":"cover.gif"}`}, {"cover.gif", "GIF89a"}},
			target:  new(*playlist.InvalidCoverPathError),
		},
		"png path with jpeg bytes": {
			entries: [][2]string{{ManifestName, `{"title":"x","maps":[],"cover":"cover.png"}`}, {"cover.png", string(testutil.JPEGBytes())}},
			target:  new(*playlist.InvalidCoverDataError),
		},
		"truncated png": {
			entries: [][2]string{{ManifestName, `{"title":"x","maps":[],"cover":"cover.png"}`}, {"cover.png", png[:5]}},
			target:  new(*playlist.InvalidCoverDataError),
		},
		"empty cover": {
			entries: [][2]string{{ManifestName, `{"title":"x","maps":[],"cover":"cover.jpg"}`}, {"cover.jpg", ""}},
			target:  new(*playlist.InvalidCoverDataError),
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := Decode(buildZip(t, tt.entries...))
			assert.Nil(t, p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, playlist.ErrInvalidCover)
			assert.ErrorAs(t, err, tt.target)
			assert.Equal(t, "cover", playlist.FieldPath(err))
		})
	}
}

func TestReadCoverWithoutManifestReference(t *testing.T) {
	// A stray image entry is ignored when the manifest names no cover.
	data := buildZip(t,
		[2]string{ManifestName, `{"title":"x","maps":[]}`},
		[2]string{"cover.png", string(testutil.PNGBytes())},
	)
	p, err := Decode(data)
	require.NoError(t, err)
	assert.Nil(t, p.Cover)
}

func TestReadEntrySizeLimit(t *testing.T) {
	p := testutil.SamplePlaylist(t)
	data, err := Encode(p)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.MaxEntrySize = 16
	_, err = ReadWithOptions(bytes.NewReader(data), int64(len(data)), opts)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadFoldsUnknownKeysIntoCustomData(t *testing.T) {
	manifestJSON := `{
		"title": "x",
		"maps": [{"type": "key", "key": "ab", "songName": "Escape", "customData": {"songName": "kept"}}],
		"customData": {"a": 1},
		"syncURL": "https://example.com"
	}`
	data := buildZip(t, [2]string{ManifestName, manifestJSON})

	p, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, `1`, string(p.CustomData["a"]))
	assert.Equal(t, `"https://example.com"`, string(p.CustomData["syncURL"]))
	assert.Equal(t, `"kept"`, string(p.Maps[0].CustomData["songName"]), "explicit custom data wins")

	opts := DefaultOptions()
	opts.PreserveCustomData = false
	p, err = ReadWithOptions(bytes.NewReader(data), int64(len(data)), opts)
	require.NoError(t, err)
	assert.Empty(t, p.CustomData)
	assert.Empty(t, p.Maps[0].CustomData)
}

func TestReadAcceptsNullOptionalFields(t *testing.T) {
	data := buildZip(t, [2]string{ManifestName, `{"title":"x","author":null,"description":null,"maps":[{"type":"key","key":"ab","date":null,"hash":null,"levelID":null}]}`})
	p, err := Decode(data)
	require.NoError(t, err)
	assert.Nil(t, p.Author)
	assert.Nil(t, p.Maps[0].Date)
}

func TestWriteFileAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample"+Extension)
	p := testutil.SamplePlaylist(t)

	require.NoError(t, WriteFile(path, p))

	decoded, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, playlist.Equal(p, decoded))

	// Existing destinations are never replaced.
	err = WriteFile(path, playlist.New("Other"))
	assert.ErrorIs(t, err, ErrIO)
	assert.True(t, errors.Is(err, fileops.ErrDestinationExists))

	decoded, err = ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, p.Title, decoded.Title)
}

func TestWriteFileInvalidCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad"+Extension)

	err := WriteFile(path, playlist.New(""))
	assert.ErrorIs(t, err, ErrValidation)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing"+Extension))
	assert.ErrorIs(t, err, ErrIO)
}

func TestMarshalManifest(t *testing.T) {
	p := testutil.SamplePlaylist(t)
	out, err := MarshalManifest(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"title\": \"Ranked Favourites\"")
	assert.Contains(t, string(out), `"cover": "cover.png"`)
}

func TestWriteKeepsHTMLCharactersInManifest(t *testing.T) {
	p := playlist.New("Rock & <Roll>")
	require.NoError(t, p.CustomData.Set("syncURL", "https://x/?a=1&b=2"))

	data, err := MarshalManifest(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Rock & <Roll>"`)
	assert.Contains(t, string(data), `"https://x/?a=1&b=2"`)
	assert.NotContains(t, string(data), `\u0026`)
}
