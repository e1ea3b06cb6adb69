// file: internal/playlist/cover_test.go
// version: 1.0.0
// guid: e4b2c9f1-5a37-4d80-8e6b-91c3f0a7d258

package playlist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngData = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

func TestCoverSignatureCheck(t *testing.T) {
	// Arrange
	good := &Cover{Path: "cover.png", Data: pngData, Kind: CoverPNG}
	wrongKind := &Cover{Path: "cover.png", Data: pngData, Kind: CoverJPEG}
	truncated := &Cover{Path: "cover.png", Data: pngData[:7], Kind: CoverPNG}

	// Act & Assert
	assert.NoError(t, good.Validate())

	// JPEG kind with a .png path fails on the path before the bytes.
	var pathErr *InvalidCoverPathError
	require.ErrorAs(t, wrongKind.Validate(), &pathErr)
	assert.Equal(t, CoverJPEG, pathErr.Kind)

	wrongKind.Path = "cover.jpg"
	var dataErr *InvalidCoverDataError
	require.ErrorAs(t, wrongKind.Validate(), &dataErr)
	assert.Equal(t, CoverJPEG, dataErr.Kind)

	require.ErrorAs(t, truncated.Validate(), &dataErr)
	assert.Equal(t, CoverPNG, dataErr.Kind)
	assert.True(t, errors.Is(truncated.Validate(), ErrInvalidCover))
}

func TestCoverPathSafety(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	for _, path := range []string{"subdirectory/cover.jpg", "../cover.jpg", "/cover.jpg", "cover", ".jpg"} {
		t.Run(path, func(t *testing.T) {
			c := &Cover{Path: path, Data: jpeg, Kind: CoverJPEG}
			var pathErr *InvalidCoverPathError
			require.ErrorAs(t, c.Validate(), &pathErr)
			assert.Equal(t, path, pathErr.Path)
		})
	}

	for _, path := range []string{"cover.jpg", "cover.jpeg", "art.JPG"} {
		c := &Cover{Path: path, Data: jpeg, Kind: CoverJPEG}
		assert.NoError(t, c.Validate(), path)
	}
}

func TestUnknownCoverKindAlwaysFails(t *testing.T) {
	c := &Cover{Path: "cover.png", Data: pngData, Kind: CoverUnknown}
	assert.ErrorIs(t, c.Validate(), ErrUnknownCoverType)
	assert.ErrorIs(t, c.Validate(), ErrInvalidCover)
	assert.Contains(t, c.Validate().Error(), "playlist cover has an unknown type")
}

func TestCoverKindHelpers(t *testing.T) {
	assert.Equal(t, CoverPNG, KindForExtension("png"))
	assert.Equal(t, CoverJPEG, KindForExtension("jpg"))
	assert.Equal(t, CoverJPEG, KindForExtension("jpeg"))
	assert.Equal(t, CoverUnknown, KindForExtension("gif"))

	assert.True(t, CoverJPEG.MatchesExtension("jpeg"))
	assert.False(t, CoverPNG.MatchesExtension("jpg"))
	assert.False(t, CoverUnknown.MatchesExtension(""))

	assert.Equal(t, "cover.png", CoverPNG.FileName())
	assert.Equal(t, "cover.jpg", CoverJPEG.FileName())
	assert.Equal(t, "", CoverUnknown.FileName())
	assert.Nil(t, CoverUnknown.Signature())

	assert.Equal(t, CoverPNG, SniffCoverKind(pngData))
	assert.Equal(t, CoverJPEG, SniffCoverKind([]byte{0xFF, 0xD8, 0xFF}))
	assert.Equal(t, CoverUnknown, SniffCoverKind([]byte("GIF89a")))
	assert.Equal(t, CoverUnknown, SniffCoverKind(nil))
}
