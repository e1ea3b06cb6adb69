// file: internal/fileops/hash_test.go
// version: 2.0.0
// guid: 2b3c4d5e-6f7a-8b9c-0d1e-2f3a4b5c6d7e

package fileops_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/blist/internal/archive"
	"github.com/jdfalk/blist/internal/fileops"
	"github.com/jdfalk/blist/internal/testutil"
)

func TestDigestFileOfContainer(t *testing.T) {
	data, err := archive.Encode(testutil.SamplePlaylist(t))
	require.NoError(t, err)
	path := testutil.WriteFile(t, t.TempDir(), "sample.blist", data)

	d, err := fileops.DigestFile(path)
	require.NoError(t, err)

	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), d.SHA256)
	assert.Equal(t, int64(len(data)), d.Size)

	fromReader, err := fileops.DigestReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, d, fromReader)
}

func TestDigestChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	one := testutil.WriteFile(t, dir, "one.bplist", []byte(`{"playlistTitle": "one"}`))
	two := testutil.WriteFile(t, dir, "two.bplist", []byte(`{"playlistTitle": "two"}`))
	same := testutil.WriteFile(t, dir, "same.bplist", []byte(`{"playlistTitle": "one"}`))

	d1, err := fileops.DigestFile(one)
	require.NoError(t, err)
	d2, err := fileops.DigestFile(two)
	require.NoError(t, err)
	d3, err := fileops.DigestFile(same)
	require.NoError(t, err)

	assert.NotEqual(t, d1.SHA256, d2.SHA256)
	assert.Equal(t, d1, d3)
}

func TestDigestEmptyFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "empty.bplist", nil)

	d, err := fileops.DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", d.SHA256)
	assert.Zero(t, d.Size)
}

func TestDigestFileErrors(t *testing.T) {
	_, err := fileops.DigestFile(filepath.Join(t.TempDir(), "missing.blist"))
	assert.Error(t, err)

	_, err = fileops.DigestFile(t.TempDir())
	assert.Error(t, err)
}
