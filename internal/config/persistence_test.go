// file: internal/config/persistence_test.go
// version: 2.0.0
// guid: 5e6f7a8b-9c0d-1e2f-3a4b-5c6d7e8f9a0b

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadConfigFile(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	InitConfig()
	AppConfig.Workers = 7
	AppConfig.ImageEncoding = "base64"
	AppConfig.WatchDebounce = 2 * time.Second

	path := filepath.Join(t.TempDir(), "nested", "blist.yaml")
	require.NoError(t, SaveConfigToFile(path, false))

	resetConfigTestState()
	require.NoError(t, LoadConfigFile(path))

	assert.Equal(t, 7, AppConfig.Workers)
	assert.Equal(t, "base64", AppConfig.ImageEncoding)
	assert.Equal(t, 2*time.Second, AppConfig.WatchDebounce)
	assert.Equal(t, path, ConfigFilePath())
}

func TestSaveConfigToFileRefusesOverwrite(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)
	InitConfig()

	path := filepath.Join(t.TempDir(), "blist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o644))

	err := SaveConfigToFile(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "workers: 2\n", string(data))

	require.NoError(t, SaveConfigToFile(path, true))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "image_encoding: auto")
}

func TestSaveConfigToFileEmptyPath(t *testing.T) {
	if err := SaveConfigToFile("", false); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	if err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Errorf("expected missing config file to be ignored, got %v", err)
	}
	if err := LoadConfigFile(""); err != nil {
		t.Errorf("expected empty path to be ignored, got %v", err)
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [unclosed\n"), 0o644))

	assert.Error(t, LoadConfigFile(path))
}

func TestMarshalYAML(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)
	InitConfig()

	data, err := MarshalYAML()
	require.NoError(t, err)

	out := string(data)
	for _, key := range []string{"workers:", "preserve_custom_data: true", "extension: .blist", "watch_debounce: 500ms", "- .bplist"} {
		assert.True(t, strings.Contains(out, key), "expected %q in:\n%s", key, out)
	}
	assert.NotContains(t, out, "metrics_file")
}
