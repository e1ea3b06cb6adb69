// file: internal/config/persistence.go
// version: 2.0.0
// guid: 9c8d7e6f-5a4b-3c2d-1e0f-9a8b7c6d5e4f

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the file looked up in the home directory
const DefaultConfigName = ".blist.yaml"

// fileConfig mirrors Config with the viper key names
type fileConfig struct {
	Workers            int      `yaml:"workers"`
	PreserveCustomData bool     `yaml:"preserve_custom_data"`
	ExitOnError        bool     `yaml:"exit_on_error"`
	DeleteConverted    bool     `yaml:"delete_converted"`
	Verbose            bool     `yaml:"verbose"`
	ImageEncoding      string   `yaml:"image_encoding"`
	Extension          string   `yaml:"extension"`
	MetricsFile        string   `yaml:"metrics_file,omitempty"`
	WatchDebounce      string   `yaml:"watch_debounce"`
	LegacyExtensions   []string `yaml:"legacy_extensions"`
}

// ConfigFilePath returns the config file in use, or the default location
// in the home directory when none was loaded.
func ConfigFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultConfigName)
}

// LoadConfigFile reads path into viper and refreshes AppConfig. A missing
// file is not an error.
func LoadConfigFile(path string) error {
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	log.Printf("[INFO] Using config file %s", viper.ConfigFileUsed())
	InitConfig()
	return nil
}

// MarshalYAML renders the current configuration as a config file
func MarshalYAML() ([]byte, error) {
	fc := fileConfig{
		Workers:            AppConfig.Workers,
		PreserveCustomData: AppConfig.PreserveCustomData,
		ExitOnError:        AppConfig.ExitOnError,
		DeleteConverted:    AppConfig.DeleteConverted,
		Verbose:            AppConfig.Verbose,
		ImageEncoding:      AppConfig.ImageEncoding,
		Extension:          AppConfig.Extension,
		MetricsFile:        AppConfig.MetricsFile,
		WatchDebounce:      AppConfig.WatchDebounce.String(),
		LegacyExtensions:   AppConfig.LegacyExtensions,
	}
	data, err := yaml.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveConfigToFile writes the current configuration to path. An existing
// file is only replaced when overwrite is set.
func SaveConfigToFile(path string, overwrite bool) error {
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}

	data, err := MarshalYAML()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("config file %s already exists", path)
		}
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Printf("[INFO] Configuration saved to file: %s", path)
	return nil
}
