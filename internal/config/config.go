// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/jdfalk/blist/internal/legacy"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. BLIST_WORKERS
const EnvPrefix = "BLIST"

// Config holds application configuration
type Config struct {
	Workers            int
	PreserveCustomData bool
	ExitOnError        bool
	DeleteConverted    bool
	Verbose            bool
	ImageEncoding      string // "auto", "base64" or "datauri"
	Extension          string // container extension written by convert
	MetricsFile        string
	WatchDebounce      time.Duration
	LegacyExtensions   []string // files picked up by watch
}

var AppConfig Config

// SetDefaults registers default values for every key
func SetDefaults() {
	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("preserve_custom_data", true)
	viper.SetDefault("exit_on_error", false)
	viper.SetDefault("delete_converted", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("image_encoding", "auto")
	viper.SetDefault("extension", ".blist")
	viper.SetDefault("metrics_file", "")
	viper.SetDefault("watch_debounce", "500ms")
	viper.SetDefault("legacy_extensions", []string{".bplist", ".json"})
}

// InitConfig initializes the application configuration
func InitConfig() {
	SetDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	AppConfig = Config{
		Workers:            viper.GetInt("workers"),
		PreserveCustomData: viper.GetBool("preserve_custom_data"),
		ExitOnError:        viper.GetBool("exit_on_error"),
		DeleteConverted:    viper.GetBool("delete_converted"),
		Verbose:            viper.GetBool("verbose"),
		ImageEncoding:      viper.GetString("image_encoding"),
		Extension:          viper.GetString("extension"),
		MetricsFile:        viper.GetString("metrics_file"),
		WatchDebounce:      viper.GetDuration("watch_debounce"),
		LegacyExtensions:   append([]string(nil), viper.GetStringSlice("legacy_extensions")...),
	}

	// Normalize
	if AppConfig.Workers < 1 {
		AppConfig.Workers = 1
	}
	if AppConfig.Extension != "" && !strings.HasPrefix(AppConfig.Extension, ".") {
		AppConfig.Extension = "." + AppConfig.Extension
	}
	for i, ext := range AppConfig.LegacyExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		AppConfig.LegacyExtensions[i] = ext
	}
}

// Validate reports settings that cannot be used
func (c *Config) Validate() error {
	if _, err := legacy.ParseImageEncoding(c.ImageEncoding); err != nil {
		return fmt.Errorf("invalid image_encoding: %w", err)
	}
	if c.Extension == "" || c.Extension == "." {
		return fmt.Errorf("invalid extension %q", c.Extension)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("invalid watch_debounce %s", c.WatchDebounce)
	}
	for _, ext := range c.LegacyExtensions {
		if strings.EqualFold(ext, c.Extension) {
			return fmt.Errorf("legacy extension %q matches the output extension", ext)
		}
	}
	return nil
}

// ImageEncodingValue returns the parsed image encoding, falling back to auto
func (c *Config) ImageEncodingValue() legacy.ImageEncoding {
	enc, err := legacy.ParseImageEncoding(c.ImageEncoding)
	if err != nil {
		return legacy.ImageAuto
	}
	return enc
}
