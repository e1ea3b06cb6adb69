// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"os"

	"github.com/jdfalk/blist/internal/config"
	"github.com/jdfalk/blist/internal/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCmd()

// NewRootCmd builds the command tree and binds its flags to viper
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "blist",
		Short: "Convert, validate and inspect playlist containers",
		Long: `blist works with .blist playlist containers: zip archives holding a
playlist.json manifest and an optional cover image.

It converts legacy JSON playlists into containers, validates existing
containers and prints their contents.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.blist.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log every file instead of drawing a progress bar")
	root.PersistentFlags().String("metrics-file", "", "write Prometheus metrics to this textfile when done")

	viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("metrics_file", root.PersistentFlags().Lookup("metrics-file"))

	root.AddCommand(newConvertCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func initConfig() error {
	if cfgFile != "" {
		if err := config.LoadConfigFile(cfgFile); err != nil {
			return err
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".blist")
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	config.InitConfig()
	if err := config.AppConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	metrics.Register()
	return nil
}

// writeMetrics writes the textfile when --metrics-file is set
func writeMetrics() error {
	if config.AppConfig.MetricsFile == "" {
		return nil
	}
	return metrics.WriteTextfile(config.AppConfig.MetricsFile)
}
