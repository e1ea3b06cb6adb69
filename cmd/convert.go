// file: cmd/convert.go
// version: 1.1.0
// guid: 2d8f6a3e-91c4-4b75-8e0a-c5f3b7d1e924

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/jdfalk/blist/internal/config"
	"github.com/jdfalk/blist/internal/converter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert GLOB...",
		Short: "Convert legacy playlists into containers",
		Long: `Convert legacy JSON playlists matching each GLOB into .blist containers
written next to the source files. Existing containers are never replaced.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noCustom, _ := cmd.Flags().GetBool("no-custom-data"); noCustom {
				config.AppConfig.PreserveCustomData = false
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runConvert(ctx, cmd, args)
		},
	}

	cmd.Flags().Bool("no-custom-data", false, "drop fields outside the legacy schema instead of keeping them as custom data")
	cmd.Flags().Bool("exit-on-error", false, "stop at the first failed conversion")
	cmd.Flags().Bool("delete-converted", false, "remove each legacy file after it has been converted")
	cmd.Flags().Int("workers", 0, "number of files converted in parallel (default: number of CPUs)")
	cmd.Flags().String("image-encoding", "auto", "legacy image encoding: auto, base64 or datauri")

	viper.BindPFlag("exit_on_error", cmd.Flags().Lookup("exit-on-error"))
	viper.BindPFlag("delete_converted", cmd.Flags().Lookup("delete-converted"))
	viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	viper.BindPFlag("image_encoding", cmd.Flags().Lookup("image-encoding"))

	return cmd
}

func converterOptions() converter.Options {
	return converter.Options{
		PreserveCustomData: config.AppConfig.PreserveCustomData,
		ExitOnError:        config.AppConfig.ExitOnError,
		DeleteConverted:    config.AppConfig.DeleteConverted,
		Verbose:            config.AppConfig.Verbose,
		Workers:            config.AppConfig.Workers,
		ImageEncoding:      config.AppConfig.ImageEncodingValue(),
		Extension:          config.AppConfig.Extension,
	}
}

func runConvert(ctx context.Context, cmd *cobra.Command, patterns []string) error {
	out := cmd.OutOrStdout()

	// Step 1: expand every pattern, keeping the first occurrence of a file
	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := converter.ExpandGlob(pattern)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no files match %s\n", pattern)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				paths = append(paths, match)
			}
		}
	}

	// Step 2: convert
	opts := converterOptions()
	if opts.Verbose {
		fmt.Fprintf(out, "Converting %d playlists (using %d workers)...\n", len(paths), opts.Workers)
	}
	report, runErr := converter.Run(ctx, paths, opts, converter.ProgressWriter(cmd.ErrOrStderr()))

	// Step 3: report
	fmt.Fprintln(out, report.Summary())
	if err := writeMetrics(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	if runErr != nil {
		if errors.Is(runErr, converter.ErrAborted) {
			return runErr
		}
		return fmt.Errorf("conversion interrupted: %w", runErr)
	}
	// Failed files are in the summary; only an abort changes the exit status
	return nil
}
