// file: cmd/validate.go
// version: 1.0.0
// guid: 6c1e9b47-3f2a-4d80-b5e6-7a0d4c8f2e31

package cmd

import (
	"fmt"

	"github.com/jdfalk/blist/internal/archive"
	"github.com/jdfalk/blist/internal/metrics"
	"github.com/jdfalk/blist/internal/playlist"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check playlist containers",
		Long: `Read each container and check its manifest, cover and tracks, then
re-encode it and check nothing is lost. The command fails when any file is
invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args)
		},
	}
}

func runValidate(cmd *cobra.Command, files []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, file := range files {
		p, err := archive.ReadFile(file)
		if err == nil {
			err = checkRoundTrip(p)
		}
		metrics.IncContainerValidated(err == nil)
		if err == nil {
			fmt.Fprintf(out, "%s: ok\n", file)
			continue
		}
		failed++
		if field := playlist.FieldPath(err); field != "" {
			fmt.Fprintf(out, "%s: invalid %s: %v\n", file, field, err)
		} else {
			fmt.Fprintf(out, "%s: %v\n", file, err)
		}
	}

	if err := writeMetrics(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d containers are invalid", failed, len(files))
	}
	return nil
}

// checkRoundTrip re-encodes p and reports any difference after decoding
func checkRoundTrip(p *playlist.Playlist) error {
	data, err := archive.Encode(p)
	if err != nil {
		return err
	}
	again, err := archive.Decode(data)
	if err != nil {
		return err
	}
	if !playlist.Equal(p, again) {
		return fmt.Errorf("playlist changes when re-encoded")
	}
	return nil
}
