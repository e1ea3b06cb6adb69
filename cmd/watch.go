// file: cmd/watch.go
// version: 1.1.0
// guid: 0b7d3e9f-58a1-4c26-b4f7-d92e6a1c8b03

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jdfalk/blist/internal/cache"
	"github.com/jdfalk/blist/internal/config"
	"github.com/jdfalk/blist/internal/converter"
	"github.com/jdfalk/blist/internal/fileops"
	"github.com/jdfalk/blist/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Convert legacy playlists as they appear in a directory",
		Long: `Watch DIR recursively and convert every legacy playlist that is created
or rewritten there. Conversion options are the same as for convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return fmt.Errorf("failed to watch %s: %w", args[0], err)
			}
			if !info.IsDir() {
				return fmt.Errorf("failed to watch %s: not a directory", args[0])
			}
			if noCustom, _ := cmd.Flags().GetBool("no-custom-data"); noCustom {
				config.AppConfig.PreserveCustomData = false
			}
			if del, _ := cmd.Flags().GetBool("delete-converted"); del {
				config.AppConfig.DeleteConverted = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for legacy playlists (Ctrl+C to stop)\n", args[0])
			return runWatch(ctx, cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().Bool("no-custom-data", false, "drop fields outside the legacy schema instead of keeping them as custom data")
	cmd.Flags().Bool("delete-converted", false, "remove each legacy file after it has been converted")
	cmd.Flags().Duration("debounce", 0, "quiet period before a batch of new files is converted (default 500ms)")

	viper.BindPFlag("watch_debounce", cmd.Flags().Lookup("debounce"))

	return cmd
}

// recentAttemptTTL bounds how long an unchanged file is not retried
const recentAttemptTTL = 10 * time.Minute

// runWatch converts batches reported by the watcher until ctx is done
func runWatch(ctx context.Context, out io.Writer, dir string) error {
	opts := converterOptions()
	// A failure in one batch must not stop the watch loop.
	opts.ExitOnError = false

	attempts := cache.New[string](recentAttemptTTL)
	w := watcher.New(func(paths []string) {
		paths = freshPaths(attempts, paths)
		if len(paths) == 0 {
			return
		}
		report, err := converter.Run(ctx, paths, opts, nil)
		if err != nil {
			log.Printf("[WARN] watch: %v", err)
		}
		fmt.Fprintln(out, report.Summary())
		if err := writeMetrics(); err != nil {
			log.Printf("[WARN] watch: %v", err)
		}
	}, config.AppConfig.WatchDebounce, config.AppConfig.LegacyExtensions)
	// A file that is deleted and written again is a new attempt
	w.OnRemove(attempts.Invalidate)

	if err := w.Start(dir); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

// freshPaths drops files whose content was already attempted recently, so
// repeated write events for the same bytes do not repeat a conversion.
func freshPaths(attempts *cache.Cache[string], paths []string) []string {
	fresh := paths[:0:0]
	for _, path := range paths {
		digest, err := fileops.DigestFile(path)
		if err != nil {
			log.Printf("[WARN] watch: skipping %s: %v", path, err)
			continue
		}
		if attempts.Remember(path, digest.SHA256) {
			fresh = append(fresh, path)
		}
	}
	attempts.Prune()
	return fresh
}
