// file: internal/converter/converter.go
// version: 1.0.0
// guid: 4f9c2a61-d8e3-4b07-a5c2-91e6b0d7f3a8

// Package converter upgrades batches of legacy playlists to containers.
package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jdfalk/blist/internal/archive"
	"github.com/jdfalk/blist/internal/fileops"
	"github.com/jdfalk/blist/internal/legacy"
	"github.com/jdfalk/blist/internal/metrics"
	"github.com/schollz/progressbar/v3"
)

var (
	// ErrAborted is returned by Run when ExitOnError stopped the batch
	ErrAborted = errors.New("conversion aborted")
	// ErrDestinationExists reports a container already present next to the source
	ErrDestinationExists = fileops.ErrDestinationExists
	// ErrAlreadyConverted reports a source that already has the output extension
	ErrAlreadyConverted = errors.New("file already has the container extension")
)

// Options controls a conversion batch
type Options struct {
	PreserveCustomData bool
	ExitOnError        bool
	DeleteConverted    bool
	Verbose            bool
	Workers            int
	ImageEncoding      legacy.ImageEncoding
	Extension          string
}

// DefaultOptions returns single-worker options that keep custom data
func DefaultOptions() Options {
	return Options{
		PreserveCustomData: true,
		Workers:            1,
		ImageEncoding:      legacy.ImageAuto,
		Extension:          archive.Extension,
	}
}

// Result describes the conversion of one file
type Result struct {
	Source      string
	Destination string
	Err         error
	// Reason is the metrics label of the failure, empty on success
	Reason   string
	Duration time.Duration
}

// OK reports whether the conversion succeeded
func (r Result) OK() bool { return r.Err == nil }

// Report aggregates a batch run
type Report struct {
	Results   []Result
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// Summary renders the closing line printed by the CLI
func (r *Report) Summary() string {
	var elapsed string
	if ms := r.Elapsed.Milliseconds(); ms < 1000 {
		elapsed = fmt.Sprintf("%d ms", ms)
	} else {
		elapsed = fmt.Sprintf("%.3f s", r.Elapsed.Seconds())
	}
	noun := "playlists"
	if r.Succeeded == 1 {
		noun = "playlist"
	}
	summary := fmt.Sprintf("Successfully converted %d %s in %s", r.Succeeded, noun, elapsed)
	if r.Failed > 0 {
		summary += fmt.Sprintf(" (%d failed)", r.Failed)
	}
	return summary
}

// ExpandGlob returns the regular files matching pattern in lexical order
func ExpandGlob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
	}
	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, match)
	}
	sort.Strings(files)
	return files, nil
}

// DestinationPath swaps the extension of src for ext
func DestinationPath(src, ext string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ext
}

// ConvertFile converts the legacy playlist at src into a container next
// to it. Existing containers are never overwritten.
func ConvertFile(ctx context.Context, src string, opts Options) Result {
	if opts.Extension == "" {
		opts.Extension = archive.Extension
	}
	start := time.Now()
	res := Result{Source: src, Destination: DestinationPath(src, opts.Extension)}

	metrics.IncConversionStarted()
	res.Reason, res.Err = convert(ctx, src, res.Destination, opts)
	res.Duration = time.Since(start)
	metrics.ObserveConversionDuration(res.Duration)

	if res.Err != nil {
		metrics.IncConversionFailed(res.Reason)
		return res
	}
	metrics.IncConversionCompleted()
	if opts.Verbose {
		log.Printf("[INFO] Converted %s -> %s in %s", src, res.Destination, res.Duration.Round(time.Millisecond))
	}
	return res
}

func convert(ctx context.Context, src, dst string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return metrics.ReasonCanceled, err
	}
	if strings.EqualFold(filepath.Ext(src), opts.Extension) {
		return metrics.ReasonExists, fmt.Errorf("%s: %w", src, ErrAlreadyConverted)
	}

	// Step 1: parse and upgrade
	doc, err := legacy.ReadFile(src)
	if err != nil {
		return metrics.ReasonParse, err
	}
	p, err := doc.Upgrade(legacy.Options{
		PreserveCustomData: opts.PreserveCustomData,
		ImageEncoding:      opts.ImageEncoding,
	})
	if err != nil {
		return metrics.ReasonParse, fmt.Errorf("%s: %w", src, err)
	}

	// Step 2: validate and write exclusively
	if err := archive.WriteFile(dst, p); err != nil {
		reason := metrics.ReasonIO
		switch {
		case errors.Is(err, archive.ErrValidation):
			reason = metrics.ReasonValidation
		case errors.Is(err, ErrDestinationExists):
			reason = metrics.ReasonExists
		}
		return reason, fmt.Errorf("%s: %w", src, err)
	}

	// Step 3: optionally remove the source
	if opts.DeleteConverted {
		if err := fileops.RemoveConverted(src, dst); err != nil {
			return metrics.ReasonIO, fmt.Errorf("%s: %w", src, err)
		}
	}
	return "", nil
}

// Run converts paths with a bounded worker pool. Results keep the order of
// paths; files skipped after an abort are left out. When progress is
// non-nil and the run is not verbose a progress bar is drawn on it.
func Run(parent context.Context, paths []string, opts Options, progress io.Writer) (*Report, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	start := time.Now()
	var bar *progressbar.ProgressBar
	if progress != nil && !opts.Verbose && len(paths) > 0 {
		bar = newProgressBar(progress, len(paths))
	}

	results := make([]Result, len(paths))
	attempted := make([]bool, len(paths))

	var (
		wg        sync.WaitGroup
		abortOnce sync.Once
		firstErr  error
	)
	semaphore := make(chan struct{}, workers)

	for i := range paths {
		// Check context cancellation
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{} // Acquire
			defer func() {
				<-semaphore // Release
				if bar != nil {
					_ = bar.Add(1)
				}
			}()

			if ctx.Err() != nil {
				return
			}
			res := ConvertFile(ctx, paths[idx], opts)
			results[idx] = res
			attempted[idx] = true

			if res.Err != nil {
				log.Printf("[ERROR] %v", res.Err)
				if opts.ExitOnError {
					abortOnce.Do(func() {
						firstErr = res.Err
						cancel()
					})
				}
			}
		}(i)
	}

	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	report := &Report{Elapsed: time.Since(start)}
	for idx := range paths {
		if !attempted[idx] {
			continue
		}
		report.Results = append(report.Results, results[idx])
		if results[idx].OK() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if firstErr != nil {
		return report, fmt.Errorf("%w: %w", ErrAborted, firstErr)
	}
	if err := parent.Err(); err != nil {
		return report, err
	}
	return report, nil
}
