package batch

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"

	"webpConverter/config"
	"webpConverter/converter"
)

// Reporter receives per-file progress events. Implementations must be
// safe for concurrent use when the runner has more than one worker.
type Reporter interface {
	Converted(inputPath, outputPath string, animated bool, originalSize, newSize int64)
	Failed(inputPath string, err error)
	Deleted(inputPath string)
	DeleteWarning(inputPath string, err error)
}

// Summary tallies one finished run.
type Summary struct {
	Converted int
	Failed    int
	Animated  int
	Static    int
}

// Replaced in tests to exercise the deletion-warning path.
var removeFunc = os.Remove

// Runner drives a batch of conversions. Each file is converted
// independently; a failed file is reported and the batch moves on.
type Runner struct {
	conv     *converter.Converter
	reporter Reporter
	logger   *zap.Logger
	opts     config.Options
}

func NewRunner(conv *converter.Converter, reporter Reporter, logger *zap.Logger, opts config.Options) *Runner {
	return &Runner{
		conv:     conv,
		reporter: reporter,
		logger:   logger,
		opts:     opts,
	}
}

// Run converts every file in files and returns the tally. Conversions
// share no state, so they are fanned out over the configured number of
// workers.
func (r *Runner) Run(ctx context.Context, files []string) Summary {
	pool := newWorkerPool(r.opts.Workers)

	var mu sync.Mutex
	var sum Summary

	for _, path := range files {
		pool.Submit(ctx, path, func(ctx context.Context, path string) {
			animated, err := r.processFile(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sum.Failed++
				return
			}
			sum.Converted++
			if animated {
				sum.Animated++
			} else {
				sum.Static++
			}
		})
	}

	pool.Wait()
	return sum
}

func (r *Runner) processFile(path string) (animated bool, err error) {
	res, err := r.conv.Convert(path, r.opts.OutputDir, r.opts.Settings)
	if err != nil {
		r.reporter.Failed(path, err)
		return false, err
	}

	r.reporter.Converted(path, res.OutputPath, res.IsAnimated, fileSize(path), fileSize(res.OutputPath))

	if r.opts.DeleteOriginal {
		if err := removeFunc(path); err != nil {
			// Non-fatal: the conversion itself succeeded.
			r.logger.Warn("Failed to delete original file",
				zap.String("path", path),
				zap.Error(err),
			)
			r.reporter.DeleteWarning(path, err)
		} else {
			r.reporter.Deleted(path)
		}
	}

	return res.IsAnimated, nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
