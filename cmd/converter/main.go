// Command converter batch-converts the GIF, JPEG and PNG files of a
// directory tree into WebP, preserving GIF animation.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"webpConverter/batch"
	"webpConverter/config"
	"webpConverter/converter"
	"webpConverter/finder"
	"webpConverter/report"
)

func main() {
	cmd, err := newCommand()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() (*cli.Command, error) {
	defaults, err := config.LoadDefaults()
	if err != nil {
		return nil, err
	}

	return &cli.Command{
		Name:  "converter",
		Usage: "Convert images (GIF/JPG/PNG) to WebP format (preserves GIF animation)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input directory containing image files",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory for WebP files (default: same as input)",
			},
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Image type to convert: gif, jpg, png or all",
				Value:   string(finder.KindAll),
			},
			&cli.IntFlag{
				Name:    "quality",
				Aliases: []string{"q"},
				Usage:   "Quality for lossy compression (0-100)",
				Value:   defaults.Quality,
			},
			&cli.BoolFlag{
				Name:    "lossless",
				Aliases: []string{"l"},
				Usage:   "Use lossless compression",
			},
			&cli.IntFlag{
				Name:    "method",
				Aliases: []string{"m"},
				Usage:   "Compression method (0-6, higher=slower but smaller)",
				Value:   defaults.Method,
			},
			&cli.BoolFlag{
				Name:    "recursive",
				Aliases: []string{"r"},
				Usage:   "Process subdirectories recursively",
			},
			&cli.BoolFlag{
				Name:    "delete-original",
				Aliases: []string{"d"},
				Usage:   "Delete original image files after successful conversion",
			},
			&cli.BoolFlag{
				Name:  "no-animation",
				Usage: "Convert animated GIFs to static WebP (first frame only)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of files converted in parallel",
				Value: defaults.Workers,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Verbose structured logging on stderr",
			},
		},
		Action: action,
	}, nil
}

func action(ctx context.Context, c *cli.Command) error {
	opts := config.Options{
		InputDir:       c.String("input"),
		OutputDir:      c.String("output"),
		Type:           finder.Kind(c.String("type")),
		Recursive:      c.Bool("recursive"),
		DeleteOriginal: c.Bool("delete-original"),
		Workers:        int(c.Int("workers")),
		Settings: config.Settings{
			Quality:           int(c.Int("quality")),
			Lossless:          c.Bool("lossless"),
			Method:            int(c.Int("method")),
			PreserveAnimation: !c.Bool("no-animation"),
		},
	}
	if opts.OutputDir == "" {
		opts.OutputDir = opts.InputDir
	}
	if err := opts.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	logger := newLogger(c.Bool("verbose"))
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.New().String()))

	files, err := finder.Find(opts.InputDir, opts.Type, opts.Recursive)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	console := report.NewConsole(os.Stdout)
	if len(files) == 0 {
		console.NoFiles(opts.Type)
		return nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return cli.Exit(fmt.Sprintf("Error: failed to create output directory: %v", err), 1)
	}

	console.Banner(len(files), opts)

	runner := batch.NewRunner(converter.New(logger), console, logger, opts)
	summary := runner.Run(ctx, files)
	console.Summary(summary)

	// Per-file failures are already reported individually; only
	// configuration problems make the run itself fail.
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, _ := cfg.Build()
	return logger
}
