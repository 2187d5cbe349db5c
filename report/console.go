// Package report prints per-file progress and the run summary to the
// terminal. Structured logs are the converter's concern; this is the
// operator-facing output.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"

	"webpConverter/batch"
	"webpConverter/config"
	"webpConverter/finder"
)

// Console writes human-readable progress lines. Safe for concurrent
// use; each event is printed atomically.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	ok   *color.Color
	fail *color.Color
	warn *color.Color
}

func NewConsole(out io.Writer) *Console {
	return &Console{
		out:  out,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
		warn: color.New(color.FgYellow),
	}
}

// Banner prints the found-file count and the effective settings.
func (c *Console) Banner(count int, opts config.Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "Found %d %s file(s) to convert\n", count, strings.ToUpper(string(opts.Type)))
	fmt.Fprintf(c.out, "Settings: quality=%d, lossless=%v, method=%d, preserve_animation=%v\n",
		opts.Quality, opts.Lossless, opts.Method, opts.PreserveAnimation)
	if opts.Type == finder.KindGIF || opts.Type == finder.KindAll {
		fmt.Fprintln(c.out, "Note: GIF animations will be preserved unless --no-animation is used")
	}
	fmt.Fprintln(c.out)
}

// NoFiles prints the empty-scan message.
func (c *Console) NoFiles(kind finder.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "No %s files found in the specified directory.\n", strings.ToUpper(string(kind)))
}

// Converted reports one successful conversion with its size change.
func (c *Console) Converted(inputPath, outputPath string, animated bool, originalSize, newSize int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s Converted (%s): %s -> %s\n",
		c.ok.Sprint("✓"), fileTag(inputPath, animated), filepath.Base(inputPath), filepath.Base(outputPath))
	if originalSize > 0 {
		change := (1 - float64(newSize)/float64(originalSize)) * 100
		fmt.Fprintf(c.out, "  Size: %d bytes -> %d bytes (%+.1f%% change)\n", originalSize, newSize, change)
	}
}

// Failed reports one failed conversion.
func (c *Console) Failed(inputPath string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s Failed to convert %s: %v\n", c.fail.Sprint("✗"), filepath.Base(inputPath), err)
}

// Deleted confirms removal of the original file.
func (c *Console) Deleted(inputPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, "  Deleted original file")
}

// DeleteWarning reports a failed removal of the original file.
func (c *Console) DeleteWarning(inputPath string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "  %s\n", c.warn.Sprintf("Warning: Failed to delete original file: %v", err))
}

// Summary prints the final tally block.
func (c *Console) Summary(s batch.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := strings.Repeat("=", 60)
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, line)
	fmt.Fprintln(c.out, "Conversion complete!")
	fmt.Fprintf(c.out, "Success: %d (Animated: %d, Static: %d)\n", s.Converted, s.Animated, s.Static)
	fmt.Fprintf(c.out, "Errors: %d\n", s.Failed)
	fmt.Fprintln(c.out, line)
}

// fileTag is the display tag for one input: its extension, with jpeg
// normalized to jpg, prefixed with "animated" for multi-frame sources.
func fileTag(inputPath string, animated bool) string {
	tag := strings.TrimPrefix(strings.ToLower(filepath.Ext(inputPath)), ".")
	if tag == "jpeg" {
		tag = "jpg"
	}
	if animated {
		return "animated " + tag
	}
	return tag
}
