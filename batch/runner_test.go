package batch

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"webpConverter/config"
	"webpConverter/converter"
	"webpConverter/finder"
)

type recordingReporter struct {
	mu        sync.Mutex
	converted []string
	failed    []string
	deleted   []string
	warnings  []string
}

func (r *recordingReporter) Converted(inputPath, outputPath string, animated bool, originalSize, newSize int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converted = append(r.converted, inputPath)
}

func (r *recordingReporter) Failed(inputPath string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, inputPath)
}

func (r *recordingReporter) Deleted(inputPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, inputPath)
}

func (r *recordingReporter) DeleteWarning(inputPath string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, inputPath)
}

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, jpeg.Encode(file, img, nil))
}

func writeAnimatedGIF(t *testing.T, path string) {
	t.Helper()
	g := &gif.GIF{}
	for _, c := range []color.RGBA{{255, 0, 0, 255}, {0, 255, 0, 255}} {
		frame := image.NewPaletted(image.Rect(0, 0, 8, 8), color.Palette{c})
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 10)
	}
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, gif.EncodeAll(file, g))
}

func newRunner(t *testing.T, reporter Reporter, opts config.Options) *Runner {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewRunner(converter.New(logger), reporter, logger, opts)
}

func testOptions(outputDir string) config.Options {
	return config.Options{
		OutputDir: outputDir,
		Type:      finder.KindAll,
		Workers:   1,
		Settings: config.Settings{
			Quality:           80,
			Method:            4,
			PreserveAnimation: true,
		},
	}
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.jpg")
	writeJPEG(t, good)
	bad := filepath.Join(dir, "bad.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))
	alsoGood := filepath.Join(dir, "z.jpg")
	writeJPEG(t, alsoGood)

	reporter := &recordingReporter{}
	runner := newRunner(t, reporter, testOptions(dir))

	sum := runner.Run(context.Background(), []string{good, bad, alsoGood})

	assert.Equal(t, 2, sum.Converted)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 2, sum.Static)
	assert.ElementsMatch(t, []string{good, alsoGood}, reporter.converted)
	assert.Equal(t, []string{bad}, reporter.failed)
}

func TestRun_TalliesAnimated(t *testing.T) {
	dir := t.TempDir()
	anim := filepath.Join(dir, "anim.gif")
	writeAnimatedGIF(t, anim)
	still := filepath.Join(dir, "still.jpg")
	writeJPEG(t, still)

	reporter := &recordingReporter{}
	runner := newRunner(t, reporter, testOptions(dir))

	sum := runner.Run(context.Background(), []string{anim, still})

	assert.Equal(t, 2, sum.Converted)
	assert.Equal(t, 1, sum.Animated)
	assert.Equal(t, 1, sum.Static)
}

func TestRun_DeleteOriginal(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.jpg")
	writeJPEG(t, input)

	reporter := &recordingReporter{}
	opts := testOptions(dir)
	opts.DeleteOriginal = true
	runner := newRunner(t, reporter, opts)

	sum := runner.Run(context.Background(), []string{input})

	assert.Equal(t, 1, sum.Converted)
	assert.Equal(t, []string{input}, reporter.deleted)
	_, err := os.Stat(input)
	assert.True(t, os.IsNotExist(err), "original should be gone")
	_, err = os.Stat(filepath.Join(dir, "photo.webp"))
	assert.NoError(t, err, "output should remain")
}

func TestRun_DeleteFailureIsWarning(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.jpg")
	writeJPEG(t, input)

	orig := removeFunc
	removeFunc = func(string) error { return errors.New("permission denied") }
	t.Cleanup(func() { removeFunc = orig })

	reporter := &recordingReporter{}
	opts := testOptions(dir)
	opts.DeleteOriginal = true
	runner := newRunner(t, reporter, opts)

	sum := runner.Run(context.Background(), []string{input})

	// A failed deletion does not change the conversion tally.
	assert.Equal(t, 1, sum.Converted)
	assert.Equal(t, 0, sum.Failed)
	assert.Equal(t, []string{input}, reporter.warnings)
	assert.Empty(t, reporter.deleted)
}

func TestRun_ParallelWorkers(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"} {
		path := filepath.Join(dir, name)
		writeJPEG(t, path)
		files = append(files, path)
	}

	reporter := &recordingReporter{}
	opts := testOptions(dir)
	opts.Workers = 4
	runner := newRunner(t, reporter, opts)

	sum := runner.Run(context.Background(), files)

	assert.Equal(t, 5, sum.Converted)
	assert.Equal(t, 0, sum.Failed)
	assert.Len(t, reporter.converted, 5)
}
