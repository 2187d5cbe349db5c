package converter

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"webpConverter/codec"
	"webpConverter/config"
)

// Result describes one finished conversion. IsAnimated reflects the
// source container, not the output: a flattened animated GIF still
// reports true, since the flag describes what the input was.
type Result struct {
	OutputPath string
	IsAnimated bool
}

// Converter turns single image files into WebP. It holds no mutable
// state, so one Converter may serve concurrent conversions as long as
// each call gets its own input and output path.
type Converter struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Converter {
	return &Converter{logger: logger}
}

// Convert decodes inputPath and writes <basename>.webp into outputDir.
// Animated GIF sources keep their frame sequence, per-frame timing and
// loop count unless settings say to flatten, in which case only frame 0
// is written. Errors are local to this one file; the handle is released
// on every path.
func (c *Converter) Convert(inputPath, outputDir string, settings config.Settings) (*Result, error) {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(outputDir, base+".webp")

	c.logger.Info("Starting conversion",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
	)

	h, err := codec.Decode(inputPath)
	if err != nil {
		c.logger.Error("Failed to open image",
			zap.String("path", inputPath),
			zap.Error(err),
		)
		return nil, fmt.Errorf("convert %s: %w", inputPath, err)
	}
	defer h.Close()

	animated := codec.IsAnimated(h)

	if animated && settings.PreserveAnimation {
		seq, err := codec.ExtractAll(h)
		if err != nil {
			c.logger.Error("Failed to extract frames",
				zap.String("path", inputPath),
				zap.Error(err),
			)
			return nil, fmt.Errorf("convert %s: %w", inputPath, err)
		}

		c.logger.Info("Encoding animated WebP",
			zap.Int("frames", len(seq.Frames)),
			zap.Int("loop_count", seq.LoopCount),
		)

		if err := codec.EncodeAnimated(seq, outputPath, settings); err != nil {
			c.logger.Error("Failed to encode animated WebP",
				zap.String("path", outputPath),
				zap.Error(err),
			)
			return nil, fmt.Errorf("convert %s: %w", inputPath, err)
		}

		c.logger.Info("Conversion completed", zap.String("output", outputPath))
		return &Result{OutputPath: outputPath, IsAnimated: true}, nil
	}

	// Static source, or an animated one being flattened to frame 0.
	frame, err := h.FirstFrame()
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", inputPath, err)
	}
	img := codec.Normalize(frame, codec.NeedsAlpha(h))

	if err := codec.EncodeStatic(img, outputPath, settings); err != nil {
		c.logger.Error("Failed to encode WebP",
			zap.String("path", outputPath),
			zap.Error(err),
		)
		return nil, fmt.Errorf("convert %s: %w", inputPath, err)
	}

	c.logger.Info("Conversion completed",
		zap.String("output", outputPath),
		zap.Bool("source_animated", animated),
	)
	return &Result{OutputPath: outputPath, IsAnimated: animated}, nil
}
