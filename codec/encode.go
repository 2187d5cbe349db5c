package codec

import (
	"fmt"
	"image"
	"os"

	"github.com/deepteams/webp"
	"github.com/deepteams/webp/animation"

	"webpConverter/config"
)

// EncodeStatic writes img to path as a single-frame WebP. A failed
// encode removes the partial output file.
func EncodeStatic(img image.Image, path string, settings config.Settings) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w: %v", path, ErrEncode, err)
	}

	opts := webp.DefaultOptions()
	opts.Quality = float32(settings.Quality)
	opts.Lossless = settings.Lossless
	opts.Method = settings.Method

	if err := webp.Encode(out, img, opts); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w: %v", path, ErrEncode, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w: %v", path, ErrEncode, err)
	}
	return nil
}

// EncodeAnimated writes the frame sequence to path as an animated WebP,
// carrying over each frame's duration and the sequence's loop count.
// The animation encoder exposes no effort knob, so Method only applies
// to static encodes.
func EncodeAnimated(seq *FrameSequence, path string, settings config.Settings) error {
	if len(seq.Frames) == 0 {
		return fmt.Errorf("encode %s: %w: empty frame sequence", path, ErrEncode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w: %v", path, ErrEncode, err)
	}

	b := seq.Frames[0].Image.Bounds()
	enc := animation.NewEncoder(out, b.Dx(), b.Dy(), &animation.EncodeOptions{
		LoopCount: seq.LoopCount,
		Quality:   settings.Quality,
		Lossless:  settings.Lossless,
	})

	for i, frame := range seq.Frames {
		if err := enc.AddFrame(frame.Image, frame.Duration); err != nil {
			out.Close()
			os.Remove(path)
			return fmt.Errorf("encode %s frame %d: %w: %v", path, i, ErrEncode, err)
		}
	}
	if err := enc.Close(); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w: %v", path, ErrEncode, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w: %v", path, ErrEncode, err)
	}
	return nil
}
