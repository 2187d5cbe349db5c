package codec

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"time"

	"github.com/disintegration/imaging"
)

// Frame is one still image of a sequence plus its display duration.
type Frame struct {
	Image    *image.NRGBA
	Duration time.Duration
}

// FrameSequence is an ordered run of frames; insertion order is display
// order. LoopCount follows the GIF convention: 0 means loop forever.
type FrameSequence struct {
	Frames    []Frame
	LoopCount int
}

// IsAnimated reports whether the container holds more than one frame.
// It probes frame 1 and restores the cursor to frame 0 on both
// branches, so callers always see a freshly-positioned handle. Only GIF
// supports multiple frames here; other formats are single-frame by
// definition and skip the probe.
func IsAnimated(h *Handle) bool {
	if h.format != FormatGIF {
		return false
	}
	animated := h.Seek(1) == nil
	_ = h.Seek(0)
	return animated
}

// ExtractAll walks every frame of a multi-frame handle starting at
// frame 0. Each GIF frame is composited onto a persistent canvas,
// honoring the frame's disposal method, and captured as an independent
// alpha-capable copy together with its duration. The loop count is read
// once from the container. Running out of frames terminates the walk
// normally; it is not an error.
func ExtractAll(h *Handle) (*FrameSequence, error) {
	if h.closed {
		return nil, ErrClosed
	}
	if h.gif == nil {
		return nil, fmt.Errorf("extract frames: %s is not a multi-frame container", h.format)
	}
	if err := h.Seek(0); err != nil {
		return nil, err
	}

	g := h.gif
	w, ht := h.canvasSize()
	canvas := image.NewNRGBA(image.Rect(0, 0, w, ht))
	seq := &FrameSequence{
		Frames:    make([]Frame, 0, len(g.Image)),
		LoopCount: h.LoopCount(),
	}

	for {
		frame := g.Image[h.pos]
		b := frame.Bounds()

		var disposal byte
		if h.pos < len(g.Disposal) {
			disposal = g.Disposal[h.pos]
		}

		// The region must be saved before compositing so
		// DisposalPrevious can roll the canvas back afterwards.
		var saved []uint8
		if disposal == gif.DisposalPrevious {
			saved = saveRect(canvas, b)
		}

		draw.Draw(canvas, b, frame, b.Min, draw.Over)

		// imaging.Clone snapshots the canvas into a fresh NRGBA buffer.
		// The canvas is reused across iterations, so skipping the copy
		// would leave every captured frame aliasing the last one drawn.
		seq.Frames = append(seq.Frames, Frame{
			Image:    imaging.Clone(canvas),
			Duration: h.FrameDuration(),
		})

		switch disposal {
		case gif.DisposalBackground:
			clearRect(canvas, b)
		case gif.DisposalPrevious:
			restoreRect(canvas, b, saved)
		}

		if err := h.Seek(h.pos + 1); err != nil {
			if errors.Is(err, ErrNoSuchFrame) {
				break // end of sequence
			}
			return nil, err
		}
	}

	return seq, nil
}

func saveRect(canvas *image.NRGBA, r image.Rectangle) []uint8 {
	r = r.Intersect(canvas.Bounds())
	saved := make([]uint8, 0, r.Dx()*r.Dy()*4)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		o := canvas.PixOffset(r.Min.X, y)
		saved = append(saved, canvas.Pix[o:o+r.Dx()*4]...)
	}
	return saved
}

func restoreRect(canvas *image.NRGBA, r image.Rectangle, saved []uint8) {
	r = r.Intersect(canvas.Bounds())
	row := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		o := canvas.PixOffset(r.Min.X, y)
		copy(canvas.Pix[o:o+row], saved[(y-r.Min.Y)*row:])
	}
}

func clearRect(canvas *image.NRGBA, r image.Rectangle) {
	r = r.Intersect(canvas.Bounds())
	row := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		o := canvas.PixOffset(r.Min.X, y)
		clear(canvas.Pix[o : o+row])
	}
}
