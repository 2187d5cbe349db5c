package codec

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"
)

// Format identifies the source container of a decoded image.
type Format string

const (
	FormatGIF  Format = "gif"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

var (
	// ErrUnreadable means the input could not be opened or is not a
	// decodable image container.
	ErrUnreadable = errors.New("unreadable image file")
	// ErrNoSuchFrame means a frame index beyond the end of the container
	// was requested. Frame iteration treats it as end-of-sequence.
	ErrNoSuchFrame = errors.New("no such frame")
	// ErrEncode means the WebP output could not be produced.
	ErrEncode = errors.New("webp encode failed")
	// ErrClosed means the handle was used after Close.
	ErrClosed = errors.New("handle is closed")
)

// defaultFrameDuration is used when the container carries no timing
// for the current frame.
const defaultFrameDuration = 100 * time.Millisecond

// Handle is a decoded source image with a frame cursor. GIF inputs keep
// the full frame sequence; JPEG and PNG inputs hold a single frame.
// A Handle belongs to one conversion and must be closed on every path.
type Handle struct {
	format Format
	gif    *gif.GIF    // nil unless format is FormatGIF
	img    image.Image // nil unless format is a single-frame format
	pos    int
	closed bool
}

// Decode opens and decodes the image at path. The file itself is read
// and released before Decode returns; Close frees the decoded frames.
func Decode(path string) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, ErrUnreadable, err)
	}
	defer f.Close()

	_, name, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", path, ErrUnreadable, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", path, ErrUnreadable, err)
	}

	switch name {
	case "gif":
		g, err := gif.DecodeAll(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w: %v", path, ErrUnreadable, err)
		}
		if len(g.Image) == 0 {
			return nil, fmt.Errorf("decode %s: %w: container has no frames", path, ErrUnreadable)
		}
		return &Handle{format: FormatGIF, gif: g}, nil
	case "jpeg", "png":
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w: %v", path, ErrUnreadable, err)
		}
		return &Handle{format: Format(name), img: img}, nil
	default:
		return nil, fmt.Errorf("decode %s: %w: unsupported format %q", path, ErrUnreadable, name)
	}
}

// Format returns the source container format.
func (h *Handle) Format() Format {
	return h.format
}

// FrameCount returns the number of frames in the container.
func (h *Handle) FrameCount() int {
	if h.gif != nil {
		return len(h.gif.Image)
	}
	if h.img != nil {
		return 1
	}
	return 0
}

// Seek moves the frame cursor to index i. Out-of-range indexes return
// ErrNoSuchFrame and leave the cursor unchanged.
func (h *Handle) Seek(i int) error {
	if h.closed {
		return ErrClosed
	}
	if i < 0 || i >= h.FrameCount() {
		return fmt.Errorf("seek frame %d of %d: %w", i, h.FrameCount(), ErrNoSuchFrame)
	}
	h.pos = i
	return nil
}

// FrameDuration returns the display duration of the current frame,
// falling back to 100ms when the container does not specify one.
// GIF delays are stored in centiseconds.
func (h *Handle) FrameDuration() time.Duration {
	if h.gif == nil || h.pos >= len(h.gif.Delay) {
		return defaultFrameDuration
	}
	if d := h.gif.Delay[h.pos]; d > 0 {
		return time.Duration(d) * 10 * time.Millisecond
	}
	return defaultFrameDuration
}

// LoopCount returns the container's animation loop count; 0 means loop
// forever. A GIF without a NETSCAPE block decodes as -1, which counts
// as "unspecified" and maps to the 0 fallback.
func (h *Handle) LoopCount() int {
	if h.gif == nil || h.gif.LoopCount < 0 {
		return 0
	}
	return h.gif.LoopCount
}

// FirstFrame returns frame 0. For GIF the frame is composited onto a
// blank canvas so sub-rectangle frames keep their offset; other formats
// return the decoded image directly.
func (h *Handle) FirstFrame() (image.Image, error) {
	if h.closed {
		return nil, ErrClosed
	}
	if h.gif == nil {
		return h.img, nil
	}
	w, ht := h.canvasSize()
	canvas := image.NewNRGBA(image.Rect(0, 0, w, ht))
	frame := h.gif.Image[0]
	draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	return canvas, nil
}

// canvasSize returns the logical screen size of a GIF, falling back to
// the first frame's bounds when the header omits it.
func (h *Handle) canvasSize() (int, int) {
	w, ht := h.gif.Config.Width, h.gif.Config.Height
	if w == 0 || ht == 0 {
		b := h.gif.Image[0].Bounds()
		w, ht = b.Dx(), b.Dy()
	}
	return w, ht
}

// Close releases the decoded frames. It is safe to call more than once.
func (h *Handle) Close() error {
	h.closed = true
	h.gif = nil
	h.img = nil
	return nil
}
