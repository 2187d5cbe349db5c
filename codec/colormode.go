package codec

import (
	"image"

	"github.com/disintegration/imaging"
)

// NeedsAlpha decides whether frames from h must keep an alpha channel
// when encoded. GIF frames always do (palette transparency is the
// norm), JPEG never does, and PNG keeps alpha only when the decoded
// image actually carries transparency: an explicit alpha channel, a
// palette with a transparent entry, or non-opaque pixels.
func NeedsAlpha(h *Handle) bool {
	switch h.format {
	case FormatGIF:
		return true
	case FormatJPEG:
		return false
	default:
		return hasTransparency(h.img)
	}
}

func hasTransparency(img image.Image) bool {
	switch im := img.(type) {
	case *image.NRGBA, *image.NRGBA64:
		// The decoder only produces these for sources with an explicit
		// alpha channel (including grayscale+alpha PNG).
		return true
	case *image.Paletted:
		for _, c := range im.Palette {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				return true
			}
		}
		return false
	}
	if op, ok := img.(interface{ Opaque() bool }); ok {
		return !op.Opaque()
	}
	return false
}

// Normalize returns an independent NRGBA copy of img in the chosen
// representation: alpha-capable as decoded, or opaque with every pixel
// forced fully solid.
func Normalize(img image.Image, alpha bool) *image.NRGBA {
	dst := imaging.Clone(img)
	if !alpha {
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 0xff
		}
	}
	return dst
}
