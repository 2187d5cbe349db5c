package codec

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"testing"
)

// writeGIF encodes one full-canvas 8x8 frame per color, with delays in
// centiseconds matching the GIF wire format.
func writeGIF(t *testing.T, path string, colors []color.RGBA, delays []int, loopCount int) {
	t.Helper()

	g := &gif.GIF{LoopCount: loopCount}
	for i, c := range colors {
		frame := image.NewPaletted(image.Rect(0, 0, 8, 8), color.Palette{c, color.RGBA{0, 0, 0, 255}})
		for p := range frame.Pix {
			frame.Pix[p] = 0
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delays[i])
	}

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test GIF: %v", err)
	}
	defer file.Close()

	if err := gif.EncodeAll(file, g); err != nil {
		t.Fatalf("Failed to encode test GIF: %v", err)
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test PNG: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
}

func writeJPEG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8((x * 255) / width), uint8((y * 255) / height), 128, 255})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test JPEG: %v", err)
	}
	defer file.Close()

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to encode test JPEG: %v", err)
	}
}

var testColors = []color.RGBA{
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
}
