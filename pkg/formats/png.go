package formats

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// DecodePNGHeightmap decodes a grayscale (or any) PNG into a 16-bit
// heightmap. Image row y maps to terrain row z.
func DecodePNGHeightmap(r io.Reader) (*RawHeightmap, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap png: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || w > MaxHeightmapSide || h > MaxHeightmapSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrHeightmapSize, w, h)
	}

	out := &RawHeightmap{Width: w, Height: h, Depth: 16, Samples: make([]uint16, w*h)}
	for z := range h {
		for x := range w {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+z)).(color.Gray16)
			out.Samples[z*w+x] = g.Y
		}
	}
	return out, nil
}

// EncodePNGHeightmap writes the heightmap as a 16-bit grayscale PNG.
func EncodePNGHeightmap(w io.Writer, h *RawHeightmap) error {
	img := image.NewGray16(image.Rect(0, 0, h.Width, h.Height))
	for z := range h.Height {
		for x := range h.Width {
			s := h.At(x, z)
			if h.Depth == 8 {
				s = s<<8 | s
			}
			img.SetGray16(x, z, color.Gray16{Y: s})
		}
	}
	return png.Encode(w, img)
}

// SplatLayersPerImage is the number of splat layers packed into one control image.
const SplatLayersPerImage = 4

// EncodeSplatControl writes up to four splat layers starting at first into the
// RGBA channels of a PNG. weights is laid out (z*width+x)*layers+s. Missing
// layers are written as zero; alpha is zero when no fourth layer exists.
func EncodeSplatControl(w io.Writer, width, height, layers, first int, weights []float32) error {
	if len(weights) != width*height*layers {
		return fmt.Errorf("splat weights: got %d values for %dx%dx%d", len(weights), width, height, layers)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for z := range height {
		for x := range width {
			var ch [SplatLayersPerImage]uint8
			for c := range SplatLayersPerImage {
				s := first + c
				if s >= layers {
					break
				}
				ch[c] = unitToByte(weights[(z*width+x)*layers+s])
			}
			img.SetNRGBA(x, z, color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]})
		}
	}
	return png.Encode(w, img)
}

// SplatImageCount returns how many control images hold the given layer count.
func SplatImageCount(layers int) int {
	return (layers + SplatLayersPerImage - 1) / SplatLayersPerImage
}

// EncodeDetailLayer writes detail densities as an 8-bit grayscale PNG.
// Densities are clamped to [0, 255].
func EncodeDetailLayer(w io.Writer, width, height int, density []int) error {
	if len(density) != width*height {
		return fmt.Errorf("detail layer: got %d values for %dx%d", len(density), width, height)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, d := range density {
		if d < 0 {
			d = 0
		}
		if d > 255 {
			d = 255
		}
		img.Pix[i] = uint8(d)
	}
	return png.Encode(w, img)
}

// DecodeDetailLayer reads a grayscale detail PNG back into densities.
func DecodeDetailLayer(r io.Reader) (width, height int, density []int, err error) {
	img, err := png.Decode(r)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decoding detail png: %w", err)
	}
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	density = make([]int, width*height)
	for z := range height {
		for x := range width {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+z)).(color.Gray)
			density[z*width+x] = int(g.Y)
		}
	}
	return width, height, density, nil
}

func unitToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
