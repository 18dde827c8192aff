// Package formats provides codecs for terrain heightmaps and paint outputs.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	gomath "math"
	"os"
)

// Heightmap format errors.
var (
	ErrTruncatedHeightmap   = errors.New("truncated heightmap data")
	ErrHeightmapSize        = errors.New("heightmap size does not match data")
	ErrUnsupportedHeightmap = errors.New("unsupported heightmap format")
)

// MaxHeightmapSide bounds either side of a heightmap.
const MaxHeightmapSide = 8193

// HeightmapFormat names an on-disk heightmap encoding.
type HeightmapFormat string

// Supported heightmap formats. RAW16 is the little-endian 16-bit layout
// terrain editors export by default.
const (
	RAW16   HeightmapFormat = "raw16"
	RAW16BE HeightmapFormat = "raw16be"
	RAW8    HeightmapFormat = "raw8"
	PNG     HeightmapFormat = "png"
)

// bytesPerSample returns the sample size of a raw format.
func (f HeightmapFormat) bytesPerSample() (int, error) {
	switch f {
	case RAW16, RAW16BE:
		return 2, nil
	case RAW8:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedHeightmap, string(f))
	}
}

// RawHeightmap is a grid of unsigned height samples, row-major by z.
type RawHeightmap struct {
	Width   int
	Height  int
	Depth   int // bits per sample: 8 or 16
	Samples []uint16
}

// MaxSample returns the largest value a sample can hold.
func (h *RawHeightmap) MaxSample() uint16 {
	if h.Depth == 8 {
		return gomath.MaxUint8
	}
	return gomath.MaxUint16
}

// At returns the sample at (x, z).
func (h *RawHeightmap) At(x, z int) uint16 {
	return h.Samples[z*h.Width+x]
}

// Normalized returns the samples scaled to [0, 1].
func (h *RawHeightmap) Normalized() []float32 {
	out := make([]float32, len(h.Samples))
	max := float32(h.MaxSample())
	for i, s := range h.Samples {
		out[i] = float32(s) / max
	}
	return out
}

// Range returns the minimum and maximum sample.
func (h *RawHeightmap) Range() (min, max uint16) {
	if len(h.Samples) == 0 {
		return 0, 0
	}
	min, max = h.Samples[0], h.Samples[0]
	for _, s := range h.Samples {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return min, max
}

// ParseRAW parses a headerless raw heightmap. A width of 0 assumes a square map.
func ParseRAW(data []byte, width int, format HeightmapFormat) (*RawHeightmap, error) {
	bps, err := format.bytesPerSample()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrTruncatedHeightmap
	}
	if len(data)%bps != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of samples", ErrTruncatedHeightmap, len(data))
	}

	count := len(data) / bps
	if width == 0 {
		width = int(gomath.Sqrt(float64(count)))
		if width*width != count {
			return nil, fmt.Errorf("%w: %d samples is not a square map", ErrHeightmapSize, count)
		}
	}
	if width < 0 || count%width != 0 {
		return nil, fmt.Errorf("%w: %d samples with width %d", ErrHeightmapSize, count, width)
	}
	height := count / width
	if width > MaxHeightmapSide || height > MaxHeightmapSide {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrHeightmapSize, width, height, MaxHeightmapSide)
	}

	h := &RawHeightmap{
		Width:   width,
		Height:  height,
		Depth:   bps * 8,
		Samples: make([]uint16, count),
	}

	switch format {
	case RAW8:
		for i, b := range data {
			h.Samples[i] = uint16(b)
		}
	case RAW16:
		if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, h.Samples); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncatedHeightmap, err)
		}
	case RAW16BE:
		if err := binary.Read(bytes.NewReader(data), binary.BigEndian, h.Samples); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncatedHeightmap, err)
		}
	}
	return h, nil
}

// EncodeRAW serializes the heightmap in a raw format. 16-bit samples are
// truncated to their high byte for RAW8.
func (h *RawHeightmap) EncodeRAW(format HeightmapFormat) ([]byte, error) {
	if _, err := format.bytesPerSample(); err != nil {
		return nil, err
	}

	switch format {
	case RAW8:
		out := make([]byte, len(h.Samples))
		for i, s := range h.Samples {
			if h.Depth == 16 {
				s >>= 8
			}
			out[i] = byte(s)
		}
		return out, nil
	default:
		order := binary.ByteOrder(binary.LittleEndian)
		if format == RAW16BE {
			order = binary.BigEndian
		}
		buf := new(bytes.Buffer)
		buf.Grow(len(h.Samples) * 2)
		for _, s := range h.Samples {
			if h.Depth == 8 {
				s = s<<8 | s
			}
			var b [2]byte
			order.PutUint16(b[:], s)
			buf.Write(b[:])
		}
		return buf.Bytes(), nil
	}
}

// LoadHeightmap reads a heightmap file in the given format. width is only
// used by raw formats.
func LoadHeightmap(path string, format HeightmapFormat, width int) (*RawHeightmap, error) {
	if format == PNG {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening heightmap: %w", err)
		}
		defer f.Close()
		return DecodePNGHeightmap(f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading heightmap: %w", err)
	}
	return ParseRAW(data, width, format)
}
