package terrain

import (
	gomath "math"

	"github.com/Faultbox/terrain-painter/pkg/formats"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// Heightmap is a grid of normalized heights in [0, 1], row-major by z.
type Heightmap struct {
	Width  int
	Height int
	Values []float32 // [z*Width+x]
}

// BuildHeightmap creates a normalized heightmap from raw samples.
func BuildHeightmap(raw *formats.RawHeightmap) *Heightmap {
	return &Heightmap{
		Width:  raw.Width,
		Height: raw.Height,
		Values: raw.Normalized(),
	}
}

// FlatHeightmap returns a width x height heightmap filled with v.
func FlatHeightmap(width, height int, v float32) *Heightmap {
	values := make([]float32, width*height)
	for i := range values {
		values[i] = v
	}
	return &Heightmap{Width: width, Height: height, Values: values}
}

// At returns the height at (x, z), clamping coordinates to the grid.
func (h *Heightmap) At(x, z int) float32 {
	x = clampi(x, 0, h.Width-1)
	z = clampi(z, 0, h.Height-1)
	return h.Values[z*h.Width+x]
}

// Interpolated returns the bilinearly interpolated height at a normalized
// position. Positions outside [0, 1] are clamped to the edge.
func (h *Heightmap) Interpolated(nx, nz float32) float32 {
	if len(h.Values) == 0 {
		return 0
	}

	fx := clampf(nx, 0, 1) * float32(h.Width-1)
	fz := clampf(nz, 0, 1) * float32(h.Height-1)

	cellX := int(fx)
	cellZ := int(fz)
	if cellX >= h.Width-1 {
		cellX = max(h.Width-2, 0)
	}
	if cellZ >= h.Height-1 {
		cellZ = max(h.Height-2, 0)
	}

	fracX := clampf(fx-float32(cellX), 0, 1)
	fracZ := clampf(fz-float32(cellZ), 0, 1)

	// South edge (lower z) then north edge, then lerp across z
	south := h.At(cellX, cellZ)*(1-fracX) + h.At(cellX+1, cellZ)*fracX
	north := h.At(cellX, cellZ+1)*(1-fracX) + h.At(cellX+1, cellZ+1)*fracX
	return south*(1-fracZ) + north*fracZ
}

// Gradient returns the height change per world unit along x and z at a
// normalized position, for a terrain of the given world size. Central
// differences one sample apart are used, narrowing to one side at the edges.
func (h *Heightmap) Gradient(nx, nz, sizeX, sizeY, sizeZ float32) (dx, dz float32) {
	if h.Width > 1 && sizeX > 0 {
		step := 1 / float32(h.Width-1)
		x0, x1 := clampf(nx-step, 0, 1), clampf(nx+step, 0, 1)
		if x1 > x0 {
			dx = (h.Interpolated(x1, nz) - h.Interpolated(x0, nz)) * sizeY / ((x1 - x0) * sizeX)
		}
	}
	if h.Height > 1 && sizeZ > 0 {
		step := 1 / float32(h.Height-1)
		z0, z1 := clampf(nz-step, 0, 1), clampf(nz+step, 0, 1)
		if z1 > z0 {
			dz = (h.Interpolated(nx, z1) - h.Interpolated(nx, z0)) * sizeY / ((z1 - z0) * sizeZ)
		}
	}
	return dx, dz
}

// SlopeDegrees converts a height gradient into the surface angle from
// horizontal, in [0, 90].
func SlopeDegrees(dx, dz float32) float32 {
	run := gomath.Sqrt(float64(dx*dx + dz*dz))
	return math.Degrees(float32(gomath.Atan(run)))
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampi(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
