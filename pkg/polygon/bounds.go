package polygon

import "github.com/Faultbox/terrain-painter/pkg/math"

// Bounds is an axis-aligned rectangle in the X/Z plane.
type Bounds struct {
	XMin, XMax float32
	ZMin, ZMax float32
}

// BoundsOf returns the tight bounds of the given points. An empty slice yields zero bounds.
func BoundsOf(points []math.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{
		XMin: points[0].X, XMax: points[0].X,
		ZMin: points[0].Z, ZMax: points[0].Z,
	}
	for _, p := range points[1:] {
		if p.X < b.XMin {
			b.XMin = p.X
		}
		if p.X > b.XMax {
			b.XMax = p.X
		}
		if p.Z < b.ZMin {
			b.ZMin = p.Z
		}
		if p.Z > b.ZMax {
			b.ZMax = p.Z
		}
	}
	return b
}

// Contains reports whether p lies inside the closed rectangle.
func (b Bounds) Contains(p math.Vec3) bool {
	return p.X >= b.XMin && p.X <= b.XMax && p.Z >= b.ZMin && p.Z <= b.ZMax
}

// Width returns the X extent.
func (b Bounds) Width() float32 {
	return b.XMax - b.XMin
}

// Depth returns the Z extent.
func (b Bounds) Depth() float32 {
	return b.ZMax - b.ZMin
}

// Area returns Width * Depth.
func (b Bounds) Area() float32 {
	return b.Width() * b.Depth()
}

// Center returns the rectangle center with Y = 0.
func (b Bounds) Center() math.Vec3 {
	return math.Vec3{
		X: (b.XMin + b.XMax) * 0.5,
		Z: (b.ZMin + b.ZMax) * 0.5,
	}
}
