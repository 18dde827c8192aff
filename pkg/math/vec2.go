// Package math provides small vector types for terrain-space geometry.
package math

import "math"

// Vec2 is a 2D vector. For terrain work X maps to world X and Y to world Z.
type Vec2 struct {
	X, Y float32
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}

// XZ lifts v into the ground plane as a Vec3 with Y = 0.
func (v Vec2) XZ() Vec3 {
	return Vec3{X: v.X, Z: v.Y}
}
