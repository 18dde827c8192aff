// Package polygon implements area polygons on the terrain ground plane.
//
// A polygon stores its vertices in the X/Z plane (Y is ignored) and caches an
// axis-aligned bounding box that is used to reject containment queries early.
// The cache follows a small state machine: a polygon is either Dirty or
// Bounded. Construction and every edit produce a Dirty polygon; the first
// query that needs the bounds recomputes them.
package polygon

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/terrain-painter/pkg/math"
)

// ErrVertexIndex is returned by edits that address a vertex outside the polygon.
var ErrVertexIndex = errors.New("vertex index out of range")

// State is the bounds cache state of a polygon.
type State uint8

const (
	// Dirty means the vertices changed since the bounds were computed.
	Dirty State = iota
	// Bounded means Bounds and Origin match the vertices.
	Bounded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Dirty:
		return "Dirty"
	case Bounded:
		return "Bounded"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Color is a display color. It has no effect on geometry.
type Color struct {
	R, G, B, A uint8
}

// Blue is the color given to new polygons.
var Blue = Color{R: 0, G: 0, B: 255, A: 255}

// Polygon is a closed polygon on the X/Z plane. By convention the first and
// last vertex are equal; editing helpers in internal/editor keep that up, the
// array-level edits here do not.
type Polygon struct {
	Color Color

	points []math.Vec3
	bounds Bounds
	origin math.Vec3
	state  State
}

// New creates a Dirty polygon from a copy of points.
func New(points ...math.Vec3) *Polygon {
	p := &Polygon{Color: Blue, points: make([]math.Vec3, len(points))}
	copy(p.points, points)
	return p
}

// Default returns the closed triangle new area polygons start from.
func Default() *Polygon {
	return New(
		math.Vec3{X: 10, Z: -10},
		math.Vec3{X: -10, Z: -10},
		math.Vec3{X: 0, Z: 10},
		math.Vec3{X: 10, Z: -10},
	)
}

// Len returns the number of stored vertices, including the closing one.
func (p *Polygon) Len() int {
	return len(p.points)
}

// Vertex returns the vertex at index i.
func (p *Polygon) Vertex(i int) math.Vec3 {
	return p.points[i]
}

// Vertices returns a copy of the vertex list.
func (p *Polygon) Vertices() []math.Vec3 {
	out := make([]math.Vec3, len(p.points))
	copy(out, p.points)
	return out
}

// Closed reports whether the first and last vertex coincide on the X/Z plane.
func (p *Polygon) Closed() bool {
	n := len(p.points)
	if n < 2 {
		return false
	}
	return p.points[0].XZ() == p.points[n-1].XZ()
}

// State returns the bounds cache state.
func (p *Polygon) State() State {
	return p.state
}

// Bounds returns the bounding rectangle, recomputing it if the polygon is dirty.
func (p *Polygon) Bounds() Bounds {
	p.ensureBounds()
	return p.bounds
}

// Origin returns the bounds center with Y = 0, recomputing it if the polygon is dirty.
func (p *Polygon) Origin() math.Vec3 {
	p.ensureBounds()
	return p.origin
}

// RecalculateBoundaries computes the tight bounds of the vertices and moves
// the origin to their center.
func (p *Polygon) RecalculateBoundaries() {
	p.bounds = BoundsOf(p.points)
	p.origin = p.bounds.Center()
	p.state = Bounded
}

func (p *Polygon) ensureBounds() {
	if p.state == Dirty {
		p.RecalculateBoundaries()
	}
}

// Contains reports whether test lies inside the polygon using the even-odd
// rule. Y is ignored. Points on the left or bottom edge of an axis-aligned
// polygon count as inside, points on the right or top edge do not.
func (p *Polygon) Contains(test math.Vec3) bool {
	points := p.points
	if len(points) < 3 {
		return false
	}

	b := p.Bounds()
	if test.X < b.XMin || test.Z < b.ZMin || test.X > b.XMax || test.Z > b.ZMax {
		return false
	}

	result := false
	for i, j := 0, len(points)-1; i < len(points); j, i = i, i+1 {
		pi, pj := points[i], points[j]
		if (pi.Z > test.Z) != (pj.Z > test.Z) &&
			test.X < (pj.X-pi.X)*(test.Z-pi.Z)/(pj.Z-pi.Z)+pi.X {
			result = !result
		}
	}
	return result
}

// CalculateAreaSize returns the signed area. The sign follows the winding:
// counter-clockwise on the X/Z plane (Z up) is negative.
func (p *Polygon) CalculateAreaSize() float32 {
	points := p.points
	if len(points) < 3 {
		return 0
	}
	p.ensureBounds()

	var area float32
	j := len(points) - 1
	for i := range points {
		area += (points[j].X + points[i].X) * (points[j].Z - points[i].Z)
		j = i
	}
	return area * 0.5
}

// Area returns the absolute area.
func (p *Polygon) Area() float32 {
	return float32(gomath.Abs(float64(p.CalculateAreaSize())))
}

// Clone returns a deep copy. The copy keeps the cache state.
func (p *Polygon) Clone() *Polygon {
	c := *p
	c.points = p.Vertices()
	return &c
}

// InsertVertex returns a copy with v inserted before index i. i may equal Len.
func (p *Polygon) InsertVertex(i int, v math.Vec3) (*Polygon, error) {
	if i < 0 || i > len(p.points) {
		return nil, fmt.Errorf("insert at %d of %d: %w", i, len(p.points), ErrVertexIndex)
	}
	points := make([]math.Vec3, 0, len(p.points)+1)
	points = append(points, p.points[:i]...)
	points = append(points, v)
	points = append(points, p.points[i:]...)
	return p.derive(points), nil
}

// RemoveVertex returns a copy without the vertex at index i.
func (p *Polygon) RemoveVertex(i int) (*Polygon, error) {
	if i < 0 || i >= len(p.points) {
		return nil, fmt.Errorf("remove %d of %d: %w", i, len(p.points), ErrVertexIndex)
	}
	points := make([]math.Vec3, 0, len(p.points)-1)
	points = append(points, p.points[:i]...)
	points = append(points, p.points[i+1:]...)
	return p.derive(points), nil
}

// MoveVertex returns a copy with the vertex at index i replaced by v.
func (p *Polygon) MoveVertex(i int, v math.Vec3) (*Polygon, error) {
	if i < 0 || i >= len(p.points) {
		return nil, fmt.Errorf("move %d of %d: %w", i, len(p.points), ErrVertexIndex)
	}
	points := p.Vertices()
	points[i] = v
	return p.derive(points), nil
}

// Translate returns a copy with every vertex offset by delta.
func (p *Polygon) Translate(delta math.Vec3) *Polygon {
	points := p.Vertices()
	for i := range points {
		points[i] = points[i].Add(delta)
	}
	return p.derive(points)
}

func (p *Polygon) derive(points []math.Vec3) *Polygon {
	return &Polygon{Color: p.Color, points: points, state: Dirty}
}
