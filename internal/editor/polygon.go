package editor

import (
	"errors"
	"fmt"

	"github.com/Faultbox/terrain-painter/pkg/math"
	"github.com/Faultbox/terrain-painter/pkg/polygon"
)

// MinRemovablePoints is the smallest stored point count (closing vertex
// included) from which a point may still be removed.
const MinRemovablePoints = 5

// Polygon edit errors.
var (
	ErrTooFewPoints = errors.New("polygon needs at least four corners to remove one")
	ErrNoPolygon    = errors.New("no polygon to edit")
)

// PolygonEdit is an edit of one area polygon.
type PolygonEdit = Edit[*polygon.Polygon]

// corners returns the number of editable vertices: every stored vertex but
// the closing one.
func corners(p *polygon.Polygon) int {
	return p.Len() - 1
}

func checkCorner(p *polygon.Polygon, i int) error {
	if p == nil {
		return ErrNoPolygon
	}
	if i < 0 || i >= corners(p) {
		return fmt.Errorf("%w: %d of %d", polygon.ErrVertexIndex, i, corners(p))
	}
	return nil
}

// AddPointOnEdge inserts the midpoint of the edge from vertex edge to
// vertex edge+1 between them.
func AddPointOnEdge(p *polygon.Polygon, edge int) (PolygonEdit, error) {
	if err := checkCorner(p, edge); err != nil {
		return PolygonEdit{}, err
	}
	n := edge + 1
	mid := p.Vertex(edge).Add(p.Vertex(n)).Scale(0.5)
	after, err := p.InsertVertex(n, mid)
	if err != nil {
		return PolygonEdit{}, err
	}
	return PolygonEdit{Description: "added point", Before: p, After: after}, nil
}

// MovePoint moves corner i to v on the ground plane. Moving the first corner
// moves the closing vertex with it.
func MovePoint(p *polygon.Polygon, i int, v math.Vec3) (PolygonEdit, error) {
	if err := checkCorner(p, i); err != nil {
		return PolygonEdit{}, err
	}
	v = v.Flat()
	after, err := p.MoveVertex(i, v)
	if err != nil {
		return PolygonEdit{}, err
	}
	if i == 0 {
		if after, err = after.MoveVertex(after.Len()-1, v); err != nil {
			return PolygonEdit{}, err
		}
	}
	return PolygonEdit{Description: "moved point", Before: p, After: after}, nil
}

// RemovePoint deletes corner i. Removing the first corner makes the next
// one first and recloses the polygon on it.
func RemovePoint(p *polygon.Polygon, i int) (PolygonEdit, error) {
	if err := checkCorner(p, i); err != nil {
		return PolygonEdit{}, err
	}
	if p.Len() < MinRemovablePoints {
		return PolygonEdit{}, fmt.Errorf("%w: has %d", ErrTooFewPoints, corners(p))
	}
	after, err := p.RemoveVertex(i)
	if err != nil {
		return PolygonEdit{}, err
	}
	if i == 0 {
		if after, err = after.MoveVertex(after.Len()-1, after.Vertex(0)); err != nil {
			return PolygonEdit{}, err
		}
	}
	return PolygonEdit{Description: "removed point", Before: p, After: after}, nil
}

// MovePolygon translates every vertex so the bounding box center lands on
// origin. Y is ignored.
func MovePolygon(p *polygon.Polygon, origin math.Vec3) (PolygonEdit, error) {
	if p == nil {
		return PolygonEdit{}, ErrNoPolygon
	}
	delta := origin.Flat().Sub(p.Origin())
	return PolygonEdit{Description: "moved polygon", Before: p, After: p.Translate(delta)}, nil
}

// NearestVertex returns the corner closest to pos within maxDistance on the
// ground plane. On ties the later corner wins.
func NearestVertex(p *polygon.Polygon, pos math.Vec3, maxDistance float32) (int, bool) {
	if p == nil {
		return 0, false
	}
	best, found := 0, false
	bestDist := maxDistance
	for i := range corners(p) {
		d := p.Vertex(i).XZ().Distance(pos.XZ())
		if d > maxDistance || (found && d > bestDist) {
			continue
		}
		best, bestDist, found = i, d, true
	}
	return best, found
}
