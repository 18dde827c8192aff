package rules

import (
	gomath "math"

	"github.com/Faultbox/terrain-painter/pkg/polygon"
)

// MaxTreesPerArea caps the trees a single rule places in one area.
const MaxTreesPerArea = 100_000

// Conditions are the height and slope filters shared by every rule kind.
// Slope is measured in degrees.
type Conditions struct {
	UseHeightRange bool
	Height         Range
	UseSlopeRange  bool
	Slope          Range
}

// Unconditional reports whether neither range is enabled.
func (c Conditions) Unconditional() bool {
	return !c.UseHeightRange && !c.UseSlopeRange
}

// Match reports whether a cell with the given height and slope passes the
// enabled ranges.
func (c Conditions) Match(height, slope float32) bool {
	if c.UseHeightRange && !c.Height.Contains(height) {
		return false
	}
	if c.UseSlopeRange && !c.Slope.Contains(slope) {
		return false
	}
	return true
}

// SplatRule marks matching cells with a splat (texture) layer.
type SplatRule struct {
	Conditions
	SplatIndex int
}

// DetailRule paints a detail (grass/mesh) layer with probability Chance.
type DetailRule struct {
	Conditions
	DetailIndex int
	Chance      float32
}

// TreeRule scatters a tree prototype inside Areas. An empty Areas slice
// means the whole terrain; nil entries are skipped.
type TreeRule struct {
	Conditions
	TreeIndex int
	Density   float32
	Areas     []*polygon.Polygon
}

// Clone copies the rule. Area polygons are shared, the slice is not.
func (r TreeRule) Clone() TreeRule {
	c := r
	if r.Areas != nil {
		c.Areas = make([]*polygon.Polygon, len(r.Areas))
		copy(c.Areas, r.Areas)
	}
	return c
}

// Unrestricted reports whether the rule places trees over the whole terrain.
func (r TreeRule) Unrestricted() bool {
	return len(r.Areas) == 0
}

// TreeCount returns round(|area| * density), the number of trees a rule asks
// for over an area. The result is capped at MaxTreesPerArea and capped
// reports whether the cap applied.
func TreeCount(area, density float32) (n int, capped bool) {
	want := gomath.Round(gomath.Abs(float64(area)) * float64(density))
	switch {
	case !(want > 0):
		return 0, false
	case want > MaxTreesPerArea:
		return MaxTreesPerArea, true
	}
	return int(want), false
}
