// Package paint classifies terrain grid cells with ordered rule sets.
//
// A paint pass walks every cell of a grid (alphamap, detail map or the tree
// sampling area), evaluates rules against height and slope samples supplied by
// the terrain, and writes the result through a sink. Passes are synchronous and
// not safe for concurrent use on the same Painter.
package paint

import (
	"github.com/Faultbox/terrain-painter/pkg/math"
	"github.com/Faultbox/terrain-painter/pkg/polygon"
)

// Sample is the terrain state at a world position. Slope is in degrees.
type Sample struct {
	Height float32
	Slope  float32
}

// Sampler reads height and slope at a world position (Y ignored).
type Sampler interface {
	Sample(world math.Vec3) Sample
}

// Geometry describes the terrain grids and their mapping to world space.
type Geometry interface {
	AlphamapResolution() (width, height int)
	DetailResolution() (width, height int)
	AlphamapToWorld(x, z int) math.Vec3
	DetailToWorld(x, z int) math.Vec3
	Bounds() polygon.Bounds
}

// Surface is a sampled terrain with grid geometry.
type Surface interface {
	Sampler
	Geometry
}

// AlphamapWriter persists splat weights.
type AlphamapWriter interface {
	WriteAlphamap(a *Alphamap) error
}

// DetailWriter persists a single detail layer.
type DetailWriter interface {
	WriteDetailLayer(index int, layer *DetailLayer) error
}

// TreeWriter replaces every tree instance of one prototype.
type TreeWriter interface {
	ReplaceTreeInstances(index int, instances []TreeInstance) error
}

// SplatTarget is a terrain that accepts splat passes.
type SplatTarget interface {
	Surface
	AlphamapWriter
	SplatLayerCount() int
}

// DetailTarget is a terrain that accepts detail passes.
type DetailTarget interface {
	Surface
	DetailWriter
	DetailLayerCount() int
}

// TreeTarget is a terrain that accepts tree passes.
type TreeTarget interface {
	Surface
	TreeWriter
	TreePrototypeCount() int
}
