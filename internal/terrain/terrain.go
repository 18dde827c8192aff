// Package terrain provides a heightmap-backed terrain that the paint passes
// can sample and write into.
package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/terrain-painter/pkg/math"
	"github.com/Faultbox/terrain-painter/pkg/paint"
	"github.com/Faultbox/terrain-painter/pkg/polygon"
)

// Terrain setup errors.
var (
	ErrNoHeightmap = errors.New("terrain has no heightmap")
	ErrTerrainSize = errors.New("terrain size must be positive")
	ErrResolution  = errors.New("grid resolution must be positive")
)

// Terrain is a rectangular terrain of Size world units placed at Position.
// Heights are sampled from a normalized heightmap scaled by Size.Y.
type Terrain struct {
	Heights  *Heightmap
	Size     math.Vec3
	Position math.Vec3

	AlphamapWidth  int
	AlphamapHeight int
	DetailWidth    int
	DetailHeight   int

	SplatLayers    int
	DetailLayers   int
	TreePrototypes int

	*Store
}

// New returns a terrain with square alphamap and detail grids and an empty store.
func New(heights *Heightmap, size, position math.Vec3, alphamapRes, detailRes int) (*Terrain, error) {
	t := &Terrain{
		Heights:        heights,
		Size:           size,
		Position:       position,
		AlphamapWidth:  alphamapRes,
		AlphamapHeight: alphamapRes,
		DetailWidth:    detailRes,
		DetailHeight:   detailRes,
		Store:          NewStore(),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that the terrain can be sampled.
func (t *Terrain) Validate() error {
	if t.Heights == nil || len(t.Heights.Values) == 0 {
		return ErrNoHeightmap
	}
	if len(t.Heights.Values) != t.Heights.Width*t.Heights.Height {
		return fmt.Errorf("heightmap %dx%d has %d values: %w",
			t.Heights.Width, t.Heights.Height, len(t.Heights.Values), ErrNoHeightmap)
	}
	if t.Size.X <= 0 || t.Size.Z <= 0 || t.Size.Y < 0 {
		return fmt.Errorf("%w: %v", ErrTerrainSize, t.Size)
	}
	if t.AlphamapWidth <= 0 || t.AlphamapHeight <= 0 || t.DetailWidth <= 0 || t.DetailHeight <= 0 {
		return fmt.Errorf("%w: alphamap %dx%d, detail %dx%d", ErrResolution,
			t.AlphamapWidth, t.AlphamapHeight, t.DetailWidth, t.DetailHeight)
	}
	return nil
}

// WorldToNormalized maps a world position to [0, 1] terrain coordinates.
// Positions off the terrain fall outside that range.
func (t *Terrain) WorldToNormalized(world math.Vec3) math.Vec2 {
	return math.Vec2{
		X: (world.X - t.Position.X) / t.Size.X,
		Y: (world.Z - t.Position.Z) / t.Size.Z,
	}
}

// NormalizedToWorld maps normalized terrain coordinates to a world position
// with Y = 0.
func (t *Terrain) NormalizedToWorld(n math.Vec2) math.Vec3 {
	scaled := math.Vec2{X: n.X * t.Size.X, Y: n.Y * t.Size.Z}
	return scaled.XZ().Add(t.Position.Flat())
}

// SampleHeight returns the world height of the terrain surface under world.
func (t *Terrain) SampleHeight(world math.Vec3) float32 {
	n := t.WorldToNormalized(world)
	return t.Heights.Interpolated(n.X, n.Y)*t.Size.Y + t.Position.Y
}

// Steepness returns the slope in degrees at a normalized position.
func (t *Terrain) Steepness(nx, nz float32) float32 {
	dx, dz := t.Heights.Gradient(nx, nz, t.Size.X, t.Size.Y, t.Size.Z)
	return SlopeDegrees(dx, dz)
}

// Sample implements paint.Sampler.
func (t *Terrain) Sample(world math.Vec3) paint.Sample {
	n := t.WorldToNormalized(world)
	return paint.Sample{
		Height: t.Heights.Interpolated(n.X, n.Y)*t.Size.Y + t.Position.Y,
		Slope:  t.Steepness(n.X, n.Y),
	}
}

// AlphamapResolution implements paint.Geometry.
func (t *Terrain) AlphamapResolution() (int, int) { return t.AlphamapWidth, t.AlphamapHeight }

// DetailResolution implements paint.Geometry.
func (t *Terrain) DetailResolution() (int, int) { return t.DetailWidth, t.DetailHeight }

// AlphamapToWorld returns the world position of alphamap cell (x, z).
func (t *Terrain) AlphamapToWorld(x, z int) math.Vec3 {
	return math.Vec3{
		X: t.Size.X/float32(t.AlphamapWidth)*float32(x) + t.Position.X,
		Z: t.Size.Z/float32(t.AlphamapHeight)*float32(z) + t.Position.Z,
	}
}

// DetailToWorld returns the world position of detail cell (x, z).
func (t *Terrain) DetailToWorld(x, z int) math.Vec3 {
	return math.Vec3{
		X: t.Size.X/float32(t.DetailWidth)*float32(x) + t.Position.X,
		Z: t.Size.Z/float32(t.DetailHeight)*float32(z) + t.Position.Z,
	}
}

// HeightmapToWorld returns the world position of heightmap sample (x, z),
// with Y on the sampled height.
func (t *Terrain) HeightmapToWorld(x, z int) math.Vec3 {
	var nx, nz float32
	if t.Heights.Width > 1 {
		nx = float32(x) / float32(t.Heights.Width-1)
	}
	if t.Heights.Height > 1 {
		nz = float32(z) / float32(t.Heights.Height-1)
	}
	return math.Vec3{
		X: nx*t.Size.X + t.Position.X,
		Y: t.Heights.At(x, z)*t.Size.Y + t.Position.Y,
		Z: nz*t.Size.Z + t.Position.Z,
	}
}

// WorldToAlphamap returns the alphamap cell containing world and whether it
// lies on the grid.
func (t *Terrain) WorldToAlphamap(world math.Vec3) (x, z int, ok bool) {
	n := t.WorldToNormalized(world)
	fx := n.X * float32(t.AlphamapWidth)
	fz := n.Y * float32(t.AlphamapHeight)
	if fx < 0 || fz < 0 {
		return 0, 0, false
	}
	x, z = int(fx), int(fz)
	return x, z, x < t.AlphamapWidth && z < t.AlphamapHeight
}

// Bounds returns the world rectangle covered by the terrain.
func (t *Terrain) Bounds() polygon.Bounds {
	return polygon.Bounds{
		XMin: t.Position.X,
		XMax: t.Position.X + t.Size.X,
		ZMin: t.Position.Z,
		ZMax: t.Position.Z + t.Size.Z,
	}
}

// SplatLayerCount implements paint.SplatTarget.
func (t *Terrain) SplatLayerCount() int { return t.SplatLayers }

// DetailLayerCount implements paint.DetailTarget.
func (t *Terrain) DetailLayerCount() int { return t.DetailLayers }

// TreePrototypeCount implements paint.TreeTarget.
func (t *Terrain) TreePrototypeCount() int { return t.TreePrototypes }

// MostUsedLayerAt returns the splat layer with the highest weight under
// world. ok is false when nothing has been painted or world is off the grid.
func (t *Terrain) MostUsedLayerAt(world math.Vec3) (layer int, ok bool) {
	a := t.Alphamap()
	if a == nil {
		return 0, false
	}
	x, z, on := t.WorldToAlphamap(world)
	if !on || x >= a.Width || z >= a.Height {
		return 0, false
	}
	return a.Dominant(x, z), true
}

var (
	_ paint.SplatTarget  = (*Terrain)(nil)
	_ paint.DetailTarget = (*Terrain)(nil)
	_ paint.TreeTarget   = (*Terrain)(nil)
)
