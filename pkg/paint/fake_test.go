package paint

import (
	"github.com/Faultbox/terrain-painter/pkg/math"
	"github.com/Faultbox/terrain-painter/pkg/polygon"
)

// fakeTerrain maps grid cell (x, z) to world (x, z) on both grids.
type fakeTerrain struct {
	width, height int
	heightAt      func(x, z float32) float32
	slopeAt       func(x, z float32) float32

	splatLayers  int
	detailLayers int
	trees        int

	alphamap  *Alphamap
	details   map[int]*DetailLayer
	instances map[int][]TreeInstance
	samples   int
	writeErr  error
}

func newFakeTerrain(width, height int) *fakeTerrain {
	return &fakeTerrain{
		width:        width,
		height:       height,
		splatLayers:  3,
		detailLayers: 2,
		trees:        2,
		details:      make(map[int]*DetailLayer),
		instances:    make(map[int][]TreeInstance),
	}
}

func (f *fakeTerrain) Sample(world math.Vec3) Sample {
	f.samples++
	var s Sample
	if f.heightAt != nil {
		s.Height = f.heightAt(world.X, world.Z)
	}
	if f.slopeAt != nil {
		s.Slope = f.slopeAt(world.X, world.Z)
	}
	return s
}

func (f *fakeTerrain) AlphamapResolution() (int, int) { return f.width, f.height }
func (f *fakeTerrain) DetailResolution() (int, int)   { return f.width, f.height }

func (f *fakeTerrain) AlphamapToWorld(x, z int) math.Vec3 {
	return math.Vec3{X: float32(x), Z: float32(z)}
}

func (f *fakeTerrain) DetailToWorld(x, z int) math.Vec3 {
	return math.Vec3{X: float32(x), Z: float32(z)}
}

func (f *fakeTerrain) Bounds() polygon.Bounds {
	return polygon.Bounds{XMax: float32(f.width), ZMax: float32(f.height)}
}

func (f *fakeTerrain) SplatLayerCount() int    { return f.splatLayers }
func (f *fakeTerrain) DetailLayerCount() int   { return f.detailLayers }
func (f *fakeTerrain) TreePrototypeCount() int { return f.trees }

func (f *fakeTerrain) WriteAlphamap(a *Alphamap) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.alphamap = a
	return nil
}

func (f *fakeTerrain) WriteDetailLayer(index int, l *DetailLayer) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.details[index] = l
	return nil
}

func (f *fakeTerrain) ReplaceTreeInstances(index int, instances []TreeInstance) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.instances[index] = instances
	return nil
}
