package paint

import (
	"fmt"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/pkg/math"
	"github.com/Faultbox/terrain-painter/pkg/polygon"
	"github.com/Faultbox/terrain-painter/pkg/rules"
)

const twoPi = 2 * gomath.Pi

// TreeInstance is a placed tree. Position is in world space with Y on the
// sampled terrain height.
type TreeInstance struct {
	Prototype   int
	Position    math.Vec3
	Rotation    float32
	WidthScale  float32
	HeightScale float32
}

// PaintTrees replaces every instance of prototype treeIndex with a fresh
// placement from the rules targeting it. Instances of other prototypes are
// untouched.
func (p *Painter) PaintTrees(t TreeTarget, rs []rules.TreeRule, treeIndex int) ([]TreeInstance, error) {
	if treeIndex < 0 || treeIndex >= t.TreePrototypeCount() {
		return nil, fmt.Errorf("tree %d of %d: %w", treeIndex, t.TreePrototypeCount(), ErrTreeIndex)
	}

	start := time.Now()
	var placed []TreeInstance
	for i, r := range rs {
		if r.TreeIndex != treeIndex {
			continue
		}
		trees := p.PlaceTrees(t, r)
		p.log.Debug("tree rule placed",
			zap.Int("rule", i), zap.Int("tree", treeIndex), zap.Int("count", len(trees)))
		placed = append(placed, trees...)
	}

	if err := t.ReplaceTreeInstances(treeIndex, placed); err != nil {
		return nil, fmt.Errorf("replacing trees %d: %w", treeIndex, err)
	}

	p.log.Info("tree pass done",
		zap.Int("tree", treeIndex),
		zap.Int("instances", len(placed)),
		zap.Duration("took", time.Since(start)))
	return placed, nil
}

// PaintAllTrees repaints every tree prototype of the terrain. The result is
// indexed by prototype.
func (p *Painter) PaintAllTrees(t TreeTarget, rs []rules.TreeRule) ([][]TreeInstance, error) {
	count := t.TreePrototypeCount()
	if count <= 0 {
		return nil, ErrNoLayers
	}
	out := make([][]TreeInstance, count)
	for index := range count {
		placed, err := p.PaintTrees(t, rs, index)
		if err != nil {
			return nil, err
		}
		out[index] = placed
	}
	return out, nil
}

// PlaceTrees samples instance positions for a single rule. Each area polygon
// receives round(area * Density) trees, at most rules.MaxTreesPerArea, drawn
// uniformly from its bounding box and kept when the polygon contains the
// point, the point lies on the terrain and the rule's ranges match. A rule without areas covers the whole terrain.
func (p *Painter) PlaceTrees(s Surface, r rules.TreeRule) []TreeInstance {
	terrain := s.Bounds()
	if r.Unrestricted() {
		return p.scatter(s, r, terrain, terrain.Area(), terrain.Contains)
	}

	var out []TreeInstance
	for a, area := range r.Areas {
		if area == nil {
			p.log.Warn("skipping missing area polygon",
				zap.Int("tree", r.TreeIndex), zap.Int("area", a))
			continue
		}
		size := area.CalculateAreaSize()
		p.log.Debug("tree area",
			zap.Int("tree", r.TreeIndex), zap.Int("area", a), zap.Float32("size", size))

		contains := func(pos math.Vec3) bool {
			return area.Contains(pos) && terrain.Contains(pos)
		}
		out = append(out, p.scatter(s, r, area.Bounds(), float32(gomath.Abs(float64(size))), contains)...)
	}
	return out
}

func (p *Painter) scatter(s Sampler, r rules.TreeRule, b polygon.Bounds, area float32, contains func(math.Vec3) bool) []TreeInstance {
	want, capped := rules.TreeCount(area, r.Density)
	if want <= 0 {
		return nil
	}
	if capped {
		p.log.Warn("tree count capped",
			zap.Int("tree", r.TreeIndex),
			zap.Float32("density", r.Density),
			zap.Float32("area", area),
			zap.Int("max", rules.MaxTreesPerArea))
	}

	tries := gomath.MaxInt
	if p.maxAttempts <= gomath.MaxInt/want {
		tries = want * p.maxAttempts
	}

	out := make([]TreeInstance, 0, want)
	for ; tries > 0 && len(out) < want; tries-- {
		pos := math.Vec3{
			X: b.XMin + p.unit()*b.Width(),
			Z: b.ZMin + p.unit()*b.Depth(),
		}
		if !contains(pos) {
			continue
		}
		sample := s.Sample(pos)
		if !r.Match(sample.Height, sample.Slope) {
			continue
		}
		pos.Y = sample.Height
		out = append(out, TreeInstance{
			Prototype:   r.TreeIndex,
			Position:    pos,
			Rotation:    p.unit() * twoPi,
			WidthScale:  1,
			HeightScale: 1,
		})
	}
	if len(out) < want {
		p.log.Debug("tree placement fell short",
			zap.Int("tree", r.TreeIndex), zap.Int("want", want), zap.Int("placed", len(out)))
	}
	return out
}
