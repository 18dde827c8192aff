package paint

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/pkg/rules"
)

// marked is the weight the classification and spread steps use to flag a layer.
const marked = 1.0

// PaintSplat classifies the alphamap, blends layer borders, normalizes,
// weathers and writes the result.
func (p *Painter) PaintSplat(t SplatTarget, rs []rules.SplatRule) (*Alphamap, error) {
	layers := t.SplatLayerCount()
	if layers <= 0 {
		return nil, ErrNoLayers
	}
	width, height := t.AlphamapResolution()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}

	start := time.Now()
	a := p.ClassifySplat(t, rs, layers)
	Spread(a)
	Normalize(a)
	p.Weather(a)

	if err := t.WriteAlphamap(a); err != nil {
		return nil, fmt.Errorf("writing alphamap: %w", err)
	}

	p.log.Info("splat pass done",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("layers", layers),
		zap.Int("rules", len(rs)),
		zap.Duration("took", time.Since(start)))
	return a, nil
}

// ClassifySplat marks, for every alphamap cell, the layer of the first rule
// whose ranges match. Cells no rule matches stay empty. The result depends
// only on the rules and the surface.
func (p *Painter) ClassifySplat(s Surface, rs []rules.SplatRule, layers int) *Alphamap {
	width, height := s.AlphamapResolution()
	a := NewAlphamap(width, height, layers)

	valid := make([]rules.SplatRule, 0, len(rs))
	for i, r := range rs {
		if r.SplatIndex < 0 || r.SplatIndex >= layers {
			p.log.Warn("skipping splat rule with missing layer",
				zap.Int("rule", i), zap.Int("layer", r.SplatIndex), zap.Int("layers", layers))
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return a
	}

	for z := range height {
		for x := range width {
			var sample Sample
			sampled := false
			for _, r := range valid {
				if !r.Unconditional() {
					if !sampled {
						sample = s.Sample(s.AlphamapToWorld(x, z))
						sampled = true
					}
					if !r.Match(sample.Height, sample.Slope) {
						continue
					}
				}
				a.Set(x, z, r.SplatIndex, marked)
				break
			}
		}
	}
	return a
}

// Spread softens region borders. For every marked layer of a cell, the first
// other layer marked on the +X neighbour and the first other layer marked on
// the +Z neighbour are marked on the cell too. Cells are visited z-major and
// updated in place; both neighbours are always still unvisited.
func Spread(a *Alphamap) {
	for z := range a.Height {
		for x := range a.Width {
			for s := range a.Layers {
				if a.At(x, z, s) != marked {
					continue
				}
				if x < a.Width-1 {
					spreadFrom(a, x, z, x+1, z, s)
				}
				if z < a.Height-1 {
					spreadFrom(a, x, z, x, z+1, s)
				}
			}
		}
	}
}

func spreadFrom(a *Alphamap, x, z, nx, nz, s int) {
	for s2 := range a.Layers {
		if s2 == s || a.At(nx, nz, s2) != marked {
			continue
		}
		a.Set(x, z, s2, marked)
		return
	}
}

// Normalize splits each cell's weight evenly across its marked layers so the
// marked weights sum to 1.
func Normalize(a *Alphamap) {
	for z := range a.Height {
		for x := range a.Width {
			cell := a.Cell(x, z)
			count := 0
			for _, w := range cell {
				if w == marked {
					count++
				}
			}
			if count == 0 {
				continue
			}
			share := 1 / float32(count)
			for s, w := range cell {
				if w == marked {
					cell[s] = share
				}
			}
		}
	}
}

// Weather multiplies every weight of a cell by one random factor drawn from
// the painter's weathering range, roughening the blend.
func (p *Painter) Weather(a *Alphamap) {
	for z := range a.Height {
		for x := range a.Width {
			r := p.between(p.weatherMin, p.weatherMax)
			cell := a.Cell(x, z)
			for s := range cell {
				cell[s] *= r
			}
		}
	}
}
