package paint

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/pkg/rules"
)

// Densities written by a matching detail rule lie in [MinDensity, MaxDensity).
const (
	MinDensity = 1
	MaxDensity = 8
)

// DetailLayer is a Width x Height grid of detail densities, row-major by z.
type DetailLayer struct {
	Width   int
	Height  int
	Density []int
}

// NewDetailLayer allocates a zeroed layer.
func NewDetailLayer(width, height int) *DetailLayer {
	return &DetailLayer{Width: width, Height: height, Density: make([]int, width*height)}
}

// At returns the density at (x, z).
func (l *DetailLayer) At(x, z int) int {
	return l.Density[z*l.Width+x]
}

// Set stores the density at (x, z).
func (l *DetailLayer) Set(x, z, d int) {
	l.Density[z*l.Width+x] = d
}

// Covered returns the number of cells with a non-zero density.
func (l *DetailLayer) Covered() int {
	n := 0
	for _, d := range l.Density {
		if d != 0 {
			n++
		}
	}
	return n
}

// DetailMap holds the layers a detail pass produced, keyed by layer index.
// Layers no rule referenced are absent.
type DetailMap map[int]*DetailLayer

// Indices returns the layer indices in ascending order.
func (m DetailMap) Indices() []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Density returns the density of layer index at (x, z), or 0 if the layer is absent.
func (m DetailMap) Density(index, x, z int) int {
	l, ok := m[index]
	if !ok {
		return 0
	}
	return l.At(x, z)
}

// PaintDetails classifies the detail grid and writes every referenced layer.
func (p *Painter) PaintDetails(t DetailTarget, rs []rules.DetailRule) (DetailMap, error) {
	layers := t.DetailLayerCount()
	if layers <= 0 {
		return nil, ErrNoLayers
	}
	width, height := t.DetailResolution()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}

	start := time.Now()
	m := p.ClassifyDetails(t, rs, layers)
	for _, index := range m.Indices() {
		if err := t.WriteDetailLayer(index, m[index]); err != nil {
			return nil, fmt.Errorf("writing detail layer %d: %w", index, err)
		}
	}

	p.log.Info("detail pass done",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("layers", len(m)),
		zap.Int("rules", len(rs)),
		zap.Duration("took", time.Since(start)))
	return m, nil
}

// ClassifyDetails evaluates detail rules per cell. Each rule first passes a
// chance gate (a chance of 0 never passes), then its ranges; the first rule
// through both sets a random density on its layer and ends the cell.
func (p *Painter) ClassifyDetails(s Surface, rs []rules.DetailRule, layers int) DetailMap {
	width, height := s.DetailResolution()
	m := make(DetailMap)

	valid := make([]rules.DetailRule, 0, len(rs))
	for i, r := range rs {
		if r.DetailIndex < 0 || r.DetailIndex >= layers {
			p.log.Warn("skipping detail rule with missing layer",
				zap.Int("rule", i), zap.Int("layer", r.DetailIndex), zap.Int("layers", layers))
			continue
		}
		if _, ok := m[r.DetailIndex]; !ok {
			m[r.DetailIndex] = NewDetailLayer(width, height)
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return m
	}

	for z := range height {
		for x := range width {
			var sample Sample
			sampled := false
			for _, r := range valid {
				if r.Chance <= 0 || p.unit() > r.Chance {
					continue
				}
				if !r.Unconditional() {
					if !sampled {
						sample = s.Sample(s.DetailToWorld(x, z))
						sampled = true
					}
					if !r.Match(sample.Height, sample.Slope) {
						continue
					}
				}
				m[r.DetailIndex].Set(x, z, MinDensity+p.rng.IntN(MaxDensity-MinDensity))
				break
			}
		}
	}
	return m
}
