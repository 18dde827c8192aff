package project

import (
	"fmt"

	"github.com/Faultbox/terrain-painter/internal/terrain"
	"github.com/Faultbox/terrain-painter/pkg/math"
	"github.com/Faultbox/terrain-painter/pkg/polygon"
	"github.com/Faultbox/terrain-painter/pkg/rules"
)

// Scene is a project converted to domain types.
type Scene struct {
	Polygons     map[string]*polygon.Polygon
	PolygonNames []string // file order
	SplatRules   []rules.SplatRule
	DetailRules  []rules.DetailRule
	TreeRules    []rules.TreeRule

	SplatLayers    int
	DetailLayers   int
	TreePrototypes int

	// TerrainArea is the ground area covered by tree rules without areas.
	TerrainArea float32

	// Unresolved holds one warning per tree area naming no polygon.
	Unresolved []rules.Warning
}

// Build converts the project into domain rules and polygons. Tree areas that
// name an unknown polygon become nil entries and are reported in
// Scene.Unresolved; they never fail the build.
func (p *Project) Build() (*Scene, error) {
	if p.Terrain == nil {
		return nil, ErrNoTerrain
	}
	s := &Scene{
		Polygons:       make(map[string]*polygon.Polygon, len(p.Polygons)),
		SplatLayers:    len(p.SplatLayers),
		DetailLayers:   len(p.DetailLayers),
		TreePrototypes: len(p.TreePrototypes),
		TerrainArea:    p.Terrain.Size.X * p.Terrain.Size.Z,
	}

	for _, entry := range p.Polygons {
		poly, err := entry.toDomain()
		if err != nil {
			return nil, fmt.Errorf("polygon %q: %w", entry.Name, err)
		}
		s.Polygons[entry.Name] = poly
		s.PolygonNames = append(s.PolygonNames, entry.Name)
	}

	for _, r := range p.SplatRules {
		s.SplatRules = append(s.SplatRules, rules.SplatRule{
			Conditions: conditions(r.Height, r.Slope),
			SplatIndex: r.Layer,
		})
	}

	for _, r := range p.DetailRules {
		chance := float32(1)
		if r.Chance != nil {
			chance = *r.Chance
		}
		s.DetailRules = append(s.DetailRules, rules.DetailRule{
			Conditions:  conditions(r.Height, r.Slope),
			DetailIndex: r.Layer,
			Chance:      chance,
		})
	}

	for i, r := range p.TreeRules {
		tr := rules.TreeRule{
			Conditions: conditions(r.Height, r.Slope),
			TreeIndex:  r.Tree,
			Density:    r.Density,
		}
		for a, name := range r.Areas {
			poly := s.Polygons[name]
			if poly == nil {
				s.Unresolved = append(s.Unresolved, rules.Warning{
					Kind:    rules.WarnNilArea,
					Rule:    i,
					Field:   fmt.Sprintf("areas[%d]", a),
					Message: fmt.Sprintf("unknown polygon %q is skipped", name),
				})
			}
			tr.Areas = append(tr.Areas, poly)
		}
		s.TreeRules = append(s.TreeRules, tr)
	}

	return s, nil
}

// Warnings validates every rule set. Unresolved area names replace the
// generic nil area warnings for the same entries.
func (s *Scene) Warnings() (splat, detail, trees []rules.Warning) {
	splat = rules.ValidateSplat(s.SplatRules, s.SplatLayers)
	detail = rules.ValidateDetail(s.DetailRules, s.DetailLayers)

	named := make(map[string]rules.Warning, len(s.Unresolved))
	for _, w := range s.Unresolved {
		named[fmt.Sprintf("%d/%s", w.Rule, w.Field)] = w
	}
	for _, w := range rules.ValidateTrees(s.TreeRules, s.TreePrototypes, s.TerrainArea) {
		if n, ok := named[fmt.Sprintf("%d/%s", w.Rule, w.Field)]; ok && w.Kind == rules.WarnNilArea {
			w = n
		}
		trees = append(trees, w)
	}
	return splat, detail, trees
}

// NewTerrain creates the terrain described by the project on top of heights.
func (p *Project) NewTerrain(heights *terrain.Heightmap) (*terrain.Terrain, error) {
	ts := p.Terrain
	t, err := terrain.New(heights, ts.Size.vec(), ts.Position.vec(), ts.AlphamapResolution, ts.DetailResolution)
	if err != nil {
		return nil, err
	}
	t.SplatLayers = len(p.SplatLayers)
	t.DetailLayers = len(p.DetailLayers)
	t.TreePrototypes = len(p.TreePrototypes)
	return t, nil
}

func (v Vec3) vec() math.Vec3 {
	return math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func (e Polygon) toDomain() (*polygon.Polygon, error) {
	c, err := ParseColor(e.Color)
	if err != nil {
		return nil, err
	}
	points := make([]math.Vec3, len(e.Points))
	for i, pt := range e.Points {
		points[i] = math.Vec3{X: pt[0], Z: pt[1]}
	}
	poly := polygon.New(points...)
	poly.Color = c
	return poly, nil
}

func conditions(height, slope Range) rules.Conditions {
	return rules.Conditions{
		UseHeightRange: height.Use,
		Height:         rules.Range{Min: height.Min, Max: height.Max},
		UseSlopeRange:  slope.Use,
		Slope:          rules.Range{Min: slope.Min, Max: slope.Max},
	}
}
