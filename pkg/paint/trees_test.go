package paint

import (
	"errors"
	"testing"

	"github.com/Faultbox/terrain-painter/pkg/math"
	"github.com/Faultbox/terrain-painter/pkg/polygon"
	"github.com/Faultbox/terrain-painter/pkg/rules"
)

func square(x0, z0, size float32) *polygon.Polygon {
	return polygon.New(
		math.Vec3{X: x0, Z: z0},
		math.Vec3{X: x0 + size, Z: z0},
		math.Vec3{X: x0 + size, Z: z0 + size},
		math.Vec3{X: x0, Z: z0 + size},
		math.Vec3{X: x0, Z: z0},
	)
}

func TestPlaceTrees_InsideArea(t *testing.T) {
	f := newFakeTerrain(100, 100)
	f.heightAt = func(x, z float32) float32 { return 7 }
	area := square(10, 10, 10)

	trees := New(WithSeed(1)).PlaceTrees(f, rules.TreeRule{
		TreeIndex: 1,
		Density:   0.1,
		Areas:     []*polygon.Polygon{area},
	})

	if len(trees) != 10 {
		t.Fatalf("placed %d trees, want 10 (area 100 * density 0.1)", len(trees))
	}
	for _, tr := range trees {
		if !area.Contains(tr.Position) {
			t.Errorf("tree at %v outside its area", tr.Position)
		}
		if tr.Position.Y != 7 {
			t.Errorf("tree Y = %v, want sampled height 7", tr.Position.Y)
		}
		if tr.Prototype != 1 {
			t.Errorf("prototype = %d, want 1", tr.Prototype)
		}
		if tr.Rotation < 0 || tr.Rotation >= twoPi {
			t.Errorf("rotation %v outside [0, 2pi)", tr.Rotation)
		}
	}
}

func TestPlaceTrees_Unrestricted(t *testing.T) {
	f := newFakeTerrain(10, 10)

	trees := New(WithSeed(2)).PlaceTrees(f, rules.TreeRule{Density: 0.05})
	if len(trees) != 5 {
		t.Fatalf("placed %d trees, want 5", len(trees))
	}
	b := f.Bounds()
	for _, tr := range trees {
		if !b.Contains(tr.Position) {
			t.Errorf("tree at %v outside terrain", tr.Position)
		}
	}
}

func TestPlaceTrees_CapsHugeDensity(t *testing.T) {
	f := newFakeTerrain(100, 100)

	trees := New(WithSeed(9), WithMaxAttempts(int(^uint(0)>>1))).PlaceTrees(f, rules.TreeRule{Density: 1e11})
	if len(trees) != rules.MaxTreesPerArea {
		t.Errorf("placed %d trees, want cap %d", len(trees), rules.MaxTreesPerArea)
	}
}

func TestPlaceTrees_RangeFilter(t *testing.T) {
	f := newFakeTerrain(20, 20)
	f.heightAt = func(x, z float32) float32 { return x }

	trees := New(WithSeed(3)).PlaceTrees(f, rules.TreeRule{
		Conditions: rules.Conditions{UseHeightRange: true, Height: rules.Range{Min: 0, Max: 5}},
		Density:    0.05,
		Areas:      []*polygon.Polygon{square(0, 0, 20)},
	})

	if len(trees) != 20 {
		t.Fatalf("placed %d trees, want 20", len(trees))
	}
	for _, tr := range trees {
		if tr.Position.X >= 5 {
			t.Errorf("tree at x=%v violates height range", tr.Position.X)
		}
	}
}

func TestPlaceTrees_ClipsToTerrain(t *testing.T) {
	f := newFakeTerrain(10, 10)

	// only the quarter [5,10)x[5,10) of this area lies on the terrain
	trees := New(WithSeed(4)).PlaceTrees(f, rules.TreeRule{
		Density: 0.1,
		Areas:   []*polygon.Polygon{square(5, 5, 10)},
	})
	for _, tr := range trees {
		if tr.Position.X > 10 || tr.Position.Z > 10 {
			t.Errorf("tree at %v off the terrain", tr.Position)
		}
	}
}

func TestPlaceTrees_NilAreas(t *testing.T) {
	f := newFakeTerrain(50, 50)
	p := New(WithSeed(5))

	onlyNil := p.PlaceTrees(f, rules.TreeRule{Density: 1, Areas: []*polygon.Polygon{nil}})
	if len(onlyNil) != 0 {
		t.Errorf("nil-only areas placed %d trees, want 0", len(onlyNil))
	}

	mixed := p.PlaceTrees(f, rules.TreeRule{
		Density: 0.5,
		Areas:   []*polygon.Polygon{nil, square(0, 0, 4), nil},
	})
	if len(mixed) != 8 {
		t.Errorf("mixed areas placed %d trees, want 8", len(mixed))
	}
}

func TestPlaceTrees_DegenerateArea(t *testing.T) {
	f := newFakeTerrain(10, 10)
	line := polygon.New(math.Vec3{X: 1, Z: 1}, math.Vec3{X: 5, Z: 5})

	trees := New(WithSeed(6)).PlaceTrees(f, rules.TreeRule{Density: 10, Areas: []*polygon.Polygon{line}})
	if len(trees) != 0 {
		t.Errorf("degenerate polygon placed %d trees", len(trees))
	}
}

func TestPaintTrees_ReplacesOnlyTargetIndex(t *testing.T) {
	f := newFakeTerrain(40, 40)
	other := []TreeInstance{{Prototype: 1, Position: math.Vec3{X: 1, Z: 1}}}
	f.instances[1] = other

	rs := []rules.TreeRule{
		{TreeIndex: 0, Density: 0.1, Areas: []*polygon.Polygon{square(0, 0, 10)}},
		{TreeIndex: 1, Density: 0.1, Areas: []*polygon.Polygon{square(20, 20, 10)}},
	}
	p := New(WithSeed(7))

	for run := range 2 {
		placed, err := p.PaintTrees(f, rs, 0)
		if err != nil {
			t.Fatalf("run %d: PaintTrees failed: %v", run, err)
		}
		if len(placed) != 10 || len(f.instances[0]) != 10 {
			t.Errorf("run %d: stored %d trees for index 0, want 10", run, len(f.instances[0]))
		}
	}

	if len(f.instances[1]) != 1 || f.instances[1][0] != other[0] {
		t.Errorf("index 1 instances changed: %v", f.instances[1])
	}
}

func TestPaintTrees_NoRulesClears(t *testing.T) {
	f := newFakeTerrain(10, 10)
	f.instances[0] = []TreeInstance{{Prototype: 0}}

	if _, err := New(WithSeed(1)).PaintTrees(f, nil, 0); err != nil {
		t.Fatalf("PaintTrees failed: %v", err)
	}
	if len(f.instances[0]) != 0 {
		t.Errorf("expected index 0 cleared, got %d instances", len(f.instances[0]))
	}
}

func TestPaintTrees_BadIndex(t *testing.T) {
	f := newFakeTerrain(10, 10)
	f.instances[0] = []TreeInstance{{Prototype: 0}}

	if _, err := New().PaintTrees(f, nil, 2); !errors.Is(err, ErrTreeIndex) {
		t.Errorf("error = %v, want ErrTreeIndex", err)
	}
	if len(f.instances[0]) != 1 {
		t.Error("storage touched on bad index")
	}
}

func TestPaintAllTrees(t *testing.T) {
	f := newFakeTerrain(30, 30)
	rs := []rules.TreeRule{
		{TreeIndex: 0, Density: 0.1, Areas: []*polygon.Polygon{square(0, 0, 10)}},
		{TreeIndex: 1, Density: 0.2, Areas: []*polygon.Polygon{square(10, 10, 10)}},
		{TreeIndex: 5, Density: 1},
	}

	all, err := New(WithSeed(8)).PaintAllTrees(f, rs)
	if err != nil {
		t.Fatalf("PaintAllTrees failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d prototype slots, want 2", len(all))
	}
	if len(all[0]) != 10 || len(all[1]) != 20 {
		t.Errorf("counts = %d, %d, want 10, 20", len(all[0]), len(all[1]))
	}
}
