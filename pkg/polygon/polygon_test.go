package polygon

import (
	"errors"
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/Faultbox/terrain-painter/pkg/math"
)

func xz(x, z float32) math.Vec3 {
	return math.Vec3{X: x, Z: z}
}

func unitSquare() *Polygon {
	return New(xz(0, 0), xz(1, 0), xz(1, 1), xz(0, 1))
}

func TestContains_UnitSquare(t *testing.T) {
	sq := unitSquare()

	tests := []struct {
		name  string
		point math.Vec3
		want  bool
	}{
		{"center", xz(0.5, 0.5), true},
		{"outside right", xz(1.5, 0.5), false},
		{"outside left", xz(-0.5, 0.5), false},
		{"left edge", xz(0, 0.5), true},
		{"right edge", xz(1, 0.5), false},
		{"bottom edge", xz(0.5, 0), true},
		{"top edge", xz(0.5, 1), false},
		{"y ignored", math.Vec3{X: 0.5, Y: 100, Z: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sq.Contains(tt.point); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestContains_ClosedConvention(t *testing.T) {
	open := unitSquare()
	closed := New(xz(0, 0), xz(1, 0), xz(1, 1), xz(0, 1), xz(0, 0))
	if !closed.Closed() {
		t.Fatal("expected closed polygon")
	}
	if open.Closed() {
		t.Fatal("expected open polygon")
	}

	rng := rand.New(rand.NewPCG(3, 7))
	for range 500 {
		p := xz(rng.Float32()*2-0.5, rng.Float32()*2-0.5)
		if open.Contains(p) != closed.Contains(p) {
			t.Fatalf("closing vertex changed result at %v", p)
		}
	}
}

func TestContains_Concave(t *testing.T) {
	// U shape opening upwards
	u := New(
		xz(0, 0), xz(3, 0), xz(3, 3), xz(2, 3),
		xz(2, 1), xz(1, 1), xz(1, 3), xz(0, 3),
	)

	if !u.Contains(xz(0.5, 2)) {
		t.Error("left arm should be inside")
	}
	if !u.Contains(xz(2.5, 2)) {
		t.Error("right arm should be inside")
	}
	if u.Contains(xz(1.5, 2)) {
		t.Error("notch should be outside")
	}
	if !u.Contains(xz(1.5, 0.5)) {
		t.Error("base should be inside")
	}
}

func TestContains_SelfIntersectingDoesNotPanic(t *testing.T) {
	bowtie := New(xz(0, 0), xz(2, 2), xz(2, 0), xz(0, 2))
	rng := rand.New(rand.NewPCG(1, 1))
	for range 200 {
		bowtie.Contains(xz(rng.Float32()*3-0.5, rng.Float32()*3-0.5))
	}
}

func TestContains_ConvexAgainstHalfPlanes(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))

	for trial := range 5 {
		n := 3 + trial*2
		points := make([]math.Vec3, n)
		cx, cz := rng.Float32()*20-10, rng.Float32()*20-10
		radius := 1 + rng.Float32()*10
		// counter-clockwise regular polygon
		for i := range n {
			a := 2 * gomath.Pi * float64(i) / float64(n)
			points[i] = xz(cx+radius*float32(gomath.Cos(a)), cz+radius*float32(gomath.Sin(a)))
		}
		poly := New(points...)

		for range 1000 {
			p := xz(cx+(rng.Float32()*2-1)*radius*1.2, cz+(rng.Float32()*2-1)*radius*1.2)
			want := insideHalfPlanes(points, p)
			if got := poly.Contains(p); got != want {
				t.Fatalf("n=%d Contains(%v) = %v, half-plane test = %v", n, p, got, want)
			}
		}
	}
}

// insideHalfPlanes tests a counter-clockwise convex polygon edge by edge.
func insideHalfPlanes(points []math.Vec3, p math.Vec3) bool {
	for i := range points {
		a := points[i].XZ()
		b := points[(i+1)%len(points)].XZ()
		ab, ap := b.Sub(a), p.XZ().Sub(a)
		if ab.X*ap.Y-ab.Y*ap.X <= 0 {
			return false
		}
	}
	return true
}

func TestCalculateAreaSize(t *testing.T) {
	tests := []struct {
		name string
		poly *Polygon
		want float32
	}{
		{"unit square ccw", unitSquare(), -1},
		{"unit square cw", New(xz(0, 0), xz(0, 1), xz(1, 1), xz(1, 0)), 1},
		{"triangle", New(xz(0, 0), xz(4, 0), xz(0, 3)), -6},
		{"closed triangle", New(xz(0, 0), xz(4, 0), xz(0, 3), xz(0, 0)), -6},
		{"two points", New(xz(0, 0), xz(4, 0)), 0},
		{"empty", New(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.CalculateAreaSize(); got != tt.want {
				t.Errorf("CalculateAreaSize() = %v, want %v", got, tt.want)
			}
			if got := tt.poly.Area(); got != float32(gomath.Abs(float64(tt.want))) {
				t.Errorf("Area() = %v, want |%v|", got, tt.want)
			}
		})
	}
}

func TestRecalculateBoundaries(t *testing.T) {
	p := New(xz(-2, 3), xz(5, -1), xz(0, 0))
	if p.State() != Dirty {
		t.Fatalf("new polygon state = %v, want Dirty", p.State())
	}

	p.RecalculateBoundaries()

	want := Bounds{XMin: -2, XMax: 5, ZMin: -1, ZMax: 3}
	if p.State() != Bounded {
		t.Errorf("state = %v, want Bounded", p.State())
	}
	if p.Bounds() != want {
		t.Errorf("Bounds() = %+v, want %+v", p.Bounds(), want)
	}
	if got := p.Origin(); got != (math.Vec3{X: 1.5, Y: 0, Z: 1}) {
		t.Errorf("Origin() = %v, want {1.5 0 1}", got)
	}
}

func TestLazyBounds(t *testing.T) {
	p := unitSquare()
	if !p.Contains(xz(0.5, 0.5)) {
		t.Fatal("center should be inside")
	}
	if p.State() != Bounded {
		t.Fatalf("Contains should leave the polygon Bounded, got %v", p.State())
	}

	moved := p.Translate(xz(10, 0))
	if moved.State() != Dirty {
		t.Errorf("translated state = %v, want Dirty", moved.State())
	}
	// stale bounds would reject this point
	if !moved.Contains(xz(10.5, 0.5)) {
		t.Error("translated polygon should contain shifted center")
	}
	if p.Contains(xz(10.5, 0.5)) {
		t.Error("original polygon must be unchanged by Translate")
	}
}

func TestFewerThanThreeVertices(t *testing.T) {
	for _, p := range []*Polygon{New(), New(xz(0, 0)), New(xz(0, 0), xz(1, 1))} {
		if p.Contains(xz(0, 0)) || p.Contains(xz(0.5, 0.5)) {
			t.Errorf("polygon with %d vertices should contain nothing", p.Len())
		}
	}
}

func TestVertexEdits(t *testing.T) {
	p := unitSquare()

	inserted, err := p.InsertVertex(1, xz(0.5, -1))
	if err != nil {
		t.Fatalf("InsertVertex: %v", err)
	}
	if inserted.Len() != 5 || inserted.Vertex(1) != xz(0.5, -1) {
		t.Errorf("InsertVertex result = %v", inserted.Vertices())
	}
	if p.Len() != 4 {
		t.Errorf("original changed length to %d", p.Len())
	}
	if got := inserted.Bounds().ZMin; got != -1 {
		t.Errorf("inserted ZMin = %v, want -1", got)
	}

	removed, err := inserted.RemoveVertex(1)
	if err != nil {
		t.Fatalf("RemoveVertex: %v", err)
	}
	if removed.Len() != 4 || removed.Vertex(1) != xz(1, 0) {
		t.Errorf("RemoveVertex result = %v", removed.Vertices())
	}

	moved, err := p.MoveVertex(2, xz(2, 2))
	if err != nil {
		t.Fatalf("MoveVertex: %v", err)
	}
	if moved.Vertex(2) != xz(2, 2) || p.Vertex(2) != xz(1, 1) {
		t.Error("MoveVertex should only change the copy")
	}

	appended, err := p.InsertVertex(p.Len(), xz(0, 0))
	if err != nil {
		t.Fatalf("InsertVertex at end: %v", err)
	}
	if !appended.Closed() {
		t.Error("appending the first vertex should close the polygon")
	}
}

func TestVertexEdits_OutOfRange(t *testing.T) {
	p := unitSquare()

	if _, err := p.InsertVertex(5, xz(0, 0)); !errors.Is(err, ErrVertexIndex) {
		t.Errorf("InsertVertex(5) error = %v, want ErrVertexIndex", err)
	}
	if _, err := p.RemoveVertex(-1); !errors.Is(err, ErrVertexIndex) {
		t.Errorf("RemoveVertex(-1) error = %v, want ErrVertexIndex", err)
	}
	if _, err := p.MoveVertex(4, xz(0, 0)); !errors.Is(err, ErrVertexIndex) {
		t.Errorf("MoveVertex(4) error = %v, want ErrVertexIndex", err)
	}
}

func TestDefault(t *testing.T) {
	p := Default()
	if p.Len() != 4 || !p.Closed() {
		t.Fatalf("default polygon should be a closed triangle, got %v", p.Vertices())
	}
	if p.Color != Blue {
		t.Errorf("default color = %v, want blue", p.Color)
	}
	if !p.Contains(xz(0, 0)) {
		t.Error("default triangle should contain the origin")
	}
	if got := p.Area(); got != 200 {
		t.Errorf("default area = %v, want 200", got)
	}
}

func TestClone(t *testing.T) {
	p := unitSquare()
	c := p.Clone()
	c.Color = Color{R: 255, A: 255}
	if p.Color != Blue {
		t.Error("Clone shares color with original")
	}
	if &c.points[0] == &p.points[0] {
		t.Error("Clone shares vertex storage")
	}
}
