package paint

// Alphamap holds splat weights for a Width x Height grid with Layers weights
// per cell, stored row-major by z then x.
type Alphamap struct {
	Width   int
	Height  int
	Layers  int
	Weights []float32
}

// NewAlphamap allocates a zeroed alphamap.
func NewAlphamap(width, height, layers int) *Alphamap {
	return &Alphamap{
		Width:   width,
		Height:  height,
		Layers:  layers,
		Weights: make([]float32, width*height*layers),
	}
}

func (a *Alphamap) index(x, z, s int) int {
	return (z*a.Width+x)*a.Layers + s
}

// At returns the weight of layer s at (x, z).
func (a *Alphamap) At(x, z, s int) float32 {
	return a.Weights[a.index(x, z, s)]
}

// Set stores the weight of layer s at (x, z).
func (a *Alphamap) Set(x, z, s int, w float32) {
	a.Weights[a.index(x, z, s)] = w
}

// Cell returns the layer weights at (x, z). The slice aliases the alphamap.
func (a *Alphamap) Cell(x, z int) []float32 {
	i := a.index(x, z, 0)
	return a.Weights[i : i+a.Layers]
}

// Active returns the layers with a non-zero weight at (x, z).
func (a *Alphamap) Active(x, z int) []int {
	var out []int
	for s, w := range a.Cell(x, z) {
		if w != 0 {
			out = append(out, s)
		}
	}
	return out
}

// Dominant returns the layer with the highest weight at (x, z), preferring
// the lowest index on ties.
func (a *Alphamap) Dominant(x, z int) int {
	cell := a.Cell(x, z)
	best := 0
	for s := 1; s < len(cell); s++ {
		if cell[s] > cell[best] {
			best = s
		}
	}
	return best
}

// Clone returns a deep copy.
func (a *Alphamap) Clone() *Alphamap {
	c := *a
	c.Weights = make([]float32, len(a.Weights))
	copy(c.Weights, a.Weights)
	return &c
}
