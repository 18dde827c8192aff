package terrain

import (
	"slices"

	"github.com/Faultbox/terrain-painter/pkg/paint"
)

// Store keeps the most recent paint output in memory. It implements the
// paint sinks.
type Store struct {
	alphamap *paint.Alphamap
	details  paint.DetailMap
	trees    map[int][]paint.TreeInstance
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		details: make(paint.DetailMap),
		trees:   make(map[int][]paint.TreeInstance),
	}
}

// WriteAlphamap stores a copy of a.
func (s *Store) WriteAlphamap(a *paint.Alphamap) error {
	s.alphamap = a.Clone()
	return nil
}

// WriteDetailLayer stores a copy of layer under index.
func (s *Store) WriteDetailLayer(index int, layer *paint.DetailLayer) error {
	c := *layer
	c.Density = slices.Clone(layer.Density)
	s.details[index] = &c
	return nil
}

// ReplaceTreeInstances drops every instance of index and stores instances.
func (s *Store) ReplaceTreeInstances(index int, instances []paint.TreeInstance) error {
	if len(instances) == 0 {
		delete(s.trees, index)
		return nil
	}
	s.trees[index] = slices.Clone(instances)
	return nil
}

// Alphamap returns the last written alphamap, or nil.
func (s *Store) Alphamap() *paint.Alphamap {
	return s.alphamap
}

// Details returns the written detail layers.
func (s *Store) Details() paint.DetailMap {
	return s.details
}

// TreeInstances returns the instances of one prototype.
func (s *Store) TreeInstances(index int) []paint.TreeInstance {
	return s.trees[index]
}

// AllTreeInstances returns every stored instance ordered by prototype.
func (s *Store) AllTreeInstances() []paint.TreeInstance {
	keys := make([]int, 0, len(s.trees))
	for k := range s.trees {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var out []paint.TreeInstance
	for _, k := range keys {
		out = append(out, s.trees[k]...)
	}
	return out
}

// TreeCount returns the total number of stored instances.
func (s *Store) TreeCount() int {
	n := 0
	for _, instances := range s.trees {
		n += len(instances)
	}
	return n
}
