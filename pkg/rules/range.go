// Package rules defines the paint rules evaluated by the terrain painter.
package rules

import "fmt"

// Range is a half-open interval [Min, Max).
type Range struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

// Contains reports whether Min <= v < Max. Inverted ranges contain nothing.
func (r Range) Contains(v float32) bool {
	return v >= r.Min && v < r.Max
}

// Inverted reports whether Min > Max.
func (r Range) Inverted() bool {
	return r.Min > r.Max
}

// Empty reports whether the range can never contain a value.
func (r Range) Empty() bool {
	return r.Min >= r.Max
}

// String returns "[min, max)".
func (r Range) String() string {
	return fmt.Sprintf("[%g, %g)", r.Min, r.Max)
}
