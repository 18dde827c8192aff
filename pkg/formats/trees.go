package formats

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// TreeRecord is one tree instance in a trees document.
type TreeRecord struct {
	Prototype   int        `yaml:"prototype"`
	Position    [3]float32 `yaml:"position,flow"`
	Rotation    float32    `yaml:"rotation"`
	WidthScale  float32    `yaml:"width_scale"`
	HeightScale float32    `yaml:"height_scale"`
}

// TreeDocument is the YAML layout of exported tree instances.
type TreeDocument struct {
	Prototypes []string     `yaml:"prototypes,omitempty"`
	Trees      []TreeRecord `yaml:"trees"`
}

// CountByPrototype returns the number of trees per prototype index.
func (d *TreeDocument) CountByPrototype() map[int]int {
	counts := make(map[int]int)
	for _, t := range d.Trees {
		counts[t.Prototype]++
	}
	return counts
}

// EncodeTrees writes a trees document as YAML.
func EncodeTrees(w io.Writer, doc *TreeDocument) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding trees: %w", err)
	}
	return enc.Close()
}

// DecodeTrees reads a trees document.
func DecodeTrees(r io.Reader) (*TreeDocument, error) {
	var doc TreeDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding trees: %w", err)
	}
	return &doc, nil
}
