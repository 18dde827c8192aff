package terrain

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/terrain-painter/pkg/formats"
)

// Output file names written by Export.
const (
	SplatControlPattern = "splat_control_%d.png"
	DetailPattern       = "detail_%d.png"
	TreesFile           = "trees.yaml"
)

// Export writes the stored paint output to dir: splat control images with
// four layers each, one image per painted detail layer and a trees document.
// prototypes names the tree prototypes in the document and may be nil.
// It returns the paths written.
func (t *Terrain) Export(dir string, prototypes []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	if a := t.Alphamap(); a != nil {
		for i := range formats.SplatImageCount(a.Layers) {
			var buf bytes.Buffer
			first := i * formats.SplatLayersPerImage
			if err := formats.EncodeSplatControl(&buf, a.Width, a.Height, a.Layers, first, a.Weights); err != nil {
				return written, err
			}
			if err := write(fmt.Sprintf(SplatControlPattern, i), buf.Bytes()); err != nil {
				return written, err
			}
		}
	}

	details := t.Details()
	for _, index := range details.Indices() {
		l := details[index]
		var buf bytes.Buffer
		if err := formats.EncodeDetailLayer(&buf, l.Width, l.Height, l.Density); err != nil {
			return written, err
		}
		if err := write(fmt.Sprintf(DetailPattern, index), buf.Bytes()); err != nil {
			return written, err
		}
	}

	if t.TreeCount() > 0 || t.TreePrototypes > 0 {
		doc := &formats.TreeDocument{Prototypes: prototypes}
		for _, inst := range t.AllTreeInstances() {
			doc.Trees = append(doc.Trees, formats.TreeRecord{
				Prototype:   inst.Prototype,
				Position:    [3]float32{inst.Position.X, inst.Position.Y, inst.Position.Z},
				Rotation:    inst.Rotation,
				WidthScale:  inst.WidthScale,
				HeightScale: inst.HeightScale,
			})
		}
		var buf bytes.Buffer
		if err := formats.EncodeTrees(&buf, doc); err != nil {
			return written, err
		}
		if err := write(TreesFile, buf.Bytes()); err != nil {
			return written, err
		}
	}

	return written, nil
}
