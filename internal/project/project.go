// Package project reads and writes the YAML project file that describes a
// terrain, its layers, area polygons and paint rules.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/terrain-painter/pkg/formats"
	"github.com/Faultbox/terrain-painter/pkg/polygon"
)

// Project file errors.
var (
	ErrNoTerrain        = errors.New("project has no terrain section")
	ErrDuplicatePolygon = errors.New("duplicate polygon name")
	ErrUnnamedPolygon   = errors.New("polygon has no name")
	ErrUnknownPolygon   = errors.New("unknown polygon")
	ErrColor            = errors.New("invalid color")
)

// Defaults applied to fields left out of a project file.
const (
	DefaultAlphamapResolution = 512
	DefaultDetailResolution   = 1024
	DefaultHeightmapFormat    = formats.RAW16
)

// Vec3 is a YAML friendly 3D vector.
type Vec3 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// TerrainSettings describes the terrain the rules paint.
type TerrainSettings struct {
	Heightmap          string                  `yaml:"heightmap"`
	HeightmapFormat    formats.HeightmapFormat `yaml:"heightmap_format"`
	HeightmapWidth     int                     `yaml:"heightmap_width,omitempty"`
	Size               Vec3                    `yaml:"size,flow"`
	Position           Vec3                    `yaml:"position,flow"`
	AlphamapResolution int                     `yaml:"alphamap_resolution"`
	DetailResolution   int                     `yaml:"detail_resolution"`
}

// Polygon is a named area polygon. Points are (x, z) pairs.
type Polygon struct {
	Name   string       `yaml:"name"`
	Color  string       `yaml:"color,omitempty"`
	Points [][2]float32 `yaml:"points,flow"`
}

// Range is an optional half-open [min, max) filter.
type Range struct {
	Use bool    `yaml:"use"`
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

// SplatRule is a splat rule as written in the file.
type SplatRule struct {
	Layer  int   `yaml:"layer"`
	Height Range `yaml:"height,omitempty,flow"`
	Slope  Range `yaml:"slope,omitempty,flow"`
}

// DetailRule is a detail rule as written in the file. A missing chance means 1.
type DetailRule struct {
	Layer  int      `yaml:"layer"`
	Chance *float32 `yaml:"chance,omitempty"`
	Height Range    `yaml:"height,omitempty,flow"`
	Slope  Range    `yaml:"slope,omitempty,flow"`
}

// Clone copies the rule, including its chance.
func (r DetailRule) Clone() DetailRule {
	if r.Chance != nil {
		chance := *r.Chance
		r.Chance = &chance
	}
	return r
}

// TreeRule is a tree rule as written in the file. Areas name polygons; an
// empty list covers the whole terrain.
type TreeRule struct {
	Tree    int      `yaml:"tree"`
	Density float32  `yaml:"density"`
	Areas   []string `yaml:"areas,omitempty,flow"`
	Height  Range    `yaml:"height,omitempty,flow"`
	Slope   Range    `yaml:"slope,omitempty,flow"`
}

// Clone copies the rule and its area names.
func (r TreeRule) Clone() TreeRule {
	if r.Areas != nil {
		r.Areas = slices.Clone(r.Areas)
	}
	return r
}

// Project is the root of a project file.
type Project struct {
	Terrain        *TerrainSettings `yaml:"terrain"`
	SplatLayers    []string         `yaml:"splat_layers,flow"`
	DetailLayers   []string         `yaml:"detail_layers,flow"`
	TreePrototypes []string         `yaml:"tree_prototypes,flow"`
	Polygons       []Polygon        `yaml:"polygons"`
	SplatRules     []SplatRule      `yaml:"splat_rules"`
	DetailRules    []DetailRule     `yaml:"detail_rules"`
	TreeRules      []TreeRule       `yaml:"tree_rules"`

	dir string
}

// Load reads and checks a project file. Relative heightmap paths resolve
// against the file's directory.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	return p, nil
}

// Parse decodes a project, applies defaults and checks polygon names.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project: %w", err)
	}
	if p.Terrain == nil {
		return nil, ErrNoTerrain
	}
	p.applyDefaults()
	if err := p.checkPolygons(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Project) applyDefaults() {
	t := p.Terrain
	if t.HeightmapFormat == "" {
		t.HeightmapFormat = DefaultHeightmapFormat
	}
	if t.AlphamapResolution == 0 {
		t.AlphamapResolution = DefaultAlphamapResolution
	}
	if t.DetailResolution == 0 {
		t.DetailResolution = DefaultDetailResolution
	}
}

func (p *Project) checkPolygons() error {
	seen := make(map[string]bool, len(p.Polygons))
	for i, poly := range p.Polygons {
		if poly.Name == "" {
			return fmt.Errorf("polygons[%d]: %w", i, ErrUnnamedPolygon)
		}
		if seen[poly.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicatePolygon, poly.Name)
		}
		seen[poly.Name] = true
		if _, err := ParseColor(poly.Color); err != nil {
			return fmt.Errorf("polygon %q: %w", poly.Name, err)
		}
	}
	return nil
}

// Dir returns the directory the project was loaded from, or "." for parsed data.
func (p *Project) Dir() string {
	if p.dir == "" {
		return "."
	}
	return p.dir
}

// Save writes the project to path.
func (p *Project) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Polygon returns the named polygon as a domain polygon.
func (p *Project) Polygon(name string) (*polygon.Polygon, error) {
	for _, poly := range p.Polygons {
		if poly.Name == name {
			return poly.toDomain()
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolygon, name)
}

// SetPolygon stores a domain polygon under name, replacing an existing one
// or appending a new entry.
func (p *Project) SetPolygon(name string, poly *polygon.Polygon) {
	entry := Polygon{Name: name, Color: FormatColor(poly.Color)}
	for _, v := range poly.Vertices() {
		entry.Points = append(entry.Points, [2]float32{v.X, v.Z})
	}
	for i := range p.Polygons {
		if p.Polygons[i].Name == name {
			p.Polygons[i] = entry
			return
		}
	}
	p.Polygons = append(p.Polygons, entry)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". An empty string is the
// default polygon color.
func ParseColor(s string) (polygon.Color, error) {
	if s == "" {
		return polygon.Blue, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return polygon.Color{}, fmt.Errorf("%w: %q", ErrColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return polygon.Color{}, fmt.Errorf("%w: %q", ErrColor, s)
	}
	return polygon.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// FormatColor formats c as "#rrggbbaa".
func FormatColor(c polygon.Color) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
