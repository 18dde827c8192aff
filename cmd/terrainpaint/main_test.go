package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/terrain-painter/internal/editor"
	"github.com/Faultbox/terrain-painter/internal/project"
	"github.com/Faultbox/terrain-painter/pkg/formats"
)

const testProject = `
terrain:
  heightmap: heights.raw
  size: {x: 100, y: 100, z: 100}
  alphamap_resolution: 4
  detail_resolution: 4
splat_layers: [low, high]
detail_layers: [grass]
tree_prototypes: [pine]
polygons:
  - name: forest
    points: [[0, 0], [50, 0], [50, 50], [0, 50], [0, 0]]
splat_rules:
  - {layer: 0, height: {use: true, min: 0, max: 50}}
  - {layer: 1}
detail_rules:
  - {layer: 0}
tree_rules:
  - {tree: 0, density: 0.01, areas: [forest]}
`

// writeProject writes a project with a 3x3 heightmap rising along x.
func writeProject(t *testing.T, body string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := t.TempDir()
	raw := &formats.RawHeightmap{
		Width: 3, Height: 3, Depth: 16,
		Samples: []uint16{0, 32768, 65535, 0, 32768, 65535, 0, 32768, 65535},
	}
	data, err := raw.EncodeRAW(formats.RAW16)
	if err != nil {
		t.Fatalf("EncodeRAW failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "heights.raw"), data, 0644); err != nil {
		t.Fatalf("failed to write heightmap: %v", err)
	}

	path := filepath.Join(dir, "project.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write project: %v", err)
	}
	return path
}

func TestRun_Paint(t *testing.T) {
	path := writeProject(t, testProject)
	out := filepath.Join(t.TempDir(), "out")

	var buf bytes.Buffer
	if err := run([]string{"paint", "-seed", "1", "-out", out, path}, &buf); err != nil {
		t.Fatalf("paint failed: %v\n%s", err, buf.String())
	}

	for _, name := range []string{"splat_control_0.png", "detail_0.png", "trees.yaml"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	f, err := os.Open(filepath.Join(out, "trees.yaml"))
	if err != nil {
		t.Fatalf("open trees: %v", err)
	}
	defer f.Close()
	doc, err := formats.DecodeTrees(f)
	if err != nil {
		t.Fatalf("DecodeTrees failed: %v", err)
	}
	if len(doc.Trees) != 25 {
		t.Errorf("placed %d trees, want 25", len(doc.Trees))
	}
	for _, tree := range doc.Trees {
		x, z := tree.Position[0], tree.Position[2]
		if x < 0 || x >= 50 || z < 0 || z >= 50 {
			t.Errorf("tree at (%v, %v) outside forest", x, z)
		}
	}

	if !strings.Contains(buf.String(), "pine") || !strings.Contains(buf.String(), "25 instances") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRun_PaintSeedIsReproducible(t *testing.T) {
	path := writeProject(t, testProject)

	read := func(dir string) []byte {
		var buf bytes.Buffer
		if err := run([]string{"trees", "-tree", "0", "-seed", "9", "-out", dir, path}, &buf); err != nil {
			t.Fatalf("trees failed: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dir, "trees.yaml"))
		if err != nil {
			t.Fatalf("read trees: %v", err)
		}
		return data
	}

	a := read(filepath.Join(t.TempDir(), "a"))
	b := read(filepath.Join(t.TempDir(), "b"))
	if !bytes.Equal(a, b) {
		t.Error("same seed produced different trees")
	}
}

func TestRun_TreesBadIndex(t *testing.T) {
	path := writeProject(t, testProject)

	var buf bytes.Buffer
	err := run([]string{"trees", "-tree", "3", "-out", t.TempDir(), path}, &buf)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error = %v, want tree index error", err)
	}
}

func TestRun_Area(t *testing.T) {
	path := writeProject(t, testProject)

	var buf bytes.Buffer
	if err := run([]string{"area", path, "forest"}, &buf); err != nil {
		t.Fatalf("area failed: %v", err)
	}
	if !strings.Contains(buf.String(), "forest") || !strings.Contains(buf.String(), "2500.00") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	if err := run([]string{"area", path, "swamp"}, &buf); err == nil {
		t.Error("expected error for unknown polygon")
	}
}

func TestRun_Validate(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"validate", writeProject(t, testProject)}, &buf); err != nil {
		t.Fatalf("validate failed: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "ok") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	bad := strings.Replace(testProject, "areas: [forest]", "areas: [forest, swamp]", 1)
	bad = strings.Replace(bad, "- {layer: 1}", "- {layer: 5}", 1)

	buf.Reset()
	err := run([]string{"validate", writeProject(t, bad)}, &buf)
	if !errors.Is(err, errWarnings) {
		t.Fatalf("error = %v, want errWarnings", err)
	}
	out := buf.String()
	for _, want := range []string{"layer-index", `unknown polygon "swamp"`, "2 warning(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_Info(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"info", writeProject(t, testProject)}, &buf); err != nil {
		t.Fatalf("info failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Heightmap:  3x3 (raw16)", "Heights:    0.00 .. 100.00", "Peak:       (100.00, 100.00, 0.00)", "Tree prototypes: 1, 1 rules"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_InfoFromFileSource(t *testing.T) {
	path := writeProject(t, testProject)

	var buf bytes.Buffer
	if err := run([]string{"info", "file::" + path}, &buf); err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Heightmap:  3x3 (raw16)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRun_Polygon(t *testing.T) {
	path := writeProject(t, testProject)

	var buf bytes.Buffer
	args := []string{"polygon", path, "forest", "add-point", "0", "remove-point", "2", "undo", "move-point", "1", "60", "0"}
	if err := run(args, &buf); err != nil {
		t.Fatalf("polygon failed: %v", err)
	}

	p, err := project.Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	forest, err := p.Polygon("forest")
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	if forest.Len() != 6 {
		t.Errorf("forest has %d points, want 6", forest.Len())
	}
	if v := forest.Vertex(1); v.X != 60 || v.Z != 0 {
		t.Errorf("moved point = %v, want (60, 0, 0)", v)
	}

	if err := run([]string{"polygon", path, "meadow", "new", "move", "100", "100"}, &buf); err != nil {
		t.Fatalf("polygon new failed: %v", err)
	}
	p, _ = project.Load(path)
	meadow, err := p.Polygon("meadow")
	if err != nil {
		t.Fatalf("meadow not saved: %v", err)
	}
	if o := meadow.Origin(); o.X != 100 || o.Z != 100 {
		t.Errorf("meadow origin = %v, want (100, 0, 100)", o)
	}

	if err := run([]string{"polygon", path, "lake", "move", "1", "1"}, &buf); err == nil {
		t.Error("expected error editing a missing polygon")
	}
	if err := run([]string{"polygon", path, "meadow", "new"}, &buf); !errors.Is(err, project.ErrDuplicatePolygon) {
		t.Errorf("new on existing polygon error = %v, want ErrDuplicatePolygon", err)
	}
	if err := run([]string{"polygon", path, "forest", "spin"}, &buf); !errors.Is(err, errUsage) {
		t.Errorf("error = %v, want errUsage", err)
	}
}

func TestRun_PolygonPickByPosition(t *testing.T) {
	path := writeProject(t, testProject)

	var buf bytes.Buffer
	args := []string{"polygon", "-radius", "3", path, "forest", "move-near", "49", "1", "70", "0", "remove-near", "0", "50"}
	if err := run(args, &buf); err != nil {
		t.Fatalf("polygon failed: %v", err)
	}

	p, err := project.Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	forest, err := p.Polygon("forest")
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	if forest.Len() != 4 {
		t.Errorf("forest has %d points, want 4", forest.Len())
	}
	if v := forest.Vertex(1); v.X != 70 || v.Z != 0 {
		t.Errorf("picked corner = %v, want (70, 0, 0)", v)
	}

	err = run([]string{"polygon", path, "forest", "move-near", "200", "200", "1", "1"}, &buf)
	if err == nil || !strings.Contains(err.Error(), "no corner within") {
		t.Errorf("error = %v, want no corner in range", err)
	}
}

func TestRun_Rule(t *testing.T) {
	path := writeProject(t, testProject)

	var buf bytes.Buffer
	args := []string{"rule", path, "tree", "clone", "0", "add", "0", "swap", "0", "2", "undo", "remove", "0"}
	if err := run(args, &buf); err != nil {
		t.Fatalf("rule failed: %v", err)
	}
	if err := run([]string{"rule", path, "splat", "up", "1"}, &buf); err != nil {
		t.Fatalf("rule splat failed: %v", err)
	}

	p, err := project.Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(p.TreeRules) != 2 {
		t.Fatalf("tree rules = %d, want 2", len(p.TreeRules))
	}
	for i, r := range p.TreeRules {
		if r.Density != 0.01 || len(r.Areas) != 1 || r.Areas[0] != "forest" {
			t.Errorf("tree rule %d = %+v, want forest clone", i, r)
		}
	}
	if p.SplatRules[0].Layer != 1 || p.SplatRules[1].Layer != 0 {
		t.Errorf("splat rules = %+v, want layer 1 moved first", p.SplatRules)
	}

	if err := run([]string{"rule", path, "tree", "remove", "5"}, &buf); !errors.Is(err, editor.ErrListIndex) {
		t.Errorf("error = %v, want ErrListIndex", err)
	}
	if err := run([]string{"rule", path, "water", "up", "0"}, &buf); !errors.Is(err, errUsage) {
		t.Errorf("error = %v, want errUsage", err)
	}
	if err := run([]string{"rule", path, "detail", "undo"}, &buf); err == nil {
		t.Error("expected error when nothing can be undone")
	}
}

func TestRun_SplatLayerAt(t *testing.T) {
	path := writeProject(t, testProject)

	var buf bytes.Buffer
	args := []string{"splat", "-seed", "1", "-out", t.TempDir(), "-at", "10,10", "-at", "90,10", "-at", "500,10", path}
	if err := run(args, &buf); err != nil {
		t.Fatalf("splat failed: %v\n%s", err, buf.String())
	}
	for _, want := range []string{
		"layer at (10, 10): low",
		"layer at (90, 10): high",
		"layer at (500, 10): none",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}

	if err := run([]string{"splat", "-at", "10", path}, &buf); !errors.Is(err, errUsage) {
		t.Errorf("bad -at error = %v, want errUsage", err)
	}
}

func TestRun_Config(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "terrainpaint.yaml")

	var buf bytes.Buffer
	if err := run([]string{"config", "-seed", "11", "-out", "build", path}, &buf); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	for _, want := range []string{"seed: 11", "dir: build"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config missing %q:\n%s", want, data)
		}
	}

	buf.Reset()
	if err := run([]string{"config"}, &buf); err != nil {
		t.Fatalf("config to user dir failed: %v", err)
	}
	if !strings.Contains(buf.String(), "terrain-painter") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRun_Usage(t *testing.T) {
	var buf bytes.Buffer
	if err := run(nil, &buf); !errors.Is(err, errUsage) {
		t.Errorf("no args error = %v, want errUsage", err)
	}
	if err := run([]string{"sculpt"}, &buf); !errors.Is(err, errUsage) {
		t.Errorf("unknown command error = %v, want errUsage", err)
	}
	if err := run([]string{"paint"}, &buf); !errors.Is(err, errUsage) {
		t.Errorf("missing project error = %v, want errUsage", err)
	}

	buf.Reset()
	if err := run([]string{"help"}, &buf); err != nil {
		t.Errorf("help error = %v", err)
	}
	if !strings.Contains(buf.String(), "Commands:") {
		t.Error("help should print usage")
	}
}
