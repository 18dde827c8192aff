package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	gomath "math"
	"strings"

	"github.com/Faultbox/terrain-painter/pkg/math"
	"github.com/Faultbox/terrain-painter/pkg/paint"
	"github.com/Faultbox/terrain-painter/pkg/rules"
)

// errWarnings is returned by validate when any rule has a problem.
var errWarnings = errors.New("rule warnings")

// pointList collects repeated "X,Z" flag values.
type pointList []math.Vec3

func (l *pointList) String() string {
	parts := make([]string, len(*l))
	for i, p := range *l {
		parts[i] = fmt.Sprintf("%g,%g", p.X, p.Z)
	}
	return strings.Join(parts, " ")
}

func (l *pointList) Set(v string) error {
	xs, zs, ok := strings.Cut(v, ",")
	if !ok {
		return fmt.Errorf("want X,Z, got %q", v)
	}
	x, z, err := parseXZ(strings.TrimSpace(xs), strings.TrimSpace(zs))
	if err != nil {
		return err
	}
	*l = append(*l, math.Vec3{X: x, Z: z})
	return nil
}

// registerLayerPoints adds the repeatable -at flag to fs.
func registerLayerPoints(fs *flag.FlagSet) *pointList {
	var l pointList
	fs.Var(&l, "at", "Report the dominant splat layer at world X,Z (repeatable)")
	return &l
}

func cmdPaint(args []string, out io.Writer) error {
	c := newCommand("paint", out)
	at := registerLayerPoints(c.fs)
	if err := c.parse(args, 1, "paint [flags] <project.yaml>"); err != nil {
		return err
	}
	s, err := c.open(c.fs.Arg(0), true)
	if err != nil {
		return err
	}

	if err := paintSplat(c, s); err != nil {
		return err
	}
	reportLayers(c, s, *at)
	if err := paintDetails(c, s); err != nil {
		return err
	}
	if err := paintTrees(c, s, -1); err != nil {
		return err
	}
	return c.export(s)
}

func cmdSplat(args []string, out io.Writer) error {
	c := newCommand("splat", out)
	at := registerLayerPoints(c.fs)
	if err := c.parse(args, 1, "splat [flags] <project.yaml>"); err != nil {
		return err
	}
	s, err := c.open(c.fs.Arg(0), true)
	if err != nil {
		return err
	}
	if err := paintSplat(c, s); err != nil {
		return err
	}
	reportLayers(c, s, *at)
	return c.export(s)
}

func cmdDetails(args []string, out io.Writer) error {
	c := newCommand("details", out)
	if err := c.parse(args, 1, "details [flags] <project.yaml>"); err != nil {
		return err
	}
	s, err := c.open(c.fs.Arg(0), true)
	if err != nil {
		return err
	}
	if err := paintDetails(c, s); err != nil {
		return err
	}
	return c.export(s)
}

func cmdTrees(args []string, out io.Writer) error {
	c := newCommand("trees", out)
	tree := c.fs.Int("tree", -1, "Tree prototype index (-1 = all)")
	if err := c.parse(args, 1, "trees [-tree N] [flags] <project.yaml>"); err != nil {
		return err
	}
	s, err := c.open(c.fs.Arg(0), true)
	if err != nil {
		return err
	}
	if err := paintTrees(c, s, *tree); err != nil {
		return err
	}
	return c.export(s)
}

func paintSplat(c *command, s *session) error {
	if s.terrain.SplatLayers == 0 {
		fmt.Fprintln(c.out, "splat: no layers, skipped")
		return nil
	}
	a, err := s.painter.PaintSplat(s.terrain, s.scene.SplatRules)
	if err != nil {
		return fmt.Errorf("splat: %w", err)
	}

	counts := make([]int, a.Layers)
	for z := range a.Height {
		for x := range a.Width {
			for _, layer := range a.Active(x, z) {
				counts[layer]++
			}
		}
	}
	fmt.Fprintf(c.out, "splat: %dx%d cells\n", a.Width, a.Height)
	for i, n := range counts {
		fmt.Fprintf(c.out, "  %-16s %d cells\n", s.project.SplatLayers[i], n)
	}
	return nil
}

// reportLayers prints the dominant painted splat layer under each point.
func reportLayers(c *command, s *session, points pointList) {
	for _, p := range points {
		name := "none"
		if layer, ok := s.terrain.MostUsedLayerAt(p); ok {
			name = s.project.SplatLayers[layer]
		}
		fmt.Fprintf(c.out, "  layer at (%g, %g): %s\n", p.X, p.Z, name)
	}
}

func paintDetails(c *command, s *session) error {
	if s.terrain.DetailLayers == 0 {
		fmt.Fprintln(c.out, "details: no layers, skipped")
		return nil
	}
	m, err := s.painter.PaintDetails(s.terrain, s.scene.DetailRules)
	if err != nil {
		return fmt.Errorf("details: %w", err)
	}
	fmt.Fprintf(c.out, "details: %d layers painted\n", len(m))
	for _, index := range m.Indices() {
		fmt.Fprintf(c.out, "  %-16s %d cells\n", s.project.DetailLayers[index], m[index].Covered())
	}
	return nil
}

// paintTrees repaints one prototype, or all of them when index is negative.
func paintTrees(c *command, s *session, index int) error {
	if s.terrain.TreePrototypes == 0 {
		fmt.Fprintln(c.out, "trees: no prototypes, skipped")
		return nil
	}

	var placed [][]paint.TreeInstance
	if index < 0 {
		all, err := s.painter.PaintAllTrees(s.terrain, s.scene.TreeRules)
		if err != nil {
			return fmt.Errorf("trees: %w", err)
		}
		placed = all
	} else {
		one, err := s.painter.PaintTrees(s.terrain, s.scene.TreeRules, index)
		if err != nil {
			return fmt.Errorf("trees: %w", err)
		}
		placed = make([][]paint.TreeInstance, s.terrain.TreePrototypes)
		placed[index] = one
	}

	fmt.Fprintln(c.out, "trees:")
	for i, instances := range placed {
		if index >= 0 && i != index {
			continue
		}
		fmt.Fprintf(c.out, "  %-16s %d instances\n", s.project.TreePrototypes[i], len(instances))
	}
	return nil
}

func cmdArea(args []string, out io.Writer) error {
	c := newCommand("area", out)
	if err := c.parse(args, 1, "area [flags] <project.yaml> [polygon]"); err != nil {
		return err
	}
	s, err := c.open(c.fs.Arg(0), false)
	if err != nil {
		return err
	}

	names := s.scene.PolygonNames
	if c.fs.NArg() > 1 {
		name := c.fs.Arg(1)
		if _, ok := s.scene.Polygons[name]; !ok {
			return fmt.Errorf("polygon %q not found", name)
		}
		names = []string{name}
	}

	fmt.Fprintf(out, "%-16s %12s %12s  %s\n", "POLYGON", "SIGNED", "AREA", "BOUNDS")
	for _, name := range names {
		p := s.scene.Polygons[name]
		b := p.Bounds()
		fmt.Fprintf(out, "%-16s %12.2f %12.2f  x[%g, %g] z[%g, %g]\n",
			name, p.CalculateAreaSize(), p.Area(), b.XMin, b.XMax, b.ZMin, b.ZMax)
	}
	return nil
}

func cmdValidate(args []string, out io.Writer) error {
	c := newCommand("validate", out)
	if err := c.parse(args, 1, "validate [flags] <project.yaml>"); err != nil {
		return err
	}
	s, err := c.open(c.fs.Arg(0), false)
	if err != nil {
		return err
	}

	splat, detail, trees := s.scene.Warnings()
	total := 0
	for _, group := range []struct {
		name     string
		warnings []rules.Warning
	}{
		{"splat_rules", splat},
		{"detail_rules", detail},
		{"tree_rules", trees},
	} {
		for _, w := range group.warnings {
			fmt.Fprintf(out, "%s: %s [%s]\n", group.name, w, w.Kind)
			total++
		}
	}

	if total > 0 {
		fmt.Fprintf(out, "%d warning(s)\n", total)
		return errWarnings
	}
	fmt.Fprintln(out, "ok")
	return nil
}

func cmdInfo(args []string, out io.Writer) error {
	c := newCommand("info", out)
	if err := c.parse(args, 1, "info [flags] <project.yaml>"); err != nil {
		return err
	}
	s, err := c.open(c.fs.Arg(0), true)
	if err != nil {
		return err
	}

	t := s.terrain
	b := t.Bounds()
	minH, maxH := float32(gomath.MaxFloat32), float32(-gomath.MaxFloat32)
	peak := 0
	for i, v := range t.Heights.Values {
		minH = min(minH, v)
		if v > maxH {
			maxH, peak = v, i
		}
	}
	top := t.HeightmapToWorld(peak%t.Heights.Width, peak/t.Heights.Width)

	fmt.Fprintf(out, "Project:    %s\n", s.path)
	fmt.Fprintf(out, "Heightmap:  %dx%d (%s)\n", t.Heights.Width, t.Heights.Height, s.project.Terrain.HeightmapFormat)
	fmt.Fprintf(out, "Size:       %g x %g x %g\n", t.Size.X, t.Size.Y, t.Size.Z)
	fmt.Fprintf(out, "Bounds:     x[%g, %g] z[%g, %g]\n", b.XMin, b.XMax, b.ZMin, b.ZMax)
	fmt.Fprintf(out, "Heights:    %.2f .. %.2f\n", minH*t.Size.Y+t.Position.Y, maxH*t.Size.Y+t.Position.Y)
	fmt.Fprintf(out, "Peak:       (%.2f, %.2f, %.2f)\n", top.X, top.Y, top.Z)
	fmt.Fprintf(out, "Alphamap:   %dx%d\n", t.AlphamapWidth, t.AlphamapHeight)
	fmt.Fprintf(out, "Detail:     %dx%d\n", t.DetailWidth, t.DetailHeight)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Splat layers:    %d, %d rules\n", t.SplatLayers, len(s.scene.SplatRules))
	fmt.Fprintf(out, "Detail layers:   %d, %d rules\n", t.DetailLayers, len(s.scene.DetailRules))
	fmt.Fprintf(out, "Tree prototypes: %d, %d rules\n", t.TreePrototypes, len(s.scene.TreeRules))
	fmt.Fprintf(out, "Polygons:        %d\n", len(s.scene.PolygonNames))
	return nil
}

// cmdConfig writes the effective configuration, defaults overlaid with the
// config file and flags, to path or to the user config dir.
func cmdConfig(args []string, out io.Writer) error {
	c := newCommand("config", out)
	if err := c.parse(args, 0, "config [flags] [path]"); err != nil {
		return err
	}

	var path string
	var err error
	if c.fs.NArg() > 0 {
		path = c.fs.Arg(0)
		err = c.cfg.SaveTo(path)
	} else {
		path, err = c.cfg.Save()
	}
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}
