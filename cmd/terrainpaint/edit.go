package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Faultbox/terrain-painter/internal/editor"
	"github.com/Faultbox/terrain-painter/internal/project"
	"github.com/Faultbox/terrain-painter/pkg/math"
	"github.com/Faultbox/terrain-painter/pkg/polygon"
)

// DefaultPickRadius is how far from a corner the *-near polygon ops reach.
const DefaultPickRadius = 5

func cmdPolygon(args []string, out io.Writer) error {
	c := newCommand("polygon", out)
	radius := c.fs.Float64("radius", DefaultPickRadius, "Pick radius for move-near and remove-near")
	if err := c.parse(args, 3, "polygon [flags] <project.yaml> <name> <ops...>"); err != nil {
		return err
	}
	s, err := c.open(c.fs.Arg(0), false)
	if err != nil {
		return err
	}
	name := c.fs.Arg(1)
	ops := c.fs.Args()[2:]

	start, err := s.project.Polygon(name)
	switch {
	case ops[0] == "new":
		if err == nil {
			return fmt.Errorf("polygon %q: %w", name, project.ErrDuplicatePolygon)
		}
		if !errors.Is(err, project.ErrUnknownPolygon) {
			return err
		}
		start = polygon.Default()
		ops = ops[1:]
	case err != nil:
		return fmt.Errorf("%w (start with \"new\" to create it)", err)
	}

	h := editor.NewHistory(start, 0)
	if err := applyPolygonOps(h, ops, float32(*radius)); err != nil {
		return err
	}

	p := h.Current()
	s.project.SetPolygon(name, p)
	if err := s.project.Save(s.path); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d points, area %.2f, saved %s\n", name, p.Len(), p.Area(), s.path)
	return nil
}

// polygonOpArgs is the argument count of each polygon editing op.
var polygonOpArgs = map[string]int{
	"add-point":    1,
	"move-point":   3,
	"remove-point": 1,
	"move-near":    4,
	"remove-near":  2,
	"move":         2,
}

// stepHistory runs the undo and redo ops. handled is false for other ops.
func stepHistory[T any](h *editor.History[T], op string) (handled bool, err error) {
	switch op {
	case "undo":
		if _, ok := h.Undo(); !ok {
			return true, errors.New("nothing to undo")
		}
		return true, nil
	case "redo":
		if _, ok := h.Redo(); !ok {
			return true, errors.New("nothing to redo")
		}
		return true, nil
	}
	return false, nil
}

// applyPolygonOps runs editing ops against the history's current polygon.
func applyPolygonOps(h *editor.History[*polygon.Polygon], ops []string, radius float32) error {
	for len(ops) > 0 {
		op := ops[0]
		ops = ops[1:]

		if handled, err := stepHistory(h, op); handled {
			if err != nil {
				return err
			}
			continue
		}

		n, ok := polygonOpArgs[op]
		if !ok {
			return fmt.Errorf("%w: unknown polygon op %q", errUsage, op)
		}
		if len(ops) < n {
			return fmt.Errorf("%w: %s needs %d arguments", errUsage, op, n)
		}
		edit, err := polygonOp(h.Current(), op, ops[:n], radius)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		ops = ops[n:]
		h.Do(edit)
	}
	return nil
}

func polygonOp(p *polygon.Polygon, op string, args []string, radius float32) (editor.PolygonEdit, error) {
	switch op {
	case "move":
		x, z, err := parseXZ(args[0], args[1])
		if err != nil {
			return editor.PolygonEdit{}, err
		}
		return editor.MovePolygon(p, math.Vec3{X: x, Z: z})

	case "move-near", "remove-near":
		x, z, err := parseXZ(args[0], args[1])
		if err != nil {
			return editor.PolygonEdit{}, err
		}
		index, ok := editor.NearestVertex(p, math.Vec3{X: x, Z: z}, radius)
		if !ok {
			return editor.PolygonEdit{}, fmt.Errorf("no corner within %g of (%g, %g)", radius, x, z)
		}
		if op == "remove-near" {
			return editor.RemovePoint(p, index)
		}
		nx, nz, err := parseXZ(args[2], args[3])
		if err != nil {
			return editor.PolygonEdit{}, err
		}
		return editor.MovePoint(p, index, math.Vec3{X: nx, Z: nz})
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		return editor.PolygonEdit{}, fmt.Errorf("%w: bad index %q", errUsage, args[0])
	}
	switch op {
	case "add-point":
		return editor.AddPointOnEdge(p, index)
	case "remove-point":
		return editor.RemovePoint(p, index)
	default:
		x, z, err := parseXZ(args[1], args[2])
		if err != nil {
			return editor.PolygonEdit{}, err
		}
		return editor.MovePoint(p, index, math.Vec3{X: x, Z: z})
	}
}

func parseXZ(xs, zs string) (x, z float32, err error) {
	xv, err := strconv.ParseFloat(xs, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad number %q", errUsage, xs)
	}
	zv, err := strconv.ParseFloat(zs, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad number %q", errUsage, zs)
	}
	return float32(xv), float32(zv), nil
}

func cmdRule(args []string, out io.Writer) error {
	c := newCommand("rule", out)
	if err := c.parse(args, 3, "rule [flags] <project.yaml> <splat|detail|tree> <ops...>"); err != nil {
		return err
	}
	s, err := c.open(c.fs.Arg(0), false)
	if err != nil {
		return err
	}
	kind := c.fs.Arg(1)
	ops := c.fs.Args()[2:]

	p := s.project
	var count int
	switch kind {
	case "splat":
		list, err := editRules(p.SplatRules, ops, nil)
		if err != nil {
			return err
		}
		p.SplatRules, count = list, len(list)
	case "detail":
		list, err := editRules(p.DetailRules, ops, project.DetailRule.Clone)
		if err != nil {
			return err
		}
		p.DetailRules, count = list, len(list)
	case "tree":
		list, err := editRules(p.TreeRules, ops, project.TreeRule.Clone)
		if err != nil {
			return err
		}
		p.TreeRules, count = list, len(list)
	default:
		return fmt.Errorf("%w: unknown rule kind %q", errUsage, kind)
	}

	if err := p.Save(s.path); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s_rules: %d rules, saved %s\n", kind, count, s.path)
	return nil
}

// ruleOpArgs is the argument count of each rule list op.
var ruleOpArgs = map[string]int{
	"add":    1,
	"remove": 1,
	"clone":  1,
	"up":     1,
	"down":   1,
	"swap":   2,
}

// editRules runs list ops over a rule list. "add" inserts an empty rule.
func editRules[T any](list []T, ops []string, clone func(T) T) ([]T, error) {
	h := editor.NewHistory(list, 0)
	for len(ops) > 0 {
		op := ops[0]
		ops = ops[1:]

		if handled, err := stepHistory(h, op); handled {
			if err != nil {
				return nil, err
			}
			continue
		}

		n, ok := ruleOpArgs[op]
		if !ok {
			return nil, fmt.Errorf("%w: unknown rule op %q", errUsage, op)
		}
		if len(ops) < n {
			return nil, fmt.Errorf("%w: %s needs %d arguments", errUsage, op, n)
		}
		idx := make([]int, n)
		for k, arg := range ops[:n] {
			v, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("%w: bad index %q", errUsage, arg)
			}
			idx[k] = v
		}
		ops = ops[n:]

		before := h.Current()
		var after []T
		var err error
		switch op {
		case "add":
			var empty T
			after, err = editor.InsertAt(before, idx[0], empty)
		case "remove":
			after, err = editor.RemoveAt(before, idx[0])
		case "clone":
			after, err = editor.CloneAt(before, idx[0], clone)
		case "up":
			after, err = editor.MoveUp(before, idx[0])
		case "down":
			after, err = editor.MoveDown(before, idx[0])
		case "swap":
			after, err = editor.Swap(before, idx[0], idx[1])
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		h.Do(editor.ListEdit(op, before, after))
	}
	return h.Current(), nil
}
