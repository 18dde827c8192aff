// terrainpaint paints splat, detail and tree layers onto a heightmap terrain
// from the rules in a project file.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// errUsage marks errors caused by bad arguments.
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		// validate has already printed its warnings
		if !errors.Is(err, errWarnings) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		printUsage(stdout)
		return fmt.Errorf("%w: missing command", errUsage)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "paint":
		return cmdPaint(args, stdout)
	case "splat":
		return cmdSplat(args, stdout)
	case "details":
		return cmdDetails(args, stdout)
	case "trees":
		return cmdTrees(args, stdout)
	case "area":
		return cmdArea(args, stdout)
	case "validate":
		return cmdValidate(args, stdout)
	case "info":
		return cmdInfo(args, stdout)
	case "polygon", "poly":
		return cmdPolygon(args, stdout)
	case "rule":
		return cmdRule(args, stdout)
	case "config":
		return cmdConfig(args, stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stdout)
		return fmt.Errorf("%w: unknown command %s", errUsage, command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `terrainpaint - rule driven terrain painter

Usage:
  terrainpaint <command> [flags] <project.yaml> [args]

Commands:
  paint [-at X,Z] <project>        Paint splat, details and all trees, then export
  splat [-at X,Z] <project>        Paint and export splat weights only
  details <project>                Paint and export detail layers only
  trees [-tree N] <project>        Paint and export trees (all prototypes by default)
  area <project> [polygon]         Show signed and absolute polygon areas
  validate <project>               Report rule problems (exit 1 if any)
  info <project>                   Show terrain, layers and rule summary
  polygon <project> <name> <ops>   Edit a polygon and save the project
  rule <project> <kind> <ops>      Edit splat, detail or tree rules and save
  config [path]                    Write the effective config (default: user config dir)

Polygon ops (applied in order, -radius R sets the *-near pick radius):
  new | add-point EDGE | move-point I X Z | remove-point I | move X Z
  move-near X Z NX NZ | remove-near X Z | undo | redo

Rule ops (kind is splat, detail or tree; applied in order):
  add I | remove I | clone I | up I | down I | swap I J | undo | redo

Global flags (every command):
  -config FILE   Config file (default $TERRAINPAINT_CONFIG, ./terrainpaint.yaml,
                 then the user config dir)
  -debug         Debug logging
  -seed N        Seed the random source for a reproducible paint
  -out DIR       Output directory
  -log FILE      Also log to a rotating file

Examples:
  terrainpaint paint -seed 7 island/project.yaml
  terrainpaint trees -tree 1 -out build island/project.yaml
  terrainpaint area island/project.yaml forest
  terrainpaint splat -at 120,40 island/project.yaml
  terrainpaint polygon island/project.yaml forest add-point 0 move-point 1 25 40
  terrainpaint rule island/project.yaml tree clone 0 up 1`)
}
