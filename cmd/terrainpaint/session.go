package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/internal/config"
	"github.com/Faultbox/terrain-painter/internal/fetch"
	"github.com/Faultbox/terrain-painter/internal/logger"
	"github.com/Faultbox/terrain-painter/internal/project"
	"github.com/Faultbox/terrain-painter/internal/terrain"
	"github.com/Faultbox/terrain-painter/pkg/formats"
	"github.com/Faultbox/terrain-painter/pkg/paint"
)

// command is the state shared by every subcommand after flag parsing.
type command struct {
	name  string
	fs    *flag.FlagSet
	flags *config.Flags
	cfg   *config.Config
	out   io.Writer
}

func newCommand(name string, out io.Writer) *command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return &command{name: name, fs: fs, flags: config.RegisterFlags(fs), out: out}
}

// parse parses args, loads the config and initializes logging. At least
// minArgs positional arguments are required.
func (c *command) parse(args []string, minArgs int, usage string) error {
	if err := c.fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if c.fs.NArg() < minArgs {
		return fmt.Errorf("%w: terrainpaint %s", errUsage, usage)
	}

	cfg, err := config.Load(c.flags)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	return nil
}

// context returns a context bounded by the fetch timeout.
func (c *command) context() (context.Context, context.CancelFunc) {
	if c.cfg.Fetch.Timeout > 0 {
		return context.WithTimeout(context.Background(), c.cfg.Fetch.Timeout)
	}
	return context.WithCancel(context.Background())
}

// session is a loaded project, optionally with its terrain.
type session struct {
	source  string
	path    string
	project *project.Project
	scene   *project.Scene
	terrain *terrain.Terrain
	painter *paint.Painter
}

// open resolves and loads the project src. withTerrain also loads the heightmap.
func (c *command) open(src string, withTerrain bool) (*session, error) {
	ctx, cancel := c.context()
	defer cancel()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := fetch.Resolve(ctx, src, cwd, c.cfg.Fetch.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	p, err := project.Load(path)
	if err != nil {
		return nil, err
	}
	scene, err := p.Build()
	if err != nil {
		return nil, err
	}
	for _, w := range scene.Unresolved {
		logger.Warn("tree area not found", zap.Int("rule", w.Rule), zap.String("field", w.Field))
	}

	s := &session{source: src, path: path, project: p, scene: scene}
	if !withTerrain {
		return s, nil
	}

	ts := p.Terrain
	hmSrc := ts.Heightmap
	if fetch.IsRemote(src) {
		// relative heightmaps live next to the remote project, not its cache copy
		hmSrc = fetch.Join(src, hmSrc)
	}
	hmPath, err := fetch.Resolve(ctx, hmSrc, p.Dir(), c.cfg.Fetch.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("heightmap: %w", err)
	}
	raw, err := formats.LoadHeightmap(hmPath, ts.HeightmapFormat, ts.HeightmapWidth)
	if err != nil {
		return nil, err
	}
	logger.Debug("heightmap loaded",
		zap.String("path", hmPath), zap.Int("width", raw.Width), zap.Int("height", raw.Height))

	s.terrain, err = p.NewTerrain(terrain.BuildHeightmap(raw))
	if err != nil {
		return nil, err
	}

	opts := append(c.cfg.PainterOptions(), paint.WithLogger(logger.Named("paint")))
	s.painter = paint.New(opts...)
	return s, nil
}

// export writes the session's painted layers to the output dir.
func (c *command) export(s *session) error {
	written, err := s.terrain.Export(c.cfg.Output.Dir, s.project.TreePrototypes)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintf(c.out, "wrote %s\n", path)
	}
	return nil
}
