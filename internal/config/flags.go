package config

import "flag"

// Flags are the global command-line overrides shared by every subcommand.
type Flags struct {
	fs *flag.FlagSet

	config string
	debug  bool
	seed   int64
	out    string
	log    string
}

// RegisterFlags defines the global flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.config, "config", "", "Path to config file")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.Int64Var(&f.seed, "seed", 0, "Random seed for a reproducible paint")
	fs.StringVar(&f.out, "out", "", "Output directory")
	fs.StringVar(&f.log, "log", "", "Log file path")
	return f
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.config
}

// set reports whether name was given on the command line.
func (f *Flags) set(name string) bool {
	found := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	if f.set("seed") {
		seed := f.seed
		cfg.Paint.Seed = &seed
	}
	if f.out != "" {
		cfg.Output.Dir = f.out
	}
	if f.log != "" {
		cfg.Logging.LogFile = f.log
	}
}
