// Package main is the entry point for the textcore command, a small driver
// that inspects, converts and searches files through the text engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage marks a command line mistake; usage has already been printed.
var errUsage = errors.New("usage")

// Options holds the global flags.
type Options struct {
	ConfigPath string
	LogLevel   string
}

// env is what every subcommand runs with.
type env struct {
	ctx     context.Context
	cfg     *config.Config
	cfgPath string
	log     *logging.Logger
	stdout  io.Writer
	stderr  io.Writer
}

type command struct {
	name    string
	summary string
	run     func(e *env, args []string) error
}

var commands = []command{
	{"info", "show detected encoding, BOM and line endings", runInfo},
	{"convert", "rewrite a file with other attributes", runConvert},
	{"find", "list matches of a pattern", runFind},
	{"replace", "replace every match of a pattern", runReplace},
	{"words", "list words starting with a prefix", runWords},
	{"watch", "print configuration reloads", runWatch},
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, args := parseFlags()
	if len(args) == 0 {
		flag.Usage()
		return 2
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		flag.Usage()
		return 2
	}

	cfg, cfgPath, err := loadConfig(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	warnings := cfg.Validate()

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()
	if warnings != nil {
		log.Warn("config values reset to defaults", "path", cfgPath, "err", warnings)
	}

	// Handle signals for graceful cancellation of long loads and watch.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := &env{
		ctx:     ctx,
		cfg:     cfg,
		cfgPath: cfgPath,
		log:     log.WithComponent(cmd.name),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	if err := cmd.run(e, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (Options, []string) {
	var opts Options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textcore - text engine driver\n\n")
		fmt.Fprintf(os.Stderr, "Usage: textcore [options] command [arguments]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		for _, c := range commands {
			fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.summary)
		}
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  textcore info -json notes.txt\n")
		fmt.Fprintf(os.Stderr, "  textcore convert -encoding utf-16le -eol crlf -bom notes.txt\n")
		fmt.Fprintf(os.Stderr, "  textcore find -regex -i 'fo+' notes.txt\n")
		fmt.Fprintf(os.Stderr, "  textcore replace -regex '(\\w+)@(\\w+)' '$2 at $1' notes.txt\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("textcore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		switch opts.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(2)
		}
	}

	return opts, flag.Args()
}

// loadConfig reads the config file and environment. An empty path selects
// the default location.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Default(), "", nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return cfg, path, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, func(), error) {
	lc := cfg.LoggerConfig()
	if cfg.Log.File == "" {
		return logging.New(lc), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	lc.Output = f
	return logging.New(lc), func() { f.Close() }, nil
}

// openDocument loads a file into a new engine configured from e.cfg.
func (e *env) openDocument(path string) (*engine.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc := engine.New(append(e.cfg.EngineOptions(), engine.WithLogger(e.log))...)
	if err := doc.LoadContext(e.ctx, f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// saveDocument writes doc to path and marks it saved.
func saveDocument(doc *engine.Engine, path string) error {
	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, doc.SaveBytes(), mode); err != nil {
		return err
	}
	doc.MarkSaved()
	return nil
}
