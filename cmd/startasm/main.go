// Package main provides the entry point for the StartASM compiler.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tebeka/atexit"

	"github.com/startasm-lang/startasm/internal/cli"
	"github.com/startasm-lang/startasm/internal/pipeline"
	"github.com/startasm-lang/startasm/internal/term"
	"github.com/startasm-lang/startasm/internal/watch"
)

const toolName = "startasm"

var command = cli.CommandInfo{
	Name:        toolName,
	Usage:       "startasm [OPTIONS] <INPUT_FILE>",
	Description: "StartASM compiler",
	Flags: []cli.FlagInfo{
		{Name: "silent", Usage: "Suppress all output"},
		{Name: "timings", Usage: "Print per-stage status and a timing table"},
		{Name: "tree", Usage: "Print the AST"},
		{Name: "ir", Usage: "Print the generated LLVM IR"},
		{Name: "ops", Usage: "With -ir, also list the emitted operations"},
		{Name: "json", Usage: "Print the result (or version) as JSON"},
		{Name: "watch", Usage: "Recompile whenever the input file changes"},
		{Name: "config", Usage: "Configuration file", Default: "startasm.json"},
		{Name: "verbose", Usage: "Log stage progress"},
		{Name: "debug", Usage: "Log debug records"},
		{Name: "version", Usage: "Show version information"},
		{Name: "help", Usage: "Show this help message"},
	},
	Examples: []string{
		"startasm program.sasm",
		"startasm -timings -ir program.sasm",
		"startasm -watch -tree program.sasm",
	},
}

type options struct {
	silent, timings, tree, ir, ops bool
	json, watch                    bool
	verbose, debug                 bool
	configPath                     string
}

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(toolName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		opts        options
		showVersion bool
		showHelp    bool
	)
	fs.BoolVar(&opts.silent, "silent", false, "suppress all output")
	fs.BoolVar(&opts.timings, "timings", false, "print stage timings")
	fs.BoolVar(&opts.tree, "tree", false, "print the AST")
	fs.BoolVar(&opts.ir, "ir", false, "print the LLVM IR")
	fs.BoolVar(&opts.ops, "ops", false, "list emitted operations")
	fs.BoolVar(&opts.json, "json", false, "JSON output")
	fs.BoolVar(&opts.watch, "watch", false, "recompile on change")
	fs.StringVar(&opts.configPath, "config", "startasm.json", "configuration file")
	fs.BoolVar(&opts.verbose, "verbose", false, "log stage progress")
	fs.BoolVar(&opts.debug, "debug", false, "log debug records")
	fs.BoolVar(&showVersion, "version", false, "show version information")
	fs.BoolVar(&showHelp, "help", false, "show help information")
	fs.Usage = func() { cli.PrintUsage(stderr, command) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if showVersion {
		cli.PrintVersion(stdout, toolName, opts.json)
		return 0
	}
	if showHelp {
		cli.PrintUsage(stdout, command)
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: No input file specified")
		cli.PrintUsage(stderr, command)
		return 1
	}

	cfg, err := cli.LoadConfig(opts.configPath, ".env")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	opts.silent = opts.silent || cfg.Silent
	opts.timings = opts.timings || cfg.Timings
	opts.verbose = opts.verbose || cfg.Verbose
	opts.debug = opts.debug || cfg.Debug

	logger := cli.NewLogger(stderr, opts.verbose, opts.debug)
	path := fs.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.watch {
		return watchLoop(ctx, path, opts, logger, stdout)
	}
	if ok := compileOnce(ctx, path, opts, logger, stdout); !ok {
		return 1
	}
	return 0
}

// summary is the -json rendering of one compilation.
type summary struct {
	ID      string   `json:"id"`
	Path    string   `json:"path"`
	OK      bool     `json:"ok"`
	Error   string   `json:"error,omitempty"`
	Stages  []string `json:"stages"`
	NumOps  int      `json:"num_ops"`
	Symbols int      `json:"labels"`
}

func compileOnce(ctx context.Context, path string, opts options, logger *cli.Logger, stdout io.Writer) bool {
	c := pipeline.New(path,
		pipeline.WithLogger(logger.Slog()),
		pipeline.WithOutput(stdout),
		pipeline.WithSilent(opts.silent || opts.json),
		pipeline.WithTimings(opts.timings),
		pipeline.WithTree(opts.tree),
		pipeline.WithIR(opts.ir),
		pipeline.WithOpTable(opts.ops))
	res, err := c.Compile(ctx)

	if opts.json {
		s := summary{ID: res.ID.String(), Path: path, OK: err == nil}
		if err != nil {
			s.Error = err.Error()
		}
		for _, st := range res.Timings {
			s.Stages = append(s.Stages, st.Stage)
		}
		if res.Module != nil && err == nil {
			s.NumOps = res.Module.NumOps()
		}
		if res.Symbols != nil {
			s.Symbols = res.Symbols.Len()
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(s)
		return err == nil
	}

	if opts.silent {
		return err == nil
	}
	paint := term.NewPainter(stdout)
	if err != nil {
		fmt.Fprintln(stdout, paint.Paint(term.Red, err.Error()))
		return false
	}
	fmt.Fprintln(stdout, paint.Paint(term.Green, fmt.Sprintf("Compilation of '%s' successful!", path)))
	return true
}

func watchLoop(ctx context.Context, path string, opts options, logger *cli.Logger, stdout io.Writer) int {
	w, err := watch.New(path)
	if err != nil {
		logger.Error("cannot watch %s: %v", path, err)
		return 1
	}
	atexit.Register(func() { _ = w.Close() })
	defer w.Close()

	compileOnce(ctx, path, opts, logger, stdout)
	for {
		select {
		case <-ctx.Done():
			return 0
		case ev, ok := <-w.Events():
			if !ok {
				return 0
			}
			logger.Info("change detected in %s (%s)", ev.Path, ev.Ops)
			compileOnce(ctx, path, opts, logger, stdout)
		case err := <-w.Errors():
			logger.Warn("watch error: %v", err)
		}
	}
}
