package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgomes/vibecore/core"
	"golang.org/x/term"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "repl":
		return replCommand(args[2:])
	case "eval":
		return evalCommand(args[2:], os.Stdout)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

type commonFlags struct {
	configPath string
	debug      bool
}

func newFlagSet(name string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	opts := &commonFlags{}
	fs.StringVar(&opts.configPath, "config", "", "load container tuning from a TOML or YAML file")
	fs.BoolVar(&opts.debug, "debug", false, "log storage transitions to stderr")
	return fs, opts
}

func loadConfig(opts *commonFlags, logOut io.Writer) (*core.Config, error) {
	cfg := core.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := core.LoadConfigFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.debug {
		cfg.Logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return &cfg, nil
}

func replCommand(args []string) error {
	fs, opts := newFlagSet("repl")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("vibecore repl: unexpected argument %q", fs.Arg(0))
	}
	cfg, err := loadConfig(opts, os.Stderr)
	if err != nil {
		return err
	}
	wb := NewWorkbench(cfg)
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return runREPL(wb)
	}
	return runLineREPL(os.Stdin, os.Stdout, wb)
}

func evalCommand(args []string, out io.Writer) error {
	fs, opts := newFlagSet("eval")
	if err := fs.Parse(args); err != nil {
		return err
	}
	expr := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if expr == "" {
		return errors.New("vibecore eval: expression required")
	}
	cfg, err := loadConfig(opts, os.Stderr)
	if err != nil {
		return err
	}
	result, err := NewWorkbench(cfg).Eval(expr)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	fmt.Fprintln(out, describe(result))
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s repl [flags]\n", prog)
	fmt.Fprintf(os.Stderr, "       %s eval [flags] <expression>\n", prog)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -config <file>")
	fmt.Fprintln(os.Stderr, "    load container tuning from a .toml or .yaml file")
	fmt.Fprintln(os.Stderr, "  -debug")
	fmt.Fprintln(os.Stderr, "    log storage transitions to stderr")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
