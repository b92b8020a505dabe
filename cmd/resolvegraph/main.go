// Command resolvegraph is a prototype driver for the reduced-graph builder:
// it loads a toy TOML crate fixture, builds the reduced graph against a
// file-backed crate store, and prints a summary of the resulting module
// tree and any diagnostics. Modeled on golang-dep's cmd/dep driver (a
// flag.FlagSet-per-subcommand dispatcher, no CLI framework).
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/lowerlang/resolvegraph/graph/session"
)

// command is the subcommand contract every resolvegraph verb implements.
type command interface {
	Name() string
	Args() string
	ShortHelp() string
	LongHelp() string
	Register(*flag.FlagSet)
	Run(*Ctx, []string) error
}

// Ctx bundles the ambient collaborators a subcommand needs: loggers in the
// teacher's plain io.Writer style (graph/session.Logger), and the verbosity
// flag every subcommand shares.
type Ctx struct {
	Out, Err *session.Logger
	Verbose  bool
}

func main() {
	c := &Config{
		Args:   os.Args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(c.Run())
}

// Config specifies a full configuration for a resolvegraph execution.
type Config struct {
	Args           []string
	Stdout, Stderr io.Writer
}

func (c *Config) Run() (exitCode int) {
	commands := []command{
		&buildCommand{},
		&seedCommand{},
		&versionCommand{},
	}

	outLogger := log.New(c.Stdout, "", 0)
	errLogger := log.New(c.Stderr, "", 0)

	usage := func() {
		errLogger.Println("resolvegraph builds a compiler's reduced name-resolution graph from a toy crate fixture")
		errLogger.Println()
		errLogger.Println("Usage: resolvegraph <command>")
		errLogger.Println()
		errLogger.Println("Commands:")
		errLogger.Println()
		w := tabwriter.NewWriter(c.Stderr, 0, 4, 2, ' ', 0)
		for _, cmd := range commands {
			fmt.Fprintf(w, "\t%s\t%s\n", cmd.Name(), cmd.ShortHelp())
		}
		w.Flush()
	}

	if len(c.Args) < 2 {
		usage()
		return 1
	}
	cmdName := c.Args[1]
	if strings.Contains(strings.ToLower(cmdName), "help") || cmdName == "-h" {
		usage()
		return 1
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}
		fs := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		fs.SetOutput(c.Stderr)
		verbose := fs.Bool("v", false, "enable verbose logging")
		cmd.Register(fs)
		resetUsage(errLogger, fs, cmdName, cmd.Args(), cmd.LongHelp())

		if err := fs.Parse(c.Args[2:]); err != nil {
			return 1
		}

		ctx := &Ctx{
			Out:     session.NewLogger(c.Stdout),
			Err:     session.NewLogger(c.Stderr),
			Verbose: *verbose,
		}
		if err := cmd.Run(ctx, fs.Args()); err != nil {
			errLogger.Printf("resolvegraph: %v\n", err)
			return 1
		}
		return 0
	}

	errLogger.Printf("resolvegraph: %s: no such command\n", cmdName)
	usage()
	return 1
}

func resetUsage(logger *log.Logger, fs *flag.FlagSet, name, args, longHelp string) {
	var (
		hasFlags   bool
		flagBlock  bytes.Buffer
		flagWriter = tabwriter.NewWriter(&flagBlock, 0, 4, 2, ' ', 0)
	)
	fs.VisitAll(func(f *flag.Flag) {
		hasFlags = true
		defValue := f.DefValue
		if defValue == "" {
			defValue = "<none>"
		}
		fmt.Fprintf(flagWriter, "\t-%s\t%s (default: %s)\n", f.Name, f.Usage, defValue)
	})
	flagWriter.Flush()
	fs.Usage = func() {
		logger.Printf("Usage: resolvegraph %s %s\n", name, args)
		logger.Println()
		logger.Println(strings.TrimSpace(longHelp))
		logger.Println()
		if hasFlags {
			logger.Println("Flags:")
			logger.Println()
			logger.Println(flagBlock.String())
		}
	}
}
