package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/schwab"
	"github.com/google/subcommands"
)

// runCmd holds the flags for the 'run' subcommand.
type runCmd struct {
	configFlag
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "write the dividend, interest, tax and sale reports" }
func (*runCmd) Usage() string {
	return `srep run [-config <file>]

  Reads the broker exports of the configured year and writes the four CSV reports
  into the reports directory. Nothing is written if any export is invalid.
`
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %q\n", f.Args())
		return subcommands.ExitUsageError
	}
	cfg, r, err := buildReport(ctx, c.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building reports: %v\n", err)
		return subcommands.ExitFailure
	}

	paths, err := schwab.WriteReport(cfg.Directories.Reports, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing reports: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintln(stdout, "Files saved:")
	for _, p := range paths {
		fmt.Fprintf(stdout, "- %s\n", filepath.ToSlash(p))
	}
	return subcommands.ExitSuccess
}
