package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/schwab/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	configFlag
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the totals of the reports" }
func (*summaryCmd) Usage() string {
	return `srep summary [-config <file>]

  Displays the totals of the reports of the configured year, per category and per symbol.
  No file is written.
`
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, r, err := buildReport(ctx, c.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building reports: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SummaryMarkdown(r, cfg.Year))
	return subcommands.ExitSuccess
}
