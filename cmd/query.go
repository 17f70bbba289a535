package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
)

// queryCmd holds the flags for the 'query' subcommand.
type queryCmd struct {
	configFlag
	path string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "print the reports as JSON" }
func (*queryCmd) Usage() string {
	return `srep query [-config <file>] [-path <jsonpath>]

  Prints the reports of the configured year as a JSON object with the keys
  "dividends", "interest", "tax_deducted" and "sales".
  With -path, prints only the values selected by the JSONPath expression, e.g.

    srep query -path '$.sales[?(@.Symbol=="AAPL")].Amount'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	c.configFlag.SetFlags(f)
	f.StringVar(&c.path, "path", "", "JSONPath expression selecting the values to print.")
}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, r, err := buildReport(ctx, c.configFlag.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building reports: %v\n", err)
		return subcommands.ExitFailure
	}

	data, err := json.Marshal(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding reports: %v\n", err)
		return subcommands.ExitFailure
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding reports: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.path != "" {
		v, err = jsonpath.Get(c.path, v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error evaluating %q: %v\n", c.path, err)
			return subcommands.ExitUsageError
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing reports: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
