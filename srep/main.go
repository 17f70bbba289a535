// Command srep writes tax reports from Schwab brokerage exports.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/schwab/cmd"
	"github.com/etnz/schwab/docs"
	"github.com/etnz/schwab/logger"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var logLevel = flag.String("log", "", "Log level: debug, info, warn or error. Defaults to the configuration log_level, or warn.")

func main() {
	completion().Complete("srep")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	ctx := context.Background()
	if *logLevel != "" {
		ctx = logger.WithContext(ctx, logger.New(*logLevel))
	}
	os.Exit(int(commander.Execute(ctx)))
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"log": predict.Set{"debug", "info", "warn", "error"},
		},
	}
	for _, c := range cmd.Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				sub.Flags[f.Name] = predict.Nothing
				return
			}
			switch f.Name {
			case "config":
				sub.Flags[f.Name] = predict.Files("*.yaml")
			default:
				sub.Flags[f.Name] = predict.Something
			}
		})
		if c.Name() == "topic" {
			if topics, err := docs.Names(); err == nil {
				sub.Args = predict.Set(append(topics, docs.All))
			}
		}
		root.Sub[c.Name()] = sub
	}
	return root
}
