// Package cmd implements the srep command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/etnz/schwab"
	"github.com/etnz/schwab/config"
	"github.com/etnz/schwab/logger"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Commands are the srep subcommands.
var Commands = []subcommands.Command{
	&runCmd{},
	&summaryCmd{},
	&queryCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		group := "reports"
		if cmd.Name() == "topic" {
			group = "help"
		}
		c.Register(cmd, group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// configFlag is the -config flag shared by the report commands.
type configFlag struct {
	path string
}

func (c *configFlag) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "config", "", "Path to the configuration file. Defaults to $"+config.EnvVar+" or "+config.DefaultPath+".")
}

// loadEnv loads the .env file of the working directory, if any.
func loadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: cannot load .env file: %v\n", err)
	}
}

// buildReport loads the configuration and the broker exports, and builds the report.
func buildReport(ctx context.Context, path string) (*config.Config, *schwab.Report, error) {
	loadEnv()
	cfg, err := config.Load(config.Path(path))
	if err != nil {
		return nil, nil, err
	}

	// -log takes precedence over the configuration.
	log, ok := logger.Lookup(ctx)
	if !ok {
		log = logger.New(cfg.LogLevel)
	}

	split, err := cfg.StockSplit()
	if err != nil {
		return nil, nil, err
	}
	paths, err := cfg.SourcePaths()
	if err != nil {
		return nil, nil, err
	}
	src, err := schwab.LoadSources(paths, &log)
	if err != nil {
		return nil, nil, err
	}
	actions := cfg.ClassifyActions()
	r, err := schwab.Build(src, schwab.Options{Split: split, Actions: &actions, Logger: &log})
	if err != nil {
		return nil, nil, err
	}
	return cfg, r, nil
}
