package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/vburojevic/eccstat/internal/cli"
	"github.com/vburojevic/eccstat/internal/config"
	"github.com/vburojevic/eccstat/internal/logging"
)

const quickStart = `eccstat - FaultSim error statistics and charts

START HERE:
  eccstat run -d results

This parses results/dimm_<ecc>[_<N>gb]_log.txt, writes error_statistics.csv
and renders the charts into the current directory.

Other useful commands:
  eccstat extract -d results            Only build the CSV table
  eccstat render -i error_statistics.csv Only draw the charts
  eccstat report                        Console report for an existing table
  eccstat config generate               Sample configuration file
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment (plus provenance metadata).
	cfg, meta, err := config.LoadWithMeta()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
		meta = nil
	}

	var c cli.CLI
	ctx := kong.Parse(&c,
		kong.Name("eccstat"),
		kong.Description("Extract FaultSim DIMM error statistics and render comparison charts"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		cli.KongVars(cfg),
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	globals.Meta = meta
	// Record which flags were explicitly provided so config show can tell
	// CLI overrides from config defaults.
	globals.FlagsSet = map[string]bool{}
	for _, p := range ctx.Path {
		if p.Flag != nil {
			globals.FlagsSet[p.Flag.Name] = true
		}
	}

	logger, err := logging.New(logging.Options{
		Verbose: globals.Verbose,
		Quiet:   globals.Quiet,
		Colors:  isatty.IsTerminal(os.Stderr.Fd()),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		globals.Logger = logger
	}

	err = ctx.Run(globals)
	_ = globals.Log().Sync()
	if err != nil {
		// Commands report their own failures; anything else still gets a line.
		var reported *cli.CLIError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
