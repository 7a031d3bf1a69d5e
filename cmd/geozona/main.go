package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

type GlobalOptions struct {
	ConfigFile    string  `short:"c" long:"config" env:"CONFIG_FILE" description:"Optional YAML config overlaying the environment"`
	Label         string  `short:"l" long:"label" env:"LABEL" default:"region" description:"Label stamped into result lines"`
	RadiusKm      float64 `short:"r" long:"radius-km" env:"RADIUS_KM" description:"Coverage radius in kilometers (required)"`
	Packing       string  `short:"p" long:"packing" env:"PACKING" description:"Lattice packing: square, hex or h3"`
	BatchSize     int     `short:"b" long:"batch-size" env:"BATCH_SIZE" description:"Lines per output file"`
	OutDir        string  `short:"o" long:"out" default:"." description:"Directory for output part files"`
	Quiet         bool    `short:"q" long:"quiet" description:"Suppress the progress bar"`
	LogLevel      string  `long:"log-level" env:"LOG_LEVEL" default:"warn" description:"Log level"`
	ProgressEvery int     `long:"progress-every" env:"PROGRESS_EVERY" description:"Candidates between progress updates"`
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.HelpFlag|flags.PassDoubleDash)

func main() {
	_, err := parser.Parse()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
