package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ZikZak134/Geozona/internal/geom/boundary"
)

type CmdBoundary struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("boundary",
		"Cover a GeoJSON boundary",
		"Read a GeoJSON Feature, FeatureCollection or geometry from a file (or stdin with \"-\") and generate the coverage grid",
		&CmdBoundary{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdBoundary) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: boundary <file|->")
	}

	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	b, err := boundary.Normalize(data)
	if err != nil {
		return err
	}
	return cmd.global.coverage(b, cmd.global.Label)
}
