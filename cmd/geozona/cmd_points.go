package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ZikZak134/Geozona/internal/rows"
)

type CmdPoints struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("points",
		"Cover the hull of scattered coordinates",
		"Read delimited coordinate rows from a file (or stdin with \"-\"), take their convex hull and generate the coverage grid",
		&CmdPoints{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdPoints) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: points <file|->")
	}

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	parsed, err := rows.Read(in)
	if err != nil {
		return err
	}

	runner, _, err := cmd.global.newRunner()
	if err != nil {
		return err
	}
	b, err := runner.BoundaryFromRows(parsed)
	if err != nil {
		return err
	}
	return cmd.global.coverage(b, cmd.global.Label)
}
