package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/atlasbridge/odx/internal/output"
	"github.com/atlasbridge/odx/pkg/parser"
)

func modelCmd() *cli.Command {
	return &cli.Command{
		Name:      "model",
		Usage:     "Dump the full orchestration model for a file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Log each shape as it is parsed",
			},
		},
		Action: runModelCmd,
	}
}

func runModelCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("model requires exactly one file argument")
	}
	path := c.Args().First()

	var opts []parser.Option
	if c.Bool("trace") || c.Bool("verbose") {
		opts = append(opts, parser.WithTrace(func(format string, args ...any) {
			fmt.Printf(format+"\n", args...)
		}))
	}

	model, err := parser.New(opts...).ParseFile(path)
	if err != nil {
		return err
	}

	format := output.ParseFormat(c.String("format"))
	if format == output.FormatText {
		format = output.FormatJSON
	}

	formatter, err := output.NewFormatter(format, c.String("output"), false)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(model)
}
