package main

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/atlasbridge/odx/internal/output"
	"github.com/atlasbridge/odx/pkg/analyzer/patterns"
	"github.com/atlasbridge/odx/pkg/models"
)

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Aliases:   []string{"in"},
		Usage:     "Inspect a single orchestration file",
		ArgsUsage: "<file>",
		Action:    runInspectCmd,
	}
}

func runInspectCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("inspect requires exactly one file argument")
	}
	path := c.Args().First()

	a := patterns.New()
	defer a.Close()

	result := a.AnalyzeFile(path)
	if !result.Parsed {
		return fmt.Errorf("failed to parse %s: %s", path, result.Error)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	kinds := make([]models.ShapeKind, 0, len(result.ShapeCounts))
	for k := range result.ShapeCounts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var rows [][]string
	for _, k := range kinds {
		rows = append(rows, []string{string(k), fmt.Sprintf("%d", result.ShapeCounts[k])})
	}

	table := output.NewTable(
		result.Orchestration,
		[]string{"Shape", "Count"},
		rows,
		[]string{
			fmt.Sprintf("Shapes: %d", result.TotalShapes()),
			fmt.Sprintf("Ports: %d", result.Ports),
			fmt.Sprintf("Messages: %d", result.Messages),
			fmt.Sprintf("Correlation sets: %d", result.CorrelationSets),
		},
		result,
	)

	return formatter.Output(table)
}
