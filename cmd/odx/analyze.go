package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/atlasbridge/odx/internal/cache"
	"github.com/atlasbridge/odx/internal/output"
	"github.com/atlasbridge/odx/internal/progress"
	"github.com/atlasbridge/odx/internal/registry"
	"github.com/atlasbridge/odx/internal/report"
	"github.com/atlasbridge/odx/internal/vcs"
	"github.com/atlasbridge/odx/pkg/analyzer/patterns"
	"github.com/atlasbridge/odx/pkg/scanner"
	"github.com/atlasbridge/odx/pkg/source"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"an"},
		Usage:     "Analyze a directory of orchestration files",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Analyze files from a git revision instead of the working tree",
			},
			&cli.StringFlag{
				Name:  "registry",
				Usage: "Path to a connector registry file (JSON or YAML)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of files analyzed concurrently (default: 2x CPU count)",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	paths := getPaths(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	opts := []patterns.Option{}

	workers := c.Int("workers")
	if workers == 0 {
		workers = cfg.Analysis.Workers
	}
	if workers > 0 {
		opts = append(opts, patterns.WithWorkers(workers))
	}

	var files []string
	if rev := c.String("ref"); rev != "" {
		tree, err := vcs.OpenTree(paths[0], rev)
		if err != nil {
			return fmt.Errorf("failed to open revision %s: %w", rev, err)
		}
		src := source.NewTree(tree)
		files, err = src.Orchestrations()
		if err != nil {
			return fmt.Errorf("failed to list files at %s: %w", rev, err)
		}
		opts = append(opts, patterns.WithSource(src))
	} else {
		scan := scanner.New(
			scanner.WithExcludeDirs(cfg.Exclude.Dirs),
			scanner.WithExcludePatterns(cfg.Exclude.Patterns),
		)
		files, err = scan.Scan(paths...)
		if err != nil {
			return fmt.Errorf("failed to scan: %w", err)
		}
	}

	if len(files) == 0 {
		color.Yellow("No orchestration files found")
		return nil
	}

	if cfg.Cache.Enabled && !c.Bool("no-cache") && c.String("ref") == "" {
		resultCache, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
		if err == nil {
			opts = append(opts, patterns.WithCache(resultCache))
		}
	}

	regPath := c.String("registry")
	if regPath == "" {
		regPath = cfg.Analysis.Registry
	}
	if regPath != "" {
		reg, err := registry.Load(regPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		opts = append(opts, patterns.WithRegistry(reg))
	}

	format := output.ParseFormat(c.String("format"))
	var tracker *progress.Tracker
	if format == output.FormatText && c.String("output") == "" {
		tracker = progress.NewTracker("Analyzing orchestrations...", len(files))
		opts = append(opts, patterns.WithProgress(tracker.Tick))
	}

	a := patterns.New(opts...)
	defer a.Close()

	analysis, err := a.Analyze(c.Context, files)
	if tracker != nil {
		if err != nil {
			tracker.FinishError(err)
		} else {
			tracker.FinishSuccess()
		}
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(format, c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(report.New(analysis, paths, version))
}
