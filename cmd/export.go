package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/249ali/shelf/internal/shared"
	"github.com/249ali/shelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// exportCommand handles bulk reading list exports.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export reading lists to files",
		ArgsUsage: "[list-id ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Export every reading list",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: shelf_export_{timestamp})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "API requests per second",
				Value: 5.0,
			},
		},
		Action: r.ExportRun,
	}
}

// ExportRun exports the named reading lists (or all of them) concurrently.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	switch format {
	case "json", "csv", "markdown", "txt":
	default:
		return fmt.Errorf("%w: unsupported format %q (want json, csv, markdown or txt)", shared.ErrInvalidFlag, format)
	}

	ids := cmd.Args().Slice()
	if cmd.Bool("all") {
		lists, err := r.library.ListReadingLists(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		ids = ids[:0]
		for _, l := range lists {
			ids = append(ids, l.ID)
		}
	}

	if len(ids) == 0 {
		return fmt.Errorf("%w: list ids or --all required", shared.ErrMissingArgument)
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}

	r.logger.Infof("exporting %v reading lists as %v", len(ids), format)
	r.writePlain("Exporting %d reading lists...\n\n", len(ids))

	progress := make(chan tasks.ProgressUpdate, 16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			if update.Total > 0 {
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			} else {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkExport(ctx, progress, ids, opts)
	close(progress)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("✓ Export complete")
	r.writePlain("  Lists: %d (%d ok, %d failed)\n", result.TotalLists, result.SuccessfulExports, result.FailedExports)
	r.writePlain("  Output: %s\n", result.OutputDirectory)
	r.writePlain("  Manifest: %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		r.writePlain("\nFailures:\n")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  ✗ %s: %v\n", res.ListID, res.Error)
			}
		}
	}

	return nil
}
