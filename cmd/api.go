package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/249ali/shelf/internal/services"
	"github.com/249ali/shelf/internal/shared"
	"github.com/249ali/shelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the library API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if useJSON {
		if resp.IsJSON {
			return r.writeJSON(resp.JSONData, false)
		}
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
		return nil
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIPost makes a direct POST request to the library API.
// The body comes from --data inline or --file on disk.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")
	file := cmd.String("file")

	if data == "" && file == "" {
		return fmt.Errorf("%w: either --data or --file is required", shared.ErrMissingArgument)
	}
	if data != "" && file != "" {
		return fmt.Errorf("%w: cannot specify both --data and --file", shared.ErrInvalidArgument)
	}

	r.logger.Info("POST request", "path", path)

	var resp *services.APIResponse
	var err error

	if file != "" {
		payload, readErr := shared.VerifyAndReadFile(file)
		if readErr != nil {
			return readErr
		}
		if err := shared.ValidateJSON(payload); err != nil {
			return err
		}
		resp, err = r.api.UploadJSON(ctx, path, payload)
	} else {
		if err := shared.ValidateJSON([]byte(data)); err != nil {
			return err
		}
		resp, err = r.api.Post(ctx, path, []byte(data))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIDump fetches and displays the full API state.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	r.logger.Info("dumping API state")
	r.writePlain("Fetching library state...\n\n")

	progress := make(chan tasks.ProgressUpdate, 8)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("📊 %s\n", update.Message)
		}
	}()

	result, err := r.engine.Dump(ctx, progress)
	close(progress)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	dump := tasks.DumpData{
		Health:       result.Health,
		Books:        result.Books,
		ReadingLists: result.ReadingLists,
		Errors:       []any{},
	}
	for _, e := range result.Errors {
		dump.Errors = append(dump.Errors, map[string]string{"endpoint": e.Endpoint, "error": e.Error.Error()})
		r.logger.Warn("failed to fetch endpoint", "endpoint", e.Endpoint, "error", e.Error)
	}

	r.writePlain("\n✓ Dump complete\n\n")

	if save {
		saveFile := "api_dump.json"
		data, err := shared.MarshalJSON(dump, true)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save dump", "error", err)
		} else {
			r.logger.Info("dump saved", "file", saveFile)
			r.writePlain("✓ Dump saved to %s\n\n", saveFile)
		}
	}

	return r.writeJSON(dump, pretty)
}

// apiCommand handles direct library API calls and dump
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the library service",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the library API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON body to send",
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read the JSON body from a file",
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "dump",
				Usage: "Full library state dump (health, catalog, reading lists)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to api_dump.json",
						Value: false,
					},
				},
				Action: r.APIDump,
			},
		},
	}
}
