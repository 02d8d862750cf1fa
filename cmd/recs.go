package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/249ali/shelf/internal/shared"
	"github.com/249ali/shelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// RecsGet fetches recommendations for a single book.
func (r *Runner) RecsGet(ctx context.Context, cmd *cli.Command) error {
	bookID := cmd.StringArg("book-id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if bookID == "" {
		return fmt.Errorf("%w: book id is required", shared.ErrMissingArgument)
	}

	r.logger.Infof("fetching recommendations for book %v", bookID)

	recs, err := r.library.Recommendations(ctx, bookID)
	if err != nil {
		if errors.Is(err, shared.ErrBookNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrBookNotFound, bookID)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(recs, pretty)
	}

	r.writePlain("Found %d recommendations:\n\n", len(recs))
	for i, rec := range recs {
		r.writePlain("%d. Book %s\n", i+1, rec.BookID)
		if rec.Reason != "" {
			r.writePlain("   Reason: %s\n", rec.Reason)
		}
		r.writePlain("   Confidence: %.0f%%\n", rec.Confidence*100)
		r.writePlain("\n")
	}

	return nil
}

// RecsSuggest runs a suggestion pass over every book on a reading list.
func (r *Runner) RecsSuggest(ctx context.Context, cmd *cli.Command) error {
	listID := cmd.StringArg("list-id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if listID == "" {
		return fmt.Errorf("%w: list id is required", shared.ErrMissingArgument)
	}

	r.logger.Infof("suggesting for reading list %v", listID)

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

	result, err := r.engine.Suggest(ctx, listID, progress)
	close(progress)
	wg.Wait()

	if err != nil {
		if errors.Is(err, shared.ErrListNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrListNotFound, listID)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Suggestions for %s", result.List.Name))
	r.writePlain("Books processed: %d (%d ok, %d failed)\n\n", result.TotalBooks, result.SuccessCount, result.FailedCount)

	for _, s := range result.Suggestions {
		r.writePlain("%s - %s\n", s.Book.Author, s.Book.Title)
		if s.Error != nil {
			r.writePlain("  ✗ %v\n", s.Error)
			continue
		}
		if len(s.Recommendations) == 0 {
			r.writePlain("  (no recommendations)\n")
			continue
		}
		for _, rec := range s.Recommendations {
			r.writePlain("  • %s (%.0f%%)\n", rec.Reason, rec.Confidence*100)
		}
	}

	return nil
}
