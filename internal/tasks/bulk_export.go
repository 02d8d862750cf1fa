package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/249ali/shelf/internal/formatter"
	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk reading list exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: shelf_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// ListExportJob carries one resolved reading list through the worker pool.
type ListExportJob struct {
	ListID string
	Export *models.ListExport
}

// ListExportResult records the outcome of exporting a single reading list.
type ListExportResult struct {
	ListID   string
	ListName string
	Success  bool
	Files    []string
	Error    error
}

// BulkExportResult summarizes a full bulk export run.
type BulkExportResult struct {
	TotalLists        int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []ListExportResult
}

// BulkExport exports multiple reading lists concurrently with rate limiting and progress tracking.
//
// This method implements a worker pool pattern to efficiently export multiple lists.
// It respects API rate limits, handles partial failures gracefully, and generates a manifest file summarizing the export results.
func (e *ShelfEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("shelf_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalLists:      len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ListExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan ListExportJob, len(ids))
	results := make(chan ListExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, listID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			export, err := e.resolveListExport(ctx, listID)
			if err != nil {
				results <- ListExportResult{
					ListID:   listID,
					ListName: fmt.Sprintf("Unknown (%s)", listID),
					Success:  false,
					Error:    fmt.Errorf("failed to fetch reading list: %w", err),
				}
				continue
			}

			jobs <- ListExportJob{
				ListID: listID,
				Export: export,
			}

			e.sendProgress(prog, exportingListUpdate(i+1, len(ids), export.List.Name))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(
				completed,
				len(ids),
				res.ListName,
				len(res.Files),
			))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(
				completed,
				len(ids),
				res.ListName,
				res.Error,
			))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result.manifest(opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// manifest converts the run summary into the formatter's manifest shape.
func (r *BulkExportResult) manifest(format string) *formatter.BulkExportManifest {
	entries := make([]formatter.ManifestEntry, 0, len(r.Results))
	for _, res := range r.Results {
		entry := formatter.ManifestEntry{
			ListID:   res.ListID,
			ListName: res.ListName,
			Success:  res.Success,
			Files:    res.Files,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		entries = append(entries, entry)
	}

	return &formatter.BulkExportManifest{
		Format:     format,
		TotalLists: r.TotalLists,
		Successful: r.SuccessfulExports,
		Failed:     r.FailedExports,
		Results:    entries,
	}
}

// exportWorker is a worker goroutine that exports reading lists from the jobs channel.
func (e *ShelfEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ListExportJob,
	results chan<- ListExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := e.exportSingleList(job, opts)
		results <- res
	}
}

// exportSingleList exports a single reading list to the appropriate format.
func (e *ShelfEngine) exportSingleList(
	j ListExportJob,
	opts BulkExportOpts,
) ListExportResult {
	result := ListExportResult{
		ListID:   j.ListID,
		ListName: j.Export.List.Name,
		Success:  false,
		Files:    []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.Export.List.ID)
		csvRes, err := formatter.WriteCSVExport(j.Export, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.BooksFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, j.Export.List.ID)

		// First cover on the list doubles as the list's cover image.
		var imageURL string
		for _, book := range j.Export.Books {
			if book.CoverURL != "" {
				imageURL = book.CoverURL
				break
			}
		}

		mdRes, err := formatter.WriteMarkdownExport(j.Export, outputDir, imageURL)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_books.txt", j.Export.List.ID))
		filepath, err := formatter.WriteTextExport(j.Export, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{filepath}
		result.Success = true
	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.Export.List.ID))
		data, err := shared.MarshalJSON(j.Export, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}
