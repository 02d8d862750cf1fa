// package tasks implements multi-request operations over the library API.
//
// The core abstraction is Engine, which orchestrates reading list suggestions, data dumps, and bulk exports.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/services"
	"github.com/249ali/shelf/internal/shared"
)

// BookSuggestions holds the recommendations fetched for a single book.
type BookSuggestions struct {
	Book            models.Book             // Book the suggestions relate to
	Recommendations []models.Recommendation // Suggestions returned by the API
	Error           error                   // Error if the fetch failed
}

// SuggestResult contains all data from a list-wide suggestion run.
type SuggestResult struct {
	List         *models.ReadingList // The reading list that was processed
	Suggestions  []BookSuggestions   // Per-book suggestion results
	SuccessCount int                 // Books with suggestions fetched
	FailedCount  int                 // Books whose fetch failed
	TotalBooks   int                 // Total books processed
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// DumpResult contains all data fetched from the library API.
type DumpResult struct {
	Health       any              // Health status
	Books        any              // Full catalog
	ReadingLists any              // The user's reading lists
	Errors       []EndpointResult // Failed endpoint fetches
}

type DumpData struct {
	Health       any   `json:"health"`
	Books        any   `json:"books,omitempty"`
	ReadingLists any   `json:"reading_lists,omitempty"`
	Errors       []any `json:"errors,omitempty"`
}

type endpointOperation struct {
	name    string
	path    string
	target  *any
	phase   Phase
	message string
}

// Engine defines multi-request operations over the library API.
type Engine interface {
	// Suggest fetches recommendations for every book on a reading list.
	Suggest(ctx context.Context, listID string, progress chan<- ProgressUpdate) (*SuggestResult, error)

	// Dump fetches all account data from the library API: catalog, reading lists, health.
	Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error)
}

// APIClient defines the interface for raw API requests.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// ShelfEngine implements Engine for reading list operations.
// Contains dependencies on the library service and raw API client.
type ShelfEngine struct {
	library services.Library
	api     APIClient
}

// NewShelfEngine creates a new ShelfEngine with the provided clients.
func NewShelfEngine(library services.Library, api APIClient) *ShelfEngine {
	return &ShelfEngine{
		library: library,
		api:     api,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ShelfEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Suggest fetches recommendations for every book on a reading list.
//
// Individual book failures are recorded per entry; the run only fails outright
// when the list itself cannot be fetched.
func (e *ShelfEngine) Suggest(ctx context.Context, listID string, progress chan<- ProgressUpdate) (*SuggestResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchListUpdate(1, 1, listID))

	list, err := e.library.GetReadingList(ctx, listID)
	if err != nil {
		return nil, err
	}

	total := len(list.BookIDs)
	result := &SuggestResult{
		List:        list,
		Suggestions: make([]BookSuggestions, 0, total),
		TotalBooks:  total,
	}

	e.sendProgress(progress, foundListUpdate(1, 1, list))

	for i, bookID := range list.BookIDs {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		entry := BookSuggestions{Book: models.Book{ID: bookID}}

		book, err := e.library.GetBook(ctx, bookID)
		if err != nil {
			entry.Error = err
			result.Suggestions = append(result.Suggestions, entry)
			result.FailedCount++
			continue
		}
		entry.Book = *book

		e.sendProgress(progress, fetchRecommendationsUpdate(i+1, total, book))

		recs, err := e.library.Recommendations(ctx, bookID)
		if err != nil {
			entry.Error = err
			result.FailedCount++
		} else {
			entry.Recommendations = recs
			result.SuccessCount++
		}

		result.Suggestions = append(result.Suggestions, entry)
	}

	return result, nil
}

// Dump fetches all account data from the library API.
func (e *ShelfEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{
		Errors: []EndpointResult{},
	}

	endpoints := []endpointOperation{
		{name: "health", path: "/health", target: &result.Health, phase: FetchHealth, message: "Fetching health status..."},
		{name: "books", path: "/books", target: &result.Books, phase: FetchCatalog, message: "Fetching catalog..."},
		{name: "reading_lists", path: "/reading-lists", target: &result.ReadingLists, phase: FetchLists, message: "Fetching reading lists..."},
	}

	totalSteps := len(endpoints)

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, totalSteps))

		resp, err := e.api.Get(ctx, endpoint.path)
		if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			} else {
				errMsg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    fmt.Errorf("%s", errMsg),
			})
		} else {
			*endpoint.target = resp.JSONData
		}
	}

	return result, nil
}

// resolveListExport fetches a reading list and every book on it for export.
func (e *ShelfEngine) resolveListExport(ctx context.Context, listID string) (*models.ListExport, error) {
	list, err := e.library.GetReadingList(ctx, listID)
	if err != nil {
		return nil, err
	}

	books := make([]models.Book, 0, len(list.BookIDs))
	for _, bookID := range list.BookIDs {
		book, err := e.library.GetBook(ctx, bookID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch book %s: %w", bookID, err)
		}
		books = append(books, *book)
	}

	return &models.ListExport{List: *list, Books: books}, nil
}
