package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/services"
	"github.com/249ali/shelf/internal/shared"
	tu "github.com/249ali/shelf/internal/testing"
)

// mockAPI is a configurable test double for APIClient.
type mockAPI struct {
	GetFunc func(ctx context.Context, path string) (*services.APIResponse, error)
}

func (m *mockAPI) Get(ctx context.Context, path string) (*services.APIResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, path)
	}
	return &services.APIResponse{StatusCode: 200, IsJSON: true}, nil
}

func suggestLibrary() *tu.MockLibrary {
	return &tu.MockLibrary{
		GetReadingListFunc: func(ctx context.Context, listID string) (*models.ReadingList, error) {
			return &models.ReadingList{
				ID:      listID,
				Name:    "Sci-Fi",
				BookIDs: []string{"b1", "b2"},
			}, nil
		},
		GetBookFunc: func(ctx context.Context, bookID string) (*models.Book, error) {
			return &models.Book{ID: bookID, Title: "Title " + bookID, Author: "Author"}, nil
		},
		RecommendationsFunc: func(ctx context.Context, bookID string) ([]models.Recommendation, error) {
			return []models.Recommendation{
				{ID: "r_" + bookID, BookID: bookID, Reason: "same shelf", Confidence: 0.8},
			}, nil
		},
	}
}

func TestSuggest(t *testing.T) {
	t.Run("Successful Run", func(t *testing.T) {
		engine := NewShelfEngine(suggestLibrary(), nil)
		progress := make(chan ProgressUpdate, 32)

		result, err := engine.Suggest(context.Background(), "l1", progress)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.TotalBooks != 2 {
			t.Errorf("expected 2 books, got %d", result.TotalBooks)
		}
		if result.SuccessCount != 2 {
			t.Errorf("expected 2 successes, got %d", result.SuccessCount)
		}
		if result.FailedCount != 0 {
			t.Errorf("expected no failures, got %d", result.FailedCount)
		}
		if len(result.Suggestions) != 2 {
			t.Fatalf("expected 2 suggestion entries, got %d", len(result.Suggestions))
		}
		if len(result.Suggestions[0].Recommendations) != 1 {
			t.Errorf("expected 1 recommendation for first book, got %d", len(result.Suggestions[0].Recommendations))
		}

		close(progress)
		seen := 0
		for range progress {
			seen++
		}
		if seen == 0 {
			t.Error("expected progress updates to be emitted")
		}
	})

	t.Run("List Fetch Failure Aborts", func(t *testing.T) {
		library := &tu.MockLibrary{
			GetReadingListFunc: func(ctx context.Context, listID string) (*models.ReadingList, error) {
				return nil, shared.ErrListNotFound
			},
		}
		engine := NewShelfEngine(library, nil)

		_, err := engine.Suggest(context.Background(), "missing", nil)
		if !errors.Is(err, shared.ErrListNotFound) {
			t.Errorf("expected ErrListNotFound, got %v", err)
		}
	})

	t.Run("Per-Book Failures Are Recorded", func(t *testing.T) {
		library := suggestLibrary()
		library.RecommendationsFunc = func(ctx context.Context, bookID string) ([]models.Recommendation, error) {
			if bookID == "b2" {
				return nil, fmt.Errorf("recommendation backend down")
			}
			return []models.Recommendation{{ID: "r1", BookID: bookID}}, nil
		}
		engine := NewShelfEngine(library, nil)

		result, err := engine.Suggest(context.Background(), "l1", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.SuccessCount != 1 {
			t.Errorf("expected 1 success, got %d", result.SuccessCount)
		}
		if result.FailedCount != 1 {
			t.Errorf("expected 1 failure, got %d", result.FailedCount)
		}

		var failed *BookSuggestions
		for i := range result.Suggestions {
			if result.Suggestions[i].Book.ID == "b2" {
				failed = &result.Suggestions[i]
			}
		}
		if failed == nil || failed.Error == nil {
			t.Error("expected the failing book to carry its error")
		}
	})

	t.Run("Book Fetch Failure Keeps Going", func(t *testing.T) {
		library := suggestLibrary()
		library.GetBookFunc = func(ctx context.Context, bookID string) (*models.Book, error) {
			if bookID == "b1" {
				return nil, shared.ErrBookNotFound
			}
			return &models.Book{ID: bookID, Title: "Title " + bookID}, nil
		}
		engine := NewShelfEngine(library, nil)

		result, err := engine.Suggest(context.Background(), "l1", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.FailedCount != 1 || result.SuccessCount != 1 {
			t.Errorf("expected 1 failure and 1 success, got %d/%d", result.FailedCount, result.SuccessCount)
		}
	})

	t.Run("Cancelled Context Stops The Run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		engine := NewShelfEngine(suggestLibrary(), nil)

		_, err := engine.Suggest(ctx, "l1", nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Without Library Service", func(t *testing.T) {
		engine := NewShelfEngine(nil, nil)

		_, err := engine.Suggest(context.Background(), "l1", nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Full Progress Channel Never Blocks", func(t *testing.T) {
		engine := NewShelfEngine(suggestLibrary(), nil)
		progress := make(chan ProgressUpdate) // unbuffered and never drained

		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, err := engine.Suggest(context.Background(), "l1", progress); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()

		<-done
	})
}

func TestDump(t *testing.T) {
	t.Run("All Endpoints Healthy", func(t *testing.T) {
		api := &mockAPI{
			GetFunc: func(ctx context.Context, path string) (*services.APIResponse, error) {
				return &services.APIResponse{
					StatusCode: 200,
					IsJSON:     true,
					JSONData:   map[string]any{"path": path},
				}, nil
			},
		}
		engine := NewShelfEngine(nil, api)

		result, err := engine.Dump(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Health == nil || result.Books == nil || result.ReadingLists == nil {
			t.Error("expected every section to be populated")
		}
		if len(result.Errors) != 0 {
			t.Errorf("expected no errors, got %d", len(result.Errors))
		}
	})

	t.Run("Partial Failures Are Collected", func(t *testing.T) {
		api := &mockAPI{
			GetFunc: func(ctx context.Context, path string) (*services.APIResponse, error) {
				if path == "/books" {
					return nil, fmt.Errorf("connection refused")
				}
				return &services.APIResponse{StatusCode: 200, IsJSON: true, JSONData: "ok"}, nil
			},
		}
		engine := NewShelfEngine(nil, api)

		result, err := engine.Dump(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Books != nil {
			t.Error("expected books section to be empty after failure")
		}
		if len(result.Errors) != 1 {
			t.Fatalf("expected 1 recorded error, got %d", len(result.Errors))
		}
		if result.Errors[0].Endpoint != "/books" {
			t.Errorf("expected '/books' endpoint in error, got %s", result.Errors[0].Endpoint)
		}
	})

	t.Run("Non-2xx Status Counts As Failure", func(t *testing.T) {
		api := &mockAPI{
			GetFunc: func(ctx context.Context, path string) (*services.APIResponse, error) {
				return &services.APIResponse{StatusCode: 503}, nil
			},
		}
		engine := NewShelfEngine(nil, api)

		result, err := engine.Dump(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Errors) != 3 {
			t.Errorf("expected every endpoint to fail, got %d errors", len(result.Errors))
		}
	})

	t.Run("Without API Client", func(t *testing.T) {
		engine := NewShelfEngine(nil, nil)

		_, err := engine.Dump(context.Background(), nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		FetchList:            "fetch_list",
		FetchBook:            "fetch_book",
		FetchRecommendations: "fetch_recommendations",
		FetchHealth:          "fetch_health",
		FetchCatalog:         "fetch_catalog",
		FetchLists:           "fetch_lists",
		ExportList:           "export_list",
	}

	for phase, want := range cases {
		if phase.String() != want {
			t.Errorf("expected %q, got %q", want, phase.String())
		}
	}
}
