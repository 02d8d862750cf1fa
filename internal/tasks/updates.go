package tasks

import (
	"fmt"

	"github.com/249ali/shelf/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchList Phase = iota
	FetchBook
	FetchRecommendations
	FetchHealth
	FetchCatalog
	FetchLists
	ExportList
)

func (p Phase) String() string {
	switch p {
	case FetchList:
		return "fetch_list"
	case FetchBook:
		return "fetch_book"
	case FetchRecommendations:
		return "fetch_recommendations"
	case FetchHealth:
		return "fetch_health"
	case FetchCatalog:
		return "fetch_catalog"
	case FetchLists:
		return "fetch_lists"
	case ExportList:
		return "export_list"
	default:
		return ""
	}
}

func fetchListUpdate(step, total int, listID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching reading list %s...", listID),
	}
}

func foundListUpdate(step, total int, list *models.ReadingList) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found reading list: %s (%d books)", list.Name, len(list.BookIDs)),
		Data:    list,
	}
}

func fetchRecommendationsUpdate(step, total int, book *models.Book) ProgressUpdate {
	if book == nil {
		return ProgressUpdate{
			Phase:   FetchRecommendations,
			Step:    step,
			Total:   total,
			Message: "Fetching recommendations...",
		}
	}
	return ProgressUpdate{
		Phase:   FetchRecommendations,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, book.Author, book.Title),
	}
}

func operationUpdate(endpoint endpointOperation, step int, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   endpoint.phase,
		Step:    step,
		Total:   total,
		Message: endpoint.message,
	}
}

func exportingListUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
