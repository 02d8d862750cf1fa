// Library API implementation of [Library]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/shared"
)

// APIError represents a non-2xx response from the library API.
// The raw body is kept verbatim so callers can surface the server's message.
type APIError struct {
	Status int
	Body   string
	err    error
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("library API error: status %d", e.Status)
	}
	return fmt.Sprintf("library API error: status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.err
}

// newAPIError builds an APIError wrapping the sentinel matching the status.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: string(body), err: shared.ErrAPIRequest}

	switch status {
	case http.StatusUnauthorized:
		apiErr.err = shared.ErrSessionExpired
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		apiErr.err = shared.ErrServiceUnavailable
	}

	return apiErr
}

// LibraryService implements the Library interface against the library REST API.
// Holds the bearer token for the current session, set via [Authenticate] or [SetToken].
type LibraryService struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewLibraryService creates a new library service with the given base URL.
func NewLibraryService(baseURL string, client *http.Client) *LibraryService {
	if baseURL == "" {
		baseURL = "http://localhost:4000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &LibraryService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Authenticate stores bearer credentials for subsequent requests. Expects an "access_token" in credentials.
func (s *LibraryService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = accessToken
		return nil
	}

	return fmt.Errorf("missing access_token in credentials: %w", shared.ErrMissingCredentials)
}

// SetToken replaces the bearer token used for requests.
func (s *LibraryService) SetToken(token string) {
	s.token = token
}

func (s *LibraryService) Name() string {
	return "Library"
}

// doRequest performs an HTTP request against the library API, attaching the
// bearer token when one is held. Unauthenticated calls go out bare and the
// server decides; a 401 comes back as [shared.ErrSessionExpired].
func (s *LibraryService) doRequest(ctx context.Context, method, endpoint string, body interface{}, result interface{}) error {
	apiURL := s.baseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ListBooks retrieves the full catalog.
func (s *LibraryService) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := s.doRequest(ctx, http.MethodGet, "/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook retrieves a single book by ID.
func (s *LibraryService) GetBook(ctx context.Context, bookID string) (*models.Book, error) {
	if bookID == "" {
		return nil, fmt.Errorf("book id: %w", shared.ErrMissingArgument)
	}

	var book models.Book
	endpoint := fmt.Sprintf("/books/%s", url.PathEscape(bookID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &book); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("book %q: %w", bookID, shared.ErrBookNotFound)
		}
		return nil, err
	}
	return &book, nil
}

// CreateBook adds a book to the catalog.
func (s *LibraryService) CreateBook(ctx context.Context, book models.Book) (*models.Book, error) {
	if book.Title == "" {
		return nil, fmt.Errorf("book title: %w", shared.ErrMissingArgument)
	}

	var created models.Book
	if err := s.doRequest(ctx, http.MethodPost, "/books", book, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateBook replaces a book's fields.
func (s *LibraryService) UpdateBook(ctx context.Context, bookID string, book models.Book) (*models.Book, error) {
	if bookID == "" {
		return nil, fmt.Errorf("book id: %w", shared.ErrMissingArgument)
	}

	var updated models.Book
	endpoint := fmt.Sprintf("/books/%s", url.PathEscape(bookID))
	if err := s.doRequest(ctx, http.MethodPut, endpoint, book, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBook removes a book from the catalog.
func (s *LibraryService) DeleteBook(ctx context.Context, bookID string) error {
	if bookID == "" {
		return fmt.Errorf("book id: %w", shared.ErrMissingArgument)
	}

	endpoint := fmt.Sprintf("/books/%s", url.PathEscape(bookID))
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// ListReadingLists retrieves the authenticated user's reading lists.
func (s *LibraryService) ListReadingLists(ctx context.Context) ([]models.ReadingList, error) {
	var lists []models.ReadingList
	if err := s.doRequest(ctx, http.MethodGet, "/reading-lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetReadingList retrieves a single reading list by ID.
//
// The API only exposes the collection, so this lists and scans.
func (s *LibraryService) GetReadingList(ctx context.Context, listID string) (*models.ReadingList, error) {
	if listID == "" {
		return nil, fmt.Errorf("list id: %w", shared.ErrMissingArgument)
	}

	lists, err := s.ListReadingLists(ctx)
	if err != nil {
		return nil, err
	}

	for i := range lists {
		if lists[i].ID == listID {
			return &lists[i], nil
		}
	}

	return nil, fmt.Errorf("reading list %q: %w", listID, shared.ErrListNotFound)
}

// CreateReadingList creates a new, empty reading list.
func (s *LibraryService) CreateReadingList(ctx context.Context, name, description string) (*models.ReadingList, error) {
	if name == "" {
		return nil, fmt.Errorf("list name: %w", shared.ErrMissingArgument)
	}

	payload := models.ReadingList{
		Name:        name,
		Description: description,
		BookIDs:     []string{},
	}

	var created models.ReadingList
	if err := s.doRequest(ctx, http.MethodPost, "/reading-lists", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateReadingList replaces a reading list.
func (s *LibraryService) UpdateReadingList(ctx context.Context, list models.ReadingList) (*models.ReadingList, error) {
	if list.ID == "" {
		return nil, fmt.Errorf("list id: %w", shared.ErrMissingArgument)
	}

	var updated models.ReadingList
	endpoint := fmt.Sprintf("/reading-lists/%s", url.PathEscape(list.ID))
	if err := s.doRequest(ctx, http.MethodPut, endpoint, list, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteReadingList removes a reading list.
func (s *LibraryService) DeleteReadingList(ctx context.Context, listID string) error {
	if listID == "" {
		return fmt.Errorf("list id: %w", shared.ErrMissingArgument)
	}

	endpoint := fmt.Sprintf("/reading-lists/%s", url.PathEscape(listID))
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// AddBookToList appends a book to a reading list via read-modify-write.
func (s *LibraryService) AddBookToList(ctx context.Context, listID, bookID string) (*models.ReadingList, error) {
	if bookID == "" {
		return nil, fmt.Errorf("book id: %w", shared.ErrMissingArgument)
	}

	list, err := s.GetReadingList(ctx, listID)
	if err != nil {
		return nil, err
	}

	if list.Contains(bookID) {
		return list, nil
	}

	list.BookIDs = append(list.BookIDs, bookID)
	return s.UpdateReadingList(ctx, *list)
}

// RemoveBookFromList drops a book from a reading list via read-modify-write.
func (s *LibraryService) RemoveBookFromList(ctx context.Context, listID, bookID string) (*models.ReadingList, error) {
	if bookID == "" {
		return nil, fmt.Errorf("book id: %w", shared.ErrMissingArgument)
	}

	list, err := s.GetReadingList(ctx, listID)
	if err != nil {
		return nil, err
	}

	if !list.Contains(bookID) {
		return list, nil
	}

	kept := make([]string, 0, len(list.BookIDs)-1)
	for _, id := range list.BookIDs {
		if id != bookID {
			kept = append(kept, id)
		}
	}
	list.BookIDs = kept

	return s.UpdateReadingList(ctx, *list)
}

// Recommendations retrieves suggestions related to the given book.
func (s *LibraryService) Recommendations(ctx context.Context, bookID string) ([]models.Recommendation, error) {
	if bookID == "" {
		return nil, fmt.Errorf("book id: %w", shared.ErrMissingArgument)
	}

	payload := map[string]string{"book_id": bookID}

	var recs []models.Recommendation
	if err := s.doRequest(ctx, http.MethodPost, "/recommendations", payload, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
