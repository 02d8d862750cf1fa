// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/249ali/shelf/internal/models"
)

// MockLibrary is a configurable test double for [services.Library].
//
// Each operation delegates to the matching func field when set and returns
// zero values otherwise.
type MockLibrary struct {
	ListBooksFunc          func(ctx context.Context) ([]models.Book, error)
	GetBookFunc            func(ctx context.Context, bookID string) (*models.Book, error)
	CreateBookFunc         func(ctx context.Context, book models.Book) (*models.Book, error)
	UpdateBookFunc         func(ctx context.Context, bookID string, book models.Book) (*models.Book, error)
	DeleteBookFunc         func(ctx context.Context, bookID string) error
	ListReadingListsFunc   func(ctx context.Context) ([]models.ReadingList, error)
	GetReadingListFunc     func(ctx context.Context, listID string) (*models.ReadingList, error)
	CreateReadingListFunc  func(ctx context.Context, name, description string) (*models.ReadingList, error)
	UpdateReadingListFunc  func(ctx context.Context, list models.ReadingList) (*models.ReadingList, error)
	DeleteReadingListFunc  func(ctx context.Context, listID string) error
	AddBookToListFunc      func(ctx context.Context, listID, bookID string) (*models.ReadingList, error)
	RemoveBookFromListFunc func(ctx context.Context, listID, bookID string) (*models.ReadingList, error)
	RecommendationsFunc    func(ctx context.Context, bookID string) ([]models.Recommendation, error)
}

func (m *MockLibrary) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockLibrary) ListBooks(ctx context.Context) ([]models.Book, error) {
	if m.ListBooksFunc != nil {
		return m.ListBooksFunc(ctx)
	}
	return []models.Book{}, nil
}

func (m *MockLibrary) GetBook(ctx context.Context, bookID string) (*models.Book, error) {
	if m.GetBookFunc != nil {
		return m.GetBookFunc(ctx, bookID)
	}
	return nil, nil
}

func (m *MockLibrary) CreateBook(ctx context.Context, book models.Book) (*models.Book, error) {
	if m.CreateBookFunc != nil {
		return m.CreateBookFunc(ctx, book)
	}
	return nil, nil
}

func (m *MockLibrary) UpdateBook(ctx context.Context, bookID string, book models.Book) (*models.Book, error) {
	if m.UpdateBookFunc != nil {
		return m.UpdateBookFunc(ctx, bookID, book)
	}
	return nil, nil
}

func (m *MockLibrary) DeleteBook(ctx context.Context, bookID string) error {
	if m.DeleteBookFunc != nil {
		return m.DeleteBookFunc(ctx, bookID)
	}
	return nil
}

func (m *MockLibrary) ListReadingLists(ctx context.Context) ([]models.ReadingList, error) {
	if m.ListReadingListsFunc != nil {
		return m.ListReadingListsFunc(ctx)
	}
	return []models.ReadingList{}, nil
}

func (m *MockLibrary) GetReadingList(ctx context.Context, listID string) (*models.ReadingList, error) {
	if m.GetReadingListFunc != nil {
		return m.GetReadingListFunc(ctx, listID)
	}
	return nil, nil
}

func (m *MockLibrary) CreateReadingList(ctx context.Context, name, description string) (*models.ReadingList, error) {
	if m.CreateReadingListFunc != nil {
		return m.CreateReadingListFunc(ctx, name, description)
	}
	return nil, nil
}

func (m *MockLibrary) UpdateReadingList(ctx context.Context, list models.ReadingList) (*models.ReadingList, error) {
	if m.UpdateReadingListFunc != nil {
		return m.UpdateReadingListFunc(ctx, list)
	}
	return nil, nil
}

func (m *MockLibrary) DeleteReadingList(ctx context.Context, listID string) error {
	if m.DeleteReadingListFunc != nil {
		return m.DeleteReadingListFunc(ctx, listID)
	}
	return nil
}

func (m *MockLibrary) AddBookToList(ctx context.Context, listID, bookID string) (*models.ReadingList, error) {
	if m.AddBookToListFunc != nil {
		return m.AddBookToListFunc(ctx, listID, bookID)
	}
	return nil, nil
}

func (m *MockLibrary) RemoveBookFromList(ctx context.Context, listID, bookID string) (*models.ReadingList, error) {
	if m.RemoveBookFromListFunc != nil {
		return m.RemoveBookFromListFunc(ctx, listID, bookID)
	}
	return nil, nil
}

func (m *MockLibrary) Recommendations(ctx context.Context, bookID string) ([]models.Recommendation, error) {
	if m.RecommendationsFunc != nil {
		return m.RecommendationsFunc(ctx, bookID)
	}
	return []models.Recommendation{}, nil
}

func (m *MockLibrary) Name() string { return "mock" }

// MockIdentity is a configurable test double for [services.Identity].
type MockIdentity struct {
	SignUpFunc             func(ctx context.Context, email, password, name string) (*models.Session, error)
	SignInWithPasswordFunc func(ctx context.Context, email, password string) (*models.Session, error)
	SignOutFunc            func(ctx context.Context, accessToken string) error
	GetUserFunc            func(ctx context.Context, accessToken string) (*models.User, error)
}

func (m *MockIdentity) SignUp(ctx context.Context, email, password, name string) (*models.Session, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, email, password, name)
	}
	return nil, nil
}

func (m *MockIdentity) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	if m.SignInWithPasswordFunc != nil {
		return m.SignInWithPasswordFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *MockIdentity) SignOut(ctx context.Context, accessToken string) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, accessToken)
	}
	return nil
}

func (m *MockIdentity) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, accessToken)
	}
	return nil, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
