// package services defines interface Library for interacting with the library HTTP API
package services

import (
	"context"

	"github.com/249ali/shelf/internal/models"
)

// Library defines the interface for the remote library API covering the catalog, reading lists, and recommendations.
type Library interface {
	// Authenticate stores bearer credentials for subsequent requests.
	// Expects an "access_token" entry; returns an error if it is missing.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// ListBooks retrieves the full catalog.
	ListBooks(ctx context.Context) ([]models.Book, error)

	// GetBook retrieves a single book by ID.
	GetBook(ctx context.Context, bookID string) (*models.Book, error)

	// CreateBook adds a book to the catalog and returns it with its server-assigned ID.
	CreateBook(ctx context.Context, book models.Book) (*models.Book, error)

	// UpdateBook replaces a book's fields and returns the updated record.
	UpdateBook(ctx context.Context, bookID string, book models.Book) (*models.Book, error)

	// DeleteBook removes a book from the catalog.
	DeleteBook(ctx context.Context, bookID string) error

	// ListReadingLists retrieves the authenticated user's reading lists.
	ListReadingLists(ctx context.Context) ([]models.ReadingList, error)

	// GetReadingList retrieves a single reading list by ID.
	GetReadingList(ctx context.Context, listID string) (*models.ReadingList, error)

	// CreateReadingList creates a new, empty reading list.
	CreateReadingList(ctx context.Context, name, description string) (*models.ReadingList, error)

	// UpdateReadingList replaces a reading list and returns the updated record.
	UpdateReadingList(ctx context.Context, list models.ReadingList) (*models.ReadingList, error)

	// DeleteReadingList removes a reading list.
	DeleteReadingList(ctx context.Context, listID string) error

	// AddBookToList appends a book to a reading list and returns the updated list.
	// Adding a book already on the list is a no-op.
	AddBookToList(ctx context.Context, listID, bookID string) (*models.ReadingList, error)

	// RemoveBookFromList drops a book from a reading list and returns the updated list.
	RemoveBookFromList(ctx context.Context, listID, bookID string) (*models.ReadingList, error)

	// Recommendations retrieves suggestions related to the given book.
	Recommendations(ctx context.Context, bookID string) ([]models.Recommendation, error)

	// Name returns the name of the backing service.
	Name() string
}

// Identity defines the interface for the identity provider issuing API sessions.
type Identity interface {
	// SignUp registers a new account and returns the issued session.
	SignUp(ctx context.Context, email, password, name string) (*models.Session, error)

	// SignInWithPassword exchanges email and password for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)

	// SignOut revokes the session behind the given access token.
	SignOut(ctx context.Context, accessToken string) error

	// GetUser retrieves the profile behind the given access token.
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
}
