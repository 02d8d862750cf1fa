package models

import "time"

// Book represents a catalog entry from the library API.
//
// Fields beyond the identifier are descriptive and opaque to this layer; the API
// owns validation.
type Book struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn,omitempty"`
	Description   string `json:"description,omitempty"`
	PublishedYear int    `json:"published_year,omitempty"`
	CoverURL      string `json:"cover_url,omitempty"`
}

// ReadingList represents a user-owned collection of book identifiers.
type ReadingList struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BookIDs     []string  `json:"book_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Contains reports whether the list already references the given book.
func (l *ReadingList) Contains(bookID string) bool {
	for _, id := range l.BookIDs {
		if id == bookID {
			return true
		}
	}
	return false
}

// ListExport bundles a reading list with its resolved books for export.
type ListExport struct {
	List  ReadingList `json:"list"`
	Books []Book      `json:"books"`
}

// Recommendation represents a suggested book with a free-text reason and confidence score.
type Recommendation struct {
	ID         string  `json:"id"`
	BookID     string  `json:"book_id"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// User represents the profile carried by an identity provider session.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session represents bearer credentials issued by the identity provider.
//
// RefreshToken is carried verbatim; the client never exchanges it.
type Session struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         User      `json:"user"`
}
