package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/shared"
)

// SessionRepository implements [models.Repository] for [models.PersistedSession] persistence.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session into the database with generated ID and sequence
func (r *SessionRepository) Create(session *models.PersistedSession) error {
	sequence, err := NextSequence(r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	session.SetID(id)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (id, sequence, user_id, email, name, role, access_token, refresh_token, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var expiresAt any
	if t := session.ExpiresAt(); t != nil {
		expiresAt = *t
	}

	_, err = r.db.Exec(query, id, sequence, session.UserID(), session.Email(), session.Name(),
		session.Role(), session.AccessToken(), session.RefreshToken(), expiresAt,
		session.CreatedAt(), session.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

func (r *SessionRepository) scanRow(scan func(dest ...any) error) (*models.PersistedSession, error) {
	var (
		sessionID    string
		sequence     int
		userID       string
		email        string
		name         string
		role         string
		accessToken  string
		refreshToken string
		expiresAt    sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := scan(&sessionID, &sequence, &userID, &email, &name, &role,
		&accessToken, &refreshToken, &expiresAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	session := models.NewPersistedSession(sequence, models.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: models.User{
			ID:    userID,
			Email: email,
			Name:  name,
			Role:  role,
		},
	})
	session.SetID(sessionID)
	session.SetCreatedAt(createdAt)
	session.SetUpdatedAt(updatedAt)
	if expiresAt.Valid {
		session.SetExpiresAt(&expiresAt.Time)
	} else {
		session.SetExpiresAt(nil)
	}
	if deletedAt.Valid {
		session.SetDeletedAt(&deletedAt.Time)
	}

	return session, nil
}

const sessionColumns = `id, sequence, user_id, email, name, role, access_token, refresh_token, expires_at, created_at, updated_at, deleted_at`

// Get retrieves a session by ID, excluding soft-deleted sessions
func (r *SessionRepository) Get(id string) (*models.PersistedSession, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE id = ? AND deleted_at IS NULL
	`, sessionColumns)

	row := r.db.QueryRow(query, id)
	session, err := r.scanRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %s: %w", id, shared.ErrNoSession)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return session, nil
}

// Latest retrieves the most recently created non-deleted session, if any.
//
// This is the session a new CLI invocation restores.
func (r *SessionRepository) Latest() (*models.PersistedSession, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`, sessionColumns)

	row := r.db.QueryRow(query)
	session, err := r.scanRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, shared.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return session, nil
}

// Update modifies an existing session in the database
func (r *SessionRepository) Update(session *models.PersistedSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	session.SetUpdatedAt(now)

	query := `
		UPDATE sessions
		SET email = ?, name = ?, role = ?, access_token = ?, refresh_token = ?, expires_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	var expiresAt any
	if t := session.ExpiresAt(); t != nil {
		expiresAt = *t
	}

	result, err := r.db.Exec(query, session.Email(), session.Name(), session.Role(),
		session.AccessToken(), session.RefreshToken(), expiresAt, now, session.ID())
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session not found or already deleted: %s", session.ID())
	}

	return nil
}

// Delete soft-deletes a session by ID
func (r *SessionRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE sessions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session not found or already deleted: %s", id)
	}

	return nil
}

// DeleteAll soft-deletes every non-deleted session. Used by sign-out.
func (r *SessionRepository) DeleteAll() error {
	query := `
		UPDATE sessions
		SET deleted_at = ?
		WHERE deleted_at IS NULL
	`

	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	return nil
}

// List retrieves all sessions matching the given criteria, excluding soft-deleted sessions
func (r *SessionRepository) List(criteria map[string]any) ([]*models.PersistedSession, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE deleted_at IS NULL
	`, sessionColumns)

	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.PersistedSession
	for rows.Next() {
		session, err := r.scanRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}
