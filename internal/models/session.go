package models

import (
	"fmt"
	"time"
)

// PersistedSession is the database-backed record of an identity session.
//
// At most one non-deleted row exists per user; sign-out soft-deletes the row.
type PersistedSession struct {
	id           string
	sequence     int
	userID       string
	email        string
	name         string
	role         string
	accessToken  string
	refreshToken string
	expiresAt    *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewPersistedSession creates a session record from a provider [Session].
func NewPersistedSession(sequence int, session Session) *PersistedSession {
	now := time.Now()
	ps := &PersistedSession{
		sequence:     sequence,
		userID:       session.User.ID,
		email:        session.User.Email,
		name:         session.User.Name,
		role:         session.User.Role,
		accessToken:  session.AccessToken,
		refreshToken: session.RefreshToken,
		createdAt:    now,
		updatedAt:    now,
	}

	if !session.ExpiresAt.IsZero() {
		expiry := session.ExpiresAt
		ps.expiresAt = &expiry
	} else if session.ExpiresIn > 0 {
		expiry := now.Add(time.Duration(session.ExpiresIn) * time.Second)
		ps.expiresAt = &expiry
	}

	return ps
}

func (s *PersistedSession) ID() string            { return s.id }
func (s *PersistedSession) Sequence() int         { return s.sequence }
func (s *PersistedSession) UserID() string        { return s.userID }
func (s *PersistedSession) Email() string         { return s.email }
func (s *PersistedSession) Name() string          { return s.name }
func (s *PersistedSession) Role() string          { return s.role }
func (s *PersistedSession) AccessToken() string   { return s.accessToken }
func (s *PersistedSession) RefreshToken() string  { return s.refreshToken }
func (s *PersistedSession) ExpiresAt() *time.Time { return s.expiresAt }
func (s *PersistedSession) CreatedAt() time.Time  { return s.createdAt }
func (s *PersistedSession) UpdatedAt() time.Time  { return s.updatedAt }
func (s *PersistedSession) DeletedAt() *time.Time { return s.deletedAt }

func (s *PersistedSession) SetID(id string)                { s.id = id }
func (s *PersistedSession) SetUserID(id string)            { s.userID = id }
func (s *PersistedSession) SetEmail(email string)          { s.email = email }
func (s *PersistedSession) SetName(name string)            { s.name = name }
func (s *PersistedSession) SetRole(role string)            { s.role = role }
func (s *PersistedSession) SetAccessToken(token string)    { s.accessToken = token }
func (s *PersistedSession) SetRefreshToken(token string)   { s.refreshToken = token }
func (s *PersistedSession) SetExpiresAt(t *time.Time)      { s.expiresAt = t }
func (s *PersistedSession) SetCreatedAt(t time.Time)       { s.createdAt = t }
func (s *PersistedSession) SetUpdatedAt(t time.Time)       { s.updatedAt = t }
func (s *PersistedSession) SetDeletedAt(t *time.Time)      { s.deletedAt = t }

// Expired reports whether the session's expiry, when known, has passed.
func (s *PersistedSession) Expired() bool {
	return s.expiresAt != nil && time.Now().After(*s.expiresAt)
}

// Validate checks if the session's data is valid.
func (s *PersistedSession) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("session user_id is required")
	}
	if s.email == "" {
		return fmt.Errorf("session email is required")
	}
	if s.accessToken == "" {
		return fmt.Errorf("session access_token is required")
	}
	return nil
}

// Session converts the stored record back into a provider [Session] DTO.
func (s *PersistedSession) Session() Session {
	session := Session{
		AccessToken:  s.accessToken,
		TokenType:    "bearer",
		RefreshToken: s.refreshToken,
		User: User{
			ID:        s.userID,
			Email:     s.email,
			Name:      s.name,
			Role:      s.role,
			CreatedAt: s.createdAt,
		},
	}
	if s.expiresAt != nil {
		session.ExpiresAt = *s.expiresAt
	}
	return session
}
