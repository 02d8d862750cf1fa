// Package auth holds the client-side authentication state for the shelf CLI.
//
// [Manager] is the single holder of the current identity session. It wraps the
// identity service for sign-in and sign-up, persists issued sessions through
// [repositories.SessionRepository], and restores them on the next invocation.
// Reads and writes are mutex-guarded so the TUI and background tasks can share
// one manager.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/repositories"
	"github.com/249ali/shelf/internal/services"
	"github.com/249ali/shelf/internal/shared"
)

// Manager tracks the current session and whether an auth operation is in flight.
type Manager struct {
	mu       sync.Mutex
	identity services.Identity
	sessions *repositories.SessionRepository
	session  *models.Session
	loading  bool
}

// NewManager creates a manager backed by the given identity service and session store.
// The session store may be nil, in which case sessions live only for the process.
func NewManager(identity services.Identity, sessions *repositories.SessionRepository) *Manager {
	return &Manager{
		identity: identity,
		sessions: sessions,
	}
}

// Current returns the active session, or nil when signed out.
func (m *Manager) Current() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Token returns the active access token, or the empty string when signed out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

// Loading reports whether a sign-in, sign-up, or sign-out is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

// Login exchanges email and password for a session and persists it.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.Session, error) {
	m.setLoading(true)
	defer m.setLoading(false)

	session, err := m.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return session, m.adopt(session)
}

// SignUp registers a new account and persists the issued session.
func (m *Manager) SignUp(ctx context.Context, email, password, name string) (*models.Session, error) {
	m.setLoading(true)
	defer m.setLoading(false)

	session, err := m.identity.SignUp(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	return session, m.adopt(session)
}

// Adopt installs an externally obtained session (OAuth exchange, curl import) and persists it.
func (m *Manager) Adopt(session *models.Session) error {
	if session == nil || session.AccessToken == "" {
		return fmt.Errorf("session has no access token: %w", shared.ErrInvalidCredentials)
	}
	return m.adopt(session)
}

func (m *Manager) adopt(session *models.Session) error {
	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	if m.sessions == nil {
		return nil
	}

	// The store schema requires a resolved profile. Token-only sessions
	// (imported without an identity provider) stay in memory.
	if session.User.ID == "" {
		return nil
	}

	// One stored session at a time; prior rows are retired first.
	if err := m.sessions.DeleteAll(); err != nil {
		return err
	}

	record := models.NewPersistedSession(0, *session)
	if err := m.sessions.Create(record); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	return nil
}

// Logout revokes the current session with the provider and clears local state.
//
// Local state clears even when revocation fails; the token may already be dead.
func (m *Manager) Logout(ctx context.Context) error {
	m.setLoading(true)
	defer m.setLoading(false)

	m.mu.Lock()
	session := m.session
	m.session = nil
	m.mu.Unlock()

	var revokeErr error
	if m.identity != nil && session != nil && session.AccessToken != "" {
		revokeErr = m.identity.SignOut(ctx, session.AccessToken)
	}

	if m.sessions != nil {
		if err := m.sessions.DeleteAll(); err != nil {
			return err
		}
	}

	return revokeErr
}

// Restore loads the most recently stored session into the manager.
//
// Returns [shared.ErrNoSession] when nothing is stored and
// [shared.ErrSessionExpired] when the stored token's expiry has passed.
func (m *Manager) Restore() (*models.Session, error) {
	if m.sessions == nil {
		return nil, shared.ErrNoSession
	}

	record, err := m.sessions.Latest()
	if err != nil {
		return nil, err
	}

	if record.Expired() {
		return nil, fmt.Errorf("stored session expired at %s: %w",
			record.ExpiresAt().Format(time.RFC3339), shared.ErrSessionExpired)
	}

	session := record.Session()

	m.mu.Lock()
	m.session = &session
	m.mu.Unlock()

	return &session, nil
}

// Whoami resolves the current session's profile from the provider.
func (m *Manager) Whoami(ctx context.Context) (*models.User, error) {
	token := m.Token()
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	if m.identity == nil {
		return nil, shared.ErrMissingConfig
	}

	return m.identity.GetUser(ctx, token)
}
