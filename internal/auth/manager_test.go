package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/repositories"
	"github.com/249ali/shelf/internal/shared"
	tu "github.com/249ali/shelf/internal/testing"
)

func newSessionRepo(t *testing.T) *repositories.SessionRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	db, err := shared.NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return repositories.NewSessionRepository(db)
}

func testSession() *models.Session {
	return &models.Session{
		AccessToken:  "test_access_token",
		TokenType:    "bearer",
		RefreshToken: "test_refresh_token",
		ExpiresIn:    3600,
		User: models.User{
			ID:    "u1",
			Email: "reader@example.com",
			Name:  "Reader",
			Role:  "authenticated",
		},
	}
}

func TestManager(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		t.Run("Successful Sign In", func(t *testing.T) {
			identity := &tu.MockIdentity{
				SignInWithPasswordFunc: func(ctx context.Context, email, password string) (*models.Session, error) {
					if email != "reader@example.com" {
						t.Errorf("expected email to be forwarded, got %s", email)
					}
					return testSession(), nil
				},
			}

			manager := NewManager(identity, nil)

			session, err := manager.Login(context.Background(), "reader@example.com", "hunter2")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if session.AccessToken != "test_access_token" {
				t.Errorf("expected issued token, got %s", session.AccessToken)
			}
			if manager.Token() != "test_access_token" {
				t.Errorf("expected manager to hold token, got %s", manager.Token())
			}
			if manager.Current() == nil {
				t.Error("expected current session to be set")
			}
			if manager.Loading() {
				t.Error("expected loading to be cleared after login")
			}
		})

		t.Run("Rejected Credentials", func(t *testing.T) {
			identity := &tu.MockIdentity{
				SignInWithPasswordFunc: func(ctx context.Context, email, password string) (*models.Session, error) {
					return nil, shared.ErrInvalidCredentials
				},
			}

			manager := NewManager(identity, nil)

			_, err := manager.Login(context.Background(), "reader@example.com", "wrong")
			if !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
			if manager.Current() != nil {
				t.Error("expected no session after failed login")
			}
		})
	})

	t.Run("SignUp", func(t *testing.T) {
		identity := &tu.MockIdentity{
			SignUpFunc: func(ctx context.Context, email, password, name string) (*models.Session, error) {
				session := testSession()
				session.User.Name = name
				return session, nil
			},
		}

		manager := NewManager(identity, nil)

		session, err := manager.SignUp(context.Background(), "reader@example.com", "hunter2", "Reader")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.User.Name != "Reader" {
			t.Errorf("expected display name to be carried, got %s", session.User.Name)
		}
		if manager.Token() == "" {
			t.Error("expected manager to hold token after signup")
		}
	})

	t.Run("Adopt", func(t *testing.T) {
		t.Run("Valid Session", func(t *testing.T) {
			manager := NewManager(&tu.MockIdentity{}, nil)

			if err := manager.Adopt(testSession()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if manager.Token() != "test_access_token" {
				t.Error("expected adopted token to be active")
			}
		})

		t.Run("Missing Access Token", func(t *testing.T) {
			manager := NewManager(&tu.MockIdentity{}, nil)

			err := manager.Adopt(&models.Session{})
			if !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})

		t.Run("Nil Session", func(t *testing.T) {
			manager := NewManager(&tu.MockIdentity{}, nil)

			if err := manager.Adopt(nil); err == nil {
				t.Error("expected error for nil session")
			}
		})

		t.Run("Token Only Session Stays In Memory", func(t *testing.T) {
			repo := newSessionRepo(t)
			manager := NewManager(&tu.MockIdentity{}, repo)

			session := &models.Session{AccessToken: "imported_token", TokenType: "bearer"}
			if err := manager.Adopt(session); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if manager.Token() != "imported_token" {
				t.Errorf("expected imported token to be active, got %s", manager.Token())
			}

			if _, err := repo.Latest(); !errors.Is(err, shared.ErrNoSession) {
				t.Errorf("expected store to stay empty, got %v", err)
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		t.Run("Revokes And Clears", func(t *testing.T) {
			revoked := ""
			identity := &tu.MockIdentity{
				SignOutFunc: func(ctx context.Context, accessToken string) error {
					revoked = accessToken
					return nil
				},
			}

			manager := NewManager(identity, nil)
			if err := manager.Adopt(testSession()); err != nil {
				t.Fatalf("failed to adopt session: %v", err)
			}

			if err := manager.Logout(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if revoked != "test_access_token" {
				t.Errorf("expected token to be revoked, got %q", revoked)
			}
			if manager.Current() != nil {
				t.Error("expected session to be cleared")
			}
		})

		t.Run("Clears Local State When Revocation Fails", func(t *testing.T) {
			identity := &tu.MockIdentity{
				SignOutFunc: func(ctx context.Context, accessToken string) error {
					return shared.ErrAuthFailed
				},
			}

			manager := NewManager(identity, nil)
			if err := manager.Adopt(testSession()); err != nil {
				t.Fatalf("failed to adopt session: %v", err)
			}

			err := manager.Logout(context.Background())
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected revocation error to surface, got %v", err)
			}
			if manager.Current() != nil {
				t.Error("expected session to be cleared despite revocation failure")
			}
		})

		t.Run("Signed Out Is A No-Op", func(t *testing.T) {
			manager := NewManager(&tu.MockIdentity{}, nil)

			if err := manager.Logout(context.Background()); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Restore", func(t *testing.T) {
		t.Run("Without Store", func(t *testing.T) {
			manager := NewManager(&tu.MockIdentity{}, nil)

			_, err := manager.Restore()
			if !errors.Is(err, shared.ErrNoSession) {
				t.Errorf("expected ErrNoSession, got %v", err)
			}
		})

		t.Run("Round Trip Through Store", func(t *testing.T) {
			repo := newSessionRepo(t)

			first := NewManager(&tu.MockIdentity{}, repo)
			if err := first.Adopt(testSession()); err != nil {
				t.Fatalf("failed to adopt session: %v", err)
			}

			second := NewManager(&tu.MockIdentity{}, repo)
			session, err := second.Restore()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if session.AccessToken != "test_access_token" {
				t.Errorf("expected stored token, got %s", session.AccessToken)
			}
			if session.User.Email != "reader@example.com" {
				t.Errorf("expected stored email, got %s", session.User.Email)
			}
			if second.Token() != "test_access_token" {
				t.Error("expected restored token to be active")
			}
		})

		t.Run("Empty Store", func(t *testing.T) {
			repo := newSessionRepo(t)
			manager := NewManager(&tu.MockIdentity{}, repo)

			_, err := manager.Restore()
			if !errors.Is(err, shared.ErrNoSession) {
				t.Errorf("expected ErrNoSession, got %v", err)
			}
		})

		t.Run("Expired Session", func(t *testing.T) {
			repo := newSessionRepo(t)

			session := testSession()
			expired := time.Now().Add(-time.Hour)
			session.ExpiresIn = 0
			session.ExpiresAt = expired

			first := NewManager(&tu.MockIdentity{}, repo)
			if err := first.Adopt(session); err != nil {
				t.Fatalf("failed to adopt session: %v", err)
			}

			second := NewManager(&tu.MockIdentity{}, repo)
			_, err := second.Restore()
			if !errors.Is(err, shared.ErrSessionExpired) {
				t.Errorf("expected ErrSessionExpired, got %v", err)
			}
			if second.Current() != nil {
				t.Error("expected no session after expired restore")
			}
		})

		t.Run("Logout Retires Stored Sessions", func(t *testing.T) {
			repo := newSessionRepo(t)

			manager := NewManager(&tu.MockIdentity{}, repo)
			if err := manager.Adopt(testSession()); err != nil {
				t.Fatalf("failed to adopt session: %v", err)
			}
			if err := manager.Logout(context.Background()); err != nil {
				t.Fatalf("failed to logout: %v", err)
			}

			_, err := manager.Restore()
			if !errors.Is(err, shared.ErrNoSession) {
				t.Errorf("expected ErrNoSession after logout, got %v", err)
			}
		})
	})

	t.Run("Whoami", func(t *testing.T) {
		t.Run("Signed In", func(t *testing.T) {
			identity := &tu.MockIdentity{
				GetUserFunc: func(ctx context.Context, accessToken string) (*models.User, error) {
					if accessToken != "test_access_token" {
						t.Errorf("expected active token to be used, got %s", accessToken)
					}
					return &models.User{ID: "u1", Email: "reader@example.com"}, nil
				},
			}

			manager := NewManager(identity, nil)
			if err := manager.Adopt(testSession()); err != nil {
				t.Fatalf("failed to adopt session: %v", err)
			}

			user, err := manager.Whoami(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.ID != "u1" {
				t.Errorf("expected user id 'u1', got %s", user.ID)
			}
		})

		t.Run("Signed Out", func(t *testing.T) {
			manager := NewManager(&tu.MockIdentity{}, nil)

			_, err := manager.Whoami(context.Background())
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})
}
