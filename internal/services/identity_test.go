package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/shared"
)

func newIdentityService(t *testing.T, handler http.HandlerFunc) *IdentityService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv, err := NewIdentityService(shared.IdentityConfig{
		URL:    server.URL,
		APIKey: "test_api_key",
	}, nil)
	if err != nil {
		t.Fatalf("failed to create identity service: %v", err)
	}

	return srv
}

func TestIdentityService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Valid Config", func(t *testing.T) {
			srv, err := NewIdentityService(shared.IdentityConfig{
				URL:    "http://identity.example.com",
				APIKey: "test_api_key",
			}, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.baseURL != "http://identity.example.com" {
				t.Errorf("expected baseURL to be kept, got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("Missing URL", func(t *testing.T) {
			_, err := NewIdentityService(shared.IdentityConfig{APIKey: "test_api_key"}, nil)
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("Missing API Key", func(t *testing.T) {
			_, err := NewIdentityService(shared.IdentityConfig{URL: "http://identity.example.com"}, nil)
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})
	})

	t.Run("Get AuthURL", func(t *testing.T) {
		srv, err := NewIdentityService(shared.IdentityConfig{
			URL:      "http://identity.example.com",
			APIKey:   "test_api_key",
			ClientID: "test_client_id",
		}, nil)
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		authURL := srv.GetAuthURL("test_state")
		if !strings.Contains(authURL, "/auth/v1/authorize") {
			t.Errorf("auth URL should contain authorize path, got %s", authURL)
		}
		if !strings.Contains(authURL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(authURL, "test_state") {
			t.Error("auth URL should contain state")
		}
	})

	t.Run("SignInWithPassword", func(t *testing.T) {
		t.Run("Valid Credentials", func(t *testing.T) {
			srv := newIdentityService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/v1/token" {
					t.Errorf("expected token path, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("grant_type") != "password" {
					t.Errorf("expected grant_type 'password', got %s", r.URL.Query().Get("grant_type"))
				}
				if r.Header.Get("apikey") != "test_api_key" {
					t.Errorf("expected apikey header, got %s", r.Header.Get("apikey"))
				}

				var payload map[string]string
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if payload["email"] != "reader@example.com" {
					t.Errorf("expected email in payload, got %s", payload["email"])
				}

				json.NewEncoder(w).Encode(models.Session{
					AccessToken: "issued_token",
					TokenType:   "bearer",
					ExpiresIn:   3600,
					User:        models.User{ID: "u1", Email: "reader@example.com"},
				})
			})

			session, err := srv.SignInWithPassword(context.Background(), "reader@example.com", "hunter2")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if session.AccessToken != "issued_token" {
				t.Errorf("expected access token 'issued_token', got %s", session.AccessToken)
			}
			if session.User.Email != "reader@example.com" {
				t.Errorf("expected user email, got %s", session.User.Email)
			}
		})

		t.Run("Rejected Credentials", func(t *testing.T) {
			srv := newIdentityService(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			})

			_, err := srv.SignInWithPassword(context.Background(), "reader@example.com", "wrong")
			if !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})

		t.Run("Missing Credentials", func(t *testing.T) {
			srv := newIdentityService(t, func(w http.ResponseWriter, r *http.Request) {})

			_, err := srv.SignInWithPassword(context.Background(), "", "")
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("SignUp", func(t *testing.T) {
		t.Run("With Display Name", func(t *testing.T) {
			srv := newIdentityService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/v1/signup" {
					t.Errorf("expected signup path, got %s", r.URL.Path)
				}

				var payload map[string]any
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				data, ok := payload["data"].(map[string]any)
				if !ok || data["name"] != "Reader" {
					t.Errorf("expected data.name 'Reader', got %v", payload["data"])
				}

				json.NewEncoder(w).Encode(models.Session{
					AccessToken: "fresh_token",
					User:        models.User{ID: "u1", Email: "reader@example.com", Name: "Reader"},
				})
			})

			session, err := srv.SignUp(context.Background(), "reader@example.com", "hunter2", "Reader")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if session.User.Name != "Reader" {
				t.Errorf("expected user name 'Reader', got %s", session.User.Name)
			}
		})

		t.Run("Without Display Name Omits Data", func(t *testing.T) {
			srv := newIdentityService(t, func(w http.ResponseWriter, r *http.Request) {
				var payload map[string]any
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if _, ok := payload["data"]; ok {
					t.Error("expected no data field without a display name")
				}

				json.NewEncoder(w).Encode(models.Session{AccessToken: "fresh_token"})
			})

			if _, err := srv.SignUp(context.Background(), "reader@example.com", "hunter2", ""); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("SignOut", func(t *testing.T) {
		t.Run("Sends Bearer Token", func(t *testing.T) {
			srv := newIdentityService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/v1/logout" {
					t.Errorf("expected logout path, got %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "Bearer session_token" {
					t.Errorf("expected bearer header, got %s", r.Header.Get("Authorization"))
				}
				w.WriteHeader(http.StatusNoContent)
			})

			if err := srv.SignOut(context.Background(), "session_token"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Missing Token", func(t *testing.T) {
			srv := newIdentityService(t, func(w http.ResponseWriter, r *http.Request) {})

			err := srv.SignOut(context.Background(), "")
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("GetUser", func(t *testing.T) {
		t.Run("Valid Token", func(t *testing.T) {
			srv := newIdentityService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/v1/user" {
					t.Errorf("expected user path, got %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(models.User{ID: "u1", Email: "reader@example.com", Role: "authenticated"})
			})

			user, err := srv.GetUser(context.Background(), "session_token")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.ID != "u1" {
				t.Errorf("expected user id 'u1', got %s", user.ID)
			}
		})

		t.Run("Rejected Token", func(t *testing.T) {
			srv := newIdentityService(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			})

			_, err := srv.GetUser(context.Background(), "stale_token")
			if !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	})

	t.Run("Service Interface", func(t *testing.T) {
		srv := newIdentityService(t, func(w http.ResponseWriter, r *http.Request) {})
		var _ Identity = srv
	})
}
