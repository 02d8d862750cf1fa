// Identity provider implementation of [Identity]
//
// Endpoint shapes follow the provider's auth/v1 REST surface: signup, token
// (password grant), logout, user, plus an authorization code flow for
// browser-based sign-in.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/shared"
	"golang.org/x/oauth2"
)

const (
	identitySignUpPath    = "/auth/v1/signup"
	identityTokenPath     = "/auth/v1/token"
	identityLogoutPath    = "/auth/v1/logout"
	identityUserPath      = "/auth/v1/user"
	identityAuthorizePath = "/auth/v1/authorize"
)

// IdentityService implements the Identity interface for the hosted identity provider.
// Uses [oauth2] for the browser-based authorization code flow and plain HTTP for the password grant.
type IdentityService struct {
	baseURL    string
	apiKey     string
	config     *oauth2.Config
	httpClient *http.Client
}

// NewIdentityService creates a new identity service from provider configuration.
func NewIdentityService(cfg shared.IdentityConfig, client *http.Client) (*IdentityService, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("identity url: %w", shared.ErrMissingConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("identity api key: %w", shared.ErrMissingConfig)
	}
	if client == nil {
		client = http.DefaultClient
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.URL + identityAuthorizePath,
			TokenURL: cfg.URL + identityTokenPath,
		},
	}

	return &IdentityService{
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		config:     config,
		httpClient: client,
	}, nil
}

// GetAuthURL returns the provider's authorization URL for browser login.
func (s *IdentityService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a session, then resolves the user profile.
func (s *IdentityService) Exchange(ctx context.Context, code string) (*models.Session, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}

	session := &models.Session{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		ExpiresAt:    token.Expiry,
		RefreshToken: token.RefreshToken,
	}

	user, err := s.GetUser(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}
	session.User = *user

	return session, nil
}

// doRequest performs an HTTP request against the identity provider.
// The project apikey header goes on every request; accessToken, when set, adds a bearer header.
func (s *IdentityService) doRequest(ctx context.Context, method, endpoint, accessToken string, body interface{}, result interface{}) error {
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

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("status %d: %s: %w", resp.StatusCode, respBody, shared.ErrInvalidCredentials)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s: %w", resp.StatusCode, respBody, shared.ErrAuthFailed)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SignUp registers a new account and returns the issued session.
func (s *IdentityService) SignUp(ctx context.Context, email, password, name string) (*models.Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password: %w", shared.ErrMissingCredentials)
	}

	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	if name != "" {
		payload["data"] = map[string]string{"name": name}
	}

	var session models.Session
	if err := s.doRequest(ctx, http.MethodPost, identitySignUpPath, "", payload, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// SignInWithPassword exchanges email and password for a session via the password grant.
func (s *IdentityService) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password: %w", shared.ErrMissingCredentials)
	}

	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var session models.Session
	endpoint := identityTokenPath + "?grant_type=password"
	if err := s.doRequest(ctx, http.MethodPost, endpoint, "", payload, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// SignOut revokes the session behind the given access token.
func (s *IdentityService) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return fmt.Errorf("access token: %w", shared.ErrMissingCredentials)
	}

	return s.doRequest(ctx, http.MethodPost, identityLogoutPath, accessToken, nil, nil)
}

// GetUser retrieves the profile behind the given access token.
func (s *IdentityService) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token: %w", shared.ErrMissingCredentials)
	}

	var user models.User
	if err := s.doRequest(ctx, http.MethodGet, identityUserPath, accessToken, nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
