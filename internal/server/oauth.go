package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/249ali/shelf/internal/models"
)

// ExchangeFunc trades an authorization code for a provider session.
type ExchangeFunc func(ctx context.Context, code string) (*models.Session, error)

// AuthResult contains the result of a browser authorization flow.
type AuthResult struct {
	Session *models.Session
	err     error
}

func (a *AuthResult) Error() error {
	return a.err
}

// AuthHandler handles the identity provider's callback during browser sign-in.
// Implements the Handler interface for registration with a Router.
type AuthHandler struct {
	exchange    ExchangeFunc
	state       string
	resultChan  chan AuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewAuthHandler creates a new callback handler with the given exchange function and state token.
// The state token should be cryptographically random for CSRF protection.
func NewAuthHandler(exchange ExchangeFunc, state string) *AuthHandler {
	return &AuthHandler{
		exchange:   exchange,
		state:      state,
		resultChan: make(chan AuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the provider callback.
//
// Validates the state parameter, exchanges the authorization code for a session, and sends the result through the result channel.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.Send(AuthResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		err := fmt.Errorf("authorization failed: %s - %s", errParam, errDesc)
		h.Send(AuthResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	session, err := h.exchange(r.Context(), code)
	if err != nil {
		h.Send(AuthResult{err: fmt.Errorf("code exchange failed: %w", err)})
		http.Error(w, "Code exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(AuthResult{Session: session})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Signed In</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #7D56F4; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Signed In</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send sends the auth result through the channel (only once).
func (h *AuthHandler) Send(result AuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving sign-in completion.
//
// Channel will receive exactly one result and then be closed.
func (h *AuthHandler) Result() <-chan AuthResult {
	return h.resultChan
}
