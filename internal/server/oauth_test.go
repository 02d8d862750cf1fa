package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/249ali/shelf/internal/models"
)

func TestAuthHandler(t *testing.T) {
	exchange := func(ctx context.Context, code string) (*models.Session, error) {
		if code != "valid_code" {
			return nil, fmt.Errorf("unknown code")
		}
		return &models.Session{AccessToken: "exchanged_token", TokenType: "bearer"}, nil
	}

	t.Run("Routes", func(t *testing.T) {
		handler := NewAuthHandler(exchange, "state123")

		routes := handler.Routes()
		if len(routes) != 1 || routes[0] != "/callback" {
			t.Errorf("expected single /callback route, got %v", routes)
		}
	})

	t.Run("Successful Exchange", func(t *testing.T) {
		handler := NewAuthHandler(exchange, "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state123&code=valid_code", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Signed In") {
			t.Error("expected confirmation page in response")
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Session == nil || result.Session.AccessToken != "exchanged_token" {
			t.Errorf("expected exchanged session, got %+v", result.Session)
		}
	})

	t.Run("State Mismatch Rejected", func(t *testing.T) {
		handler := NewAuthHandler(exchange, "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=forged&code=valid_code", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected state validation error")
		}
	})

	t.Run("Missing Code", func(t *testing.T) {
		handler := NewAuthHandler(exchange, "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state123&error=access_denied&error_description=denied", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected provider error to surface, got %v", result.Error())
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		handler := NewAuthHandler(exchange, "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state123&code=bad_code", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected exchange error")
		}
	})

	t.Run("Second Callback Rejected", func(t *testing.T) {
		handler := NewAuthHandler(exchange, "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state123&code=valid_code", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected first callback to succeed, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state123&code=valid_code", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected replayed callback to be rejected, got %d", rec.Code)
		}
	})

	t.Run("Result Channel Closes After Send", func(t *testing.T) {
		handler := NewAuthHandler(exchange, "state123")

		handler.Send(AuthResult{Session: &models.Session{AccessToken: "t"}})
		handler.Send(AuthResult{err: fmt.Errorf("dropped")})

		first, ok := <-handler.Result()
		if !ok || first.Session == nil {
			t.Error("expected first result to be delivered")
		}
		if _, ok := <-handler.Result(); ok {
			t.Error("expected channel to be closed after the first result")
		}
	})
}
