// Package server provides the loopback HTTP server used during browser sign-in.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering,
// and [Serve] runs it with context-driven graceful shutdown.
//
// # Callback Handler
//
// [AuthHandler] implements the identity provider's authorization code callback.
//
// The handler validates the state parameter (CSRF protection), hands the code to an
// [ExchangeFunc] for the session exchange, and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs `shelf auth login --browser`, a temporary HTTP server starts on the
// configured host and port, handles the provider callback, and shuts down after the
// session arrives.
package server
