// Package services defines the [Library] interface for the remote library API and implements it alongside the identity provider client.
//
// # Library Interface
//
// All catalog, reading list, and recommendation operations go through a common abstraction, so commands and the TUI can run against a mock in tests.
//
// # Library Implementation
//
// [LibraryService] talks to the library REST API, attaching the bearer token obtained from the identity provider when one is held; unauthenticated calls go out bare and the server decides.
//
// Membership changes on reading lists are read-modify-write: the service fetches the list, edits book_ids locally, and PUTs the whole list back.
//
// # Identity Implementation
//
// [IdentityService] wraps the identity provider's HTTP endpoints (signup, password grant, logout, user profile) and its OAuth authorization code flow via [oauth2.Config].
//
// Every identity request carries the project apikey header; authenticated requests additionally carry the bearer token.
//
// # Error Handling
//
// Non-2xx responses from the library API surface as [*APIError] carrying the status code and raw body. Errors wrap sentinels from the shared package:
//   - [shared.ErrSessionExpired] : 401 from the API, a fresh sign-in is needed
//   - [shared.ErrAPIRequest] : any other non-2xx status
package services
