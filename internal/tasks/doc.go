// Package tasks orchestrates multi-request reading list operations with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Suggest] : Recommendations for a whole reading list
//     - Fetches the reading list and each book on it
//     - Requests recommendations for every book
//     - Returns per-book results including failures
//
//  2. [Engine.Dump] : Fetch all account data from the library API
//     - Retrieves the catalog and the user's reading lists
//     - Returns structured data for backup or analysis
//
// Bulk reading list exports live in bulk_export.go, using a worker pool with rate limiting.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [ShelfEngine] implements [Engine] with dependencies on:
//   - [services.Library] : Typed library API client
//   - [APIClient] : Raw HTTP client for the dump operation
package tasks
