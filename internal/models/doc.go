// Package models defines domain entities and persistence interfaces for the shelf client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs mirroring library API responses
//   - [Book] : Catalog entry metadata
//   - [ReadingList] : A user-owned collection of book identifiers
//   - [Recommendation] : A suggested book with reason and confidence score
//   - [User] : Profile derived from the identity provider session
//   - [Session] : Bearer credentials plus the user they belong to
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [PersistedSession] : The stored identity session surviving CLI invocations
//
// Persistent entities implement the Model interface providing ID generation, timestamps,
// validation, and soft delete support. The Repository[T] interface defines standard CRUD
// operations for database access.
package models
