// package models defines the data model for the shelf client
package models

import "time"

// Model is implemented by every locally persisted entity.
type Model interface {
	// ID returns the entity's unique identifier.
	ID() string
	// CreatedAt returns when the entity was first stored.
	CreatedAt() time.Time
	// UpdatedAt returns when the entity last changed.
	UpdatedAt() time.Time
	// Validate reports whether the entity is safe to persist.
	Validate() error
}

// Repository describes the storage operations available for a [Model].
// The sqlite-backed implementations live in internal/repositories.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	// List returns all entities matching the column/value criteria.
	List(criteria map[string]any) ([]T, error)
}
