package storage

import (
	"context"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
)

// Backend is the durable side of the claim store.
//
// Implementations are owned by a single Store and are never called
// concurrently for writes.
type Backend interface {
	// Name identifies the backend ("file", "badger").
	Name() string

	// Load returns the persisted allow-list and claimed set.
	// Returned tokens are normalized and free of duplicates.
	Load(ctx context.Context) (*State, error)

	// Apply durably records a single mutation. It returns only after
	// the change is on stable storage.
	Apply(ctx context.Context, m Mutation) error

	// Close flushes and releases the backend.
	Close() error
}

// State is the persisted content of both token sets.
type State struct {
	Allowed []domain.Token
	Claimed []domain.Token
}

// Mutation describes one change to the persisted sets.
type Mutation struct {
	Op    domain.Operation
	Token domain.Token

	// AllowList is the full allow-list after the mutation, sorted.
	// Set for OpAdd and OpRemove; backends that store the allow-list
	// as a single document rewrite it from this value.
	AllowList []domain.Token
}
