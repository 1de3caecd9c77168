// Package storage defines the FactStore contract: user profiles, learned
// facts, and bounded conversation history behind a narrow interface so the
// pipeline never depends on a concrete backend. Three implementations exist
// under memory/, sqlite/, and postgres/; the pipeline treats every store
// failure as non-fatal and degrades to empty context.
package storage

import (
	"context"
	"errors"

	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrEmptyValue indicates an attempt to store an empty fact value.
	// Fact values are never empty strings.
	ErrEmptyValue = errors.New("empty fact value")
)

// DefaultHistoryCap is the bounded history window per user. Appending past
// the cap evicts the oldest record first.
const DefaultHistoryCap = 100

// FactStore is the persistence contract for user state. All mutations for a
// single user must be serialized by the implementation; operations on
// different users may proceed in parallel.
type FactStore interface {
	// GetOrCreateUser returns the profile for an external identity,
	// creating it on first contact. displayName fills an empty profile
	// name but never overwrites an existing one. The last-interaction
	// timestamp is refreshed on every call.
	GetOrCreateUser(ctx context.Context, externalID, displayName string) (*types.UserProfile, error)

	// GetUser returns a profile by internal ID, or ErrNotFound.
	GetUser(ctx context.Context, userID string) (*types.UserProfile, error)

	// SetDisplayName overwrites the user's display name. Used by the
	// name-introduction path, which always wins over transport metadata.
	SetDisplayName(ctx context.Context, userID, name string) error

	// StoreMessage appends one record to the user's history, evicting the
	// oldest record when the window is full.
	StoreMessage(ctx context.Context, userID, content string, origin types.Origin) error

	// GetHistory returns up to limit most recent records, oldest first
	// (most-recent-last). A missing user yields an empty slice, not an error.
	GetHistory(ctx context.Context, userID string, limit int) ([]types.MessageRecord, error)

	// StoreFact upserts one (type, value) fact; the latest value per type
	// wins. Empty values are rejected with ErrEmptyValue.
	StoreFact(ctx context.Context, userID string, factType types.FactType, value string) error

	// GetFacts returns every known fact for the user, keyed by type.
	GetFacts(ctx context.Context, userID string) (map[types.FactType]string, error)

	// UpdateAffection adjusts the affection score by delta, clamped into
	// [0,100] on every update.
	UpdateAffection(ctx context.Context, userID string, delta int) error

	// Close releases backend resources.
	Close() error
}
