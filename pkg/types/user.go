package types

import "time"

// UserProfile represents one user the character has talked to. Profiles are
// created on first contact and mutated only through the store: the fact
// extractor may set the display name and the pipeline bumps affection and
// the last-interaction timestamp.
type UserProfile struct {
	ID               string    `json:"id"`                // Internal identity key (UUID)
	ExternalID       string    `json:"external_id"`       // Transport-level identity (e.g. Telegram chat ID)
	DisplayName      string    `json:"display_name"`      // Optional; filled from transport metadata or name introduction
	Affection        int       `json:"affection"`         // Bounded [0,100], clamped on every update
	FirstInteraction time.Time `json:"first_interaction"` // Set once at creation
	LastInteraction  time.Time `json:"last_interaction"`  // Updated on every contact
}

// Fact is a single learned (type, value) datum about a user. Values are
// normalized to lowercase by the extractor and are never empty.
type Fact struct {
	UserID string   `json:"user_id"`
	Type   FactType `json:"type"`
	Value  string   `json:"value"`
}

// MessageRecord is one entry of a user's bounded conversation history.
// Records are append-only; the store evicts oldest-first past the cap.
type MessageRecord struct {
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Origin    Origin    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}
