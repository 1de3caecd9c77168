// Package memory provides the in-memory reference implementation of
// storage.FactStore. State lives for the process lifetime only; it is the
// default backend and the one the tests exercise hardest.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdsports555/WaifuChatBotv2/internal/storage"
	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

// Store keeps all user state in maps guarded by one mutex. The lock
// serializes every mutation, which satisfies the per-user serialization
// requirement for affection increments and history appends.
type Store struct {
	mu         sync.RWMutex
	historyCap int

	byExternal map[string]*types.UserProfile // external ID -> profile
	byID       map[string]*types.UserProfile // internal ID -> same profile
	facts      map[string]map[types.FactType]string
	history    map[string][]types.MessageRecord
}

// NewStore creates an empty in-memory store. historyCap <= 0 uses
// storage.DefaultHistoryCap.
func NewStore(historyCap int) *Store {
	if historyCap <= 0 {
		historyCap = storage.DefaultHistoryCap
	}
	return &Store{
		historyCap: historyCap,
		byExternal: make(map[string]*types.UserProfile),
		byID:       make(map[string]*types.UserProfile),
		facts:      make(map[string]map[types.FactType]string),
		history:    make(map[string][]types.MessageRecord),
	}
}

// GetOrCreateUser returns the existing profile for externalID or creates one.
func (s *Store) GetOrCreateUser(_ context.Context, externalID, displayName string) (*types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if u, ok := s.byExternal[externalID]; ok {
		u.LastInteraction = now
		if displayName != "" && u.DisplayName == "" {
			u.DisplayName = displayName
		}
		cp := *u
		return &cp, nil
	}

	u := &types.UserProfile{
		ID:               uuid.NewString(),
		ExternalID:       externalID,
		DisplayName:      displayName,
		Affection:        0,
		FirstInteraction: now,
		LastInteraction:  now,
	}
	s.byExternal[externalID] = u
	s.byID[u.ID] = u
	s.facts[u.ID] = make(map[types.FactType]string)

	cp := *u
	return &cp, nil
}

// GetUser returns a copy of the profile for userID.
func (s *Store) GetUser(_ context.Context, userID string) (*types.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// SetDisplayName overwrites the display name for userID.
func (s *Store) SetDisplayName(_ context.Context, userID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.DisplayName = name
	return nil
}

// StoreMessage appends to the bounded history window, evicting oldest-first.
func (s *Store) StoreMessage(_ context.Context, userID, content string, origin types.Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[userID]; !ok {
		return storage.ErrNotFound
	}

	records := append(s.history[userID], types.MessageRecord{
		UserID:    userID,
		Content:   content,
		Origin:    origin,
		Timestamp: time.Now().UTC(),
	})
	if len(records) > s.historyCap {
		records = records[len(records)-s.historyCap:]
	}
	s.history[userID] = records
	return nil
}

// GetHistory returns up to limit most recent records, most-recent-last.
func (s *Store) GetHistory(_ context.Context, userID string, limit int) ([]types.MessageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.history[userID]
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]types.MessageRecord, len(records))
	copy(out, records)
	return out, nil
}

// StoreFact upserts one fact; the latest value per type wins.
func (s *Store) StoreFact(_ context.Context, userID string, factType types.FactType, value string) error {
	if strings.TrimSpace(value) == "" {
		return storage.ErrEmptyValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[userID]; !ok {
		return storage.ErrNotFound
	}
	if s.facts[userID] == nil {
		s.facts[userID] = make(map[types.FactType]string)
	}
	s.facts[userID][factType] = value
	return nil
}

// GetFacts returns a copy of the user's fact map.
func (s *Store) GetFacts(_ context.Context, userID string) (map[types.FactType]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[types.FactType]string, len(s.facts[userID]))
	for k, v := range s.facts[userID] {
		out[k] = v
	}
	return out, nil
}

// UpdateAffection adds delta to the affection score, clamped into [0,100].
func (s *Store) UpdateAffection(_ context.Context, userID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.Affection = types.ClampAffection(u.Affection + delta)
	u.LastInteraction = time.Now().UTC()
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *Store) Close() error { return nil }

// Compile-time assertion.
var _ storage.FactStore = (*Store)(nil)
