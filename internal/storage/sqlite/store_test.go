package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/jdsports555/WaifuChatBotv2/internal/storage"
	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:", 10)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.GetOrCreateUser(ctx, "tg:7", "Rin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	again, err := s.GetOrCreateUser(ctx, "tg:7", "Other")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("duplicate user created for same external ID")
	}
	if again.DisplayName != "Rin" {
		t.Fatalf("display name overwritten: %q", again.DisplayName)
	}

	fetched, err := s.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if fetched.ExternalID != "tg:7" {
		t.Fatalf("external ID = %q", fetched.ExternalID)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetUser(context.Background(), "missing"); err != storage.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetDisplayName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, _ := s.GetOrCreateUser(ctx, "tg:1", "")
	if err := s.SetDisplayName(ctx, u.ID, "Alex"); err != nil {
		t.Fatalf("set display name: %v", err)
	}
	got, _ := s.GetUser(ctx, u.ID)
	if got.DisplayName != "Alex" {
		t.Fatalf("display name = %q, want Alex", got.DisplayName)
	}

	if err := s.SetDisplayName(ctx, "missing", "X"); err != storage.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestHistoryTrimAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, _ := s.GetOrCreateUser(ctx, "tg:1", "")
	for i := 0; i < 15; i++ {
		if err := s.StoreMessage(ctx, u.ID, fmt.Sprintf("msg-%d", i), types.OriginUser); err != nil {
			t.Fatalf("store message: %v", err)
		}
	}

	got, err := s.GetHistory(ctx, u.ID, 0)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("history length = %d, want 10", len(got))
	}
	if got[0].Content != "msg-5" || got[9].Content != "msg-14" {
		t.Fatalf("order wrong: first=%q last=%q", got[0].Content, got[9].Content)
	}

	limited, _ := s.GetHistory(ctx, u.ID, 4)
	if len(limited) != 4 || limited[3].Content != "msg-14" {
		t.Fatalf("limited history wrong: %+v", limited)
	}
}

func TestFactUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, _ := s.GetOrCreateUser(ctx, "tg:1", "")
	if err := s.StoreFact(ctx, u.ID, types.FactJob, "teacher"); err != nil {
		t.Fatalf("store fact: %v", err)
	}
	if err := s.StoreFact(ctx, u.ID, types.FactJob, "engineer"); err != nil {
		t.Fatalf("overwrite fact: %v", err)
	}
	if err := s.StoreFact(ctx, u.ID, types.FactAge, ""); err != storage.ErrEmptyValue {
		t.Fatalf("empty value err = %v, want ErrEmptyValue", err)
	}

	facts, err := s.GetFacts(ctx, u.ID)
	if err != nil {
		t.Fatalf("get facts: %v", err)
	}
	if len(facts) != 1 || facts[types.FactJob] != "engineer" {
		t.Fatalf("facts = %v", facts)
	}
}

func TestAffectionClampInSQL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, _ := s.GetOrCreateUser(ctx, "tg:1", "")
	for i := 0; i < 120; i++ {
		if err := s.UpdateAffection(ctx, u.ID, 1); err != nil {
			t.Fatalf("update affection: %v", err)
		}
	}
	got, _ := s.GetUser(ctx, u.ID)
	if got.Affection != types.MaxAffection {
		t.Fatalf("affection = %d, want %d", got.Affection, types.MaxAffection)
	}

	if err := s.UpdateAffection(ctx, u.ID, -500); err != nil {
		t.Fatalf("negative update: %v", err)
	}
	got, _ = s.GetUser(ctx, u.ID)
	if got.Affection != types.MinAffection {
		t.Fatalf("affection = %d, want %d", got.Affection, types.MinAffection)
	}
}
