package session

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGetSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session has empty ID")
	}

	got, err := store.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("got ID %q, want %q", got.ID, sess.ID)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetSession(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestAppendAndListMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx)
	if err != nil {
		t.Fatal(err)
	}

	msgs := []*Message{
		{SessionID: sess.ID, Role: RoleUser, Content: "quantos itens temos?"},
		{SessionID: sess.ID, Role: RoleAssistant, Content: "São 100 itens.", Payload: `{"total":100}`},
	}
	for _, m := range msgs {
		if err := store.AppendMessage(ctx, m); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
		if m.ID == "" {
			t.Error("message not assigned an ID")
		}
	}

	listed, err := store.ListMessages(ctx, sess.ID, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d messages, want 2", len(listed))
	}
	if listed[0].Role != RoleUser || listed[1].Payload != `{"total":100}` {
		t.Errorf("messages = %+v, %+v", listed[0], listed[1])
	}

	limited, err := store.ListMessages(ctx, sess.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d messages with limit 1", len(limited))
	}
}

func TestCountSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.CreateSession(ctx); err != nil {
			t.Fatal(err)
		}
	}
	count, err := store.CountSessions(ctx)
	if err != nil {
		t.Fatalf("CountSessions: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
