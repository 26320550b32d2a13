package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, time.Hour)
}

func TestGetMissingReturnsFresh(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.State != StateNoContext {
		t.Fatalf("fresh session should start without context, got %q", sess.State)
	}
	if sess.CanChat() {
		t.Fatalf("fresh session must not allow chatting")
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess := New()
	sess.SetFiles(3, []string{"report.pdf", "notes.txt"})
	if err := s.Save(ctx, "alice", sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ChatID != 3 || got.State != StateFilesLoaded {
		t.Fatalf("round trip lost state: %+v", got)
	}
	if len(got.CurrentFiles) != 2 || got.CurrentFiles[0] != "report.pdf" {
		t.Fatalf("round trip lost files: %v", got.CurrentFiles)
	}
	if !got.CanChat() {
		t.Fatalf("session with files should allow chatting")
	}
}

func TestDeleteThenGetIsFresh(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess := New()
	sess.LoadChat(7, []string{"old.pdf"})
	if err := s.Save(ctx, "bob", sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(ctx, "bob"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "bob"); err != nil {
		t.Fatalf("double delete: %v", err)
	}

	got, err := s.Get(ctx, "bob")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CanChat() {
		t.Fatalf("deleted session should come back fresh")
	}
}

func TestStateTransitions(t *testing.T) {
	sess := New()

	sess.SetFiles(1, []string{"a.pdf"})
	if !sess.FilesActive() {
		t.Fatalf("uploaded files should be active")
	}

	sess.MarkConversing()
	if sess.State != StateConversing {
		t.Fatalf("expected conversing after first exchange, got %q", sess.State)
	}

	sess.LoadChat(2, []string{"b.pdf"})
	if sess.FilesActive() {
		t.Fatalf("loaded chat must not claim a live index")
	}
	if !sess.LoadedChat || !sess.CanChat() {
		t.Fatalf("loaded chat should allow chatting")
	}

	// A fresh upload replaces the loaded-chat context.
	sess.SetFiles(2, []string{"c.pdf"})
	if sess.LoadedChat {
		t.Fatalf("upload should clear the loaded-chat flag")
	}

	sess.Reset(3)
	if sess.CanChat() || sess.ChatID != 3 || sess.CurrentFiles != nil {
		t.Fatalf("reset should empty the session: %+v", sess)
	}
}
