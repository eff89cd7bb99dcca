package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxgate/rxgate/internal/auth"
)

func TestFileStore_PutGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()

	rec := &Record{ID: "s1", Token: "tok", Role: auth.RoleDoctor, UpdatedAt: time.Now().UTC()}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Token != "tok" || got.Role != auth.RoleDoctor {
		t.Errorf("unexpected record: %+v", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	rec, err := store.Get(context.Background(), "nope")
	if err != nil || rec != nil {
		t.Errorf("expected nil, nil; got %+v, %v", rec, err)
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sessions.json")
	ctx := context.Background()

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for _, rec := range []*Record{
		{ID: "a", Token: "tok-a", Role: auth.RolePharmacist},
		{ID: "b", Token: "tok-b", Role: auth.RolePatient},
	} {
		if err := store.Put(ctx, rec); err != nil {
			t.Fatalf("put %s: %v", rec.ID, err)
		}
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	all, err := reopened.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records after reopen, got %d", len(all))
	}
	got, err := reopened.Get(ctx, "b")
	if err != nil || got == nil {
		t.Fatalf("get b: %+v, %v", got, err)
	}
	if got.Token != "tok-b" || got.Role != auth.RolePatient {
		t.Errorf("unexpected record b: %+v", got)
	}
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()
	if err := store.Put(ctx, &Record{ID: "s1", Token: "tok", Role: auth.RoleDoctor}); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, _ := store.Get(ctx, "s1")
	got.Token = "mutated"

	again, _ := store.Get(ctx, "s1")
	if again.Token != "tok" {
		t.Error("store must not share record pointers with callers")
	}
}
