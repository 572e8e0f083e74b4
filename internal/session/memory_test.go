package session

import (
	"context"
	"testing"

	"github.com/goliatone/go-docwizard/pkg/schema"
	"github.com/goliatone/go-docwizard/pkg/wizard"
)

func sampleSession() *wizard.Session {
	return &wizard.Session{
		TemplateID: "act",
		Phase:      wizard.PhaseCollecting,
		Fields: []schema.FieldSpec{
			{Key: "name", Label: "Имя"},
		},
		Collected:    map[string]string{"name": "Иван"},
		Skipped:      map[string]bool{},
		EditingIndex: -1,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	loaded, err := store.Load(ctx, 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil for absent session")
	}

	if err := store.Save(ctx, 1, sampleSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err = store.Load(ctx, 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil || loaded.Collected["name"] != "Иван" {
		t.Fatalf("loaded = %+v", loaded)
	}

	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	loaded, _ = store.Load(ctx, 1)
	if loaded != nil {
		t.Fatalf("session survived clear")
	}
	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("clearing absent session: %v", err)
	}
}

func TestMemoryStoreHandsOutCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := sampleSession()
	if err := store.Save(ctx, 1, original); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the saved-in session must not affect the stored state.
	original.Collected["name"] = "changed"
	loaded, _ := store.Load(ctx, 1)
	if loaded.Collected["name"] != "Иван" {
		t.Fatalf("store shares state with caller: %q", loaded.Collected["name"])
	}

	// Mutating a loaded session must not affect the stored state either.
	loaded.Collected["name"] = "changed"
	again, _ := store.Load(ctx, 1)
	if again.Collected["name"] != "Иван" {
		t.Fatalf("load hands out shared state: %q", again.Collected["name"])
	}
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, 1, sampleSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	other, _ := store.Load(ctx, 2)
	if other != nil {
		t.Fatalf("user 2 sees user 1 session")
	}
}
