package blobstore

import (
	"context"
	"errors"
	"testing"

	"github.com/hrsync/tcsync/internal/errs"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	ctx := context.Background()
	want := []byte(`{"users":[]}`)
	if err := store.PutJSON(ctx, "users.json", want); err != nil {
		t.Fatalf("PutJSON: %v", err)
	}

	got, err := store.GetJSON(ctx, "users.json")
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("GetJSON = %q, want %q", got, want)
	}
}

func TestLocalStoreGetMissingKey(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	_, err = store.GetJSON(context.Background(), "missing.json")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStorePutOverwritesAtomically(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	if err := store.PutJSON(ctx, "k", []byte("first")); err != nil {
		t.Fatalf("PutJSON: %v", err)
	}
	if err := store.PutJSON(ctx, "k", []byte("second")); err != nil {
		t.Fatalf("PutJSON: %v", err)
	}

	got, err := store.GetJSON(ctx, "k")
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("GetJSON = %q, want %q", got, "second")
	}
}

func TestLocalStorePathRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	// filepath.Base strips any directory components, so a traversal-shaped
	// key resolves to a plain filename inside the store's own directory.
	if got := store.path("../../etc/passwd"); got == "../../etc/passwd" {
		t.Errorf("path did not sanitise traversal key: %q", got)
	}
}
