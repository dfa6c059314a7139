package catalog

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestStoreOpensLazily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "photos.db")
	store := NewStore("sqlite", path)
	defer store.Close()

	if store.db != nil {
		t.Fatal("database opened before first use")
	}

	first, err := store.DB()
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.DB()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expect the same handle on every call")
	}

	var count int
	err = first.Get(&count, `SELECT COUNT(*) FROM photos`)
	if err != nil {
		t.Fatalf("photos table missing after open: %v", err)
	}
}

func TestStoreClosed(t *testing.T) {
	store := NewStore("sqlite", filepath.Join(t.TempDir(), "photos.db"))
	_, err := store.DB()
	if err != nil {
		t.Fatal(err)
	}

	err = store.Close()
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.DB()
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expect ErrClosed, got %v", err)
	}
}

func TestStoreRetriesFailedOpen(t *testing.T) {
	store := NewStore("nosuchdriver", "whatever")
	defer store.Close()

	_, err := store.DB()
	if err == nil {
		t.Fatal("expect error for unknown driver")
	}
	if store.db != nil {
		t.Error("failed open must not be cached")
	}
}
