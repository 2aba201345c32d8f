package middleware

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRequestHashDeterministic(t *testing.T) {
	hash1 := RequestHash([]byte("payload"))
	hash2 := RequestHash([]byte("payload"))
	hash3 := RequestHash([]byte("other"))

	if hash1 != hash2 {
		t.Fatal("expected deterministic hash")
	}
	if hash1 == hash3 {
		t.Fatal("expected different hash for different payload")
	}
}

func TestIdempotencyStoreReplaysSavedResponse(t *testing.T) {
	store := NewIdempotencyStore()
	hash := RequestHash([]byte(`{"id":"E001"}`))

	if _, found, err := store.Check("employees.create", "key-1", hash); err != nil || found {
		t.Fatalf("expected miss on fresh store, found=%v err=%v", found, err)
	}

	response := json.RawMessage(`{"id":"E001","name":"Ahmed Hassan"}`)
	if err := store.Save("employees.create", "key-1", hash, response); err != nil {
		t.Fatalf("save: %v", err)
	}

	stored, found, err := store.Check("employees.create", "key-1", hash)
	if err != nil {
		t.Fatalf("check after save: %v", err)
	}
	if !found {
		t.Fatal("expected replay hit after save")
	}
	if string(stored) != string(response) {
		t.Fatalf("expected stored response replayed, got %s", stored)
	}
}

func TestIdempotencyStoreRejectsReusedKey(t *testing.T) {
	store := NewIdempotencyStore()
	hash := RequestHash([]byte(`{"id":"E001"}`))
	otherHash := RequestHash([]byte(`{"id":"E002"}`))

	if err := store.Save("employees.create", "key-1", hash, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, _, err := store.Check("employees.create", "key-1", otherHash); !errors.Is(err, ErrIdempotencyConflict) {
		t.Fatalf("expected conflict for key reused with new body, got %v", err)
	}
	if err := store.Save("employees.create", "key-1", otherHash, json.RawMessage(`{}`)); !errors.Is(err, ErrIdempotencyConflict) {
		t.Fatalf("expected conflict on save with new body, got %v", err)
	}
}

func TestIdempotencyStoreScopesKeysPerEndpoint(t *testing.T) {
	store := NewIdempotencyStore()
	hash := RequestHash([]byte(`{"id":"E001"}`))

	if err := store.Save("employees.create", "key-1", hash, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, found, err := store.Check("snapshot.backup", "key-1", hash); err != nil || found {
		t.Fatalf("expected independent key space per endpoint, found=%v err=%v", found, err)
	}
}
