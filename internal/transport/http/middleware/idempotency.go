package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
)

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

// IdempotencyStore remembers responses by Idempotency-Key so a retried
// mutation replays the original outcome instead of running twice. The
// store is in-memory and per-process, which matches the single-plant
// deployment; a restart simply forgets finished keys.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
}

type idempotencyEntry struct {
	requestHash string
	response    json.RawMessage
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: map[string]idempotencyEntry{}}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Check returns the stored response for key, if any. A key reused with
// a different request body is a conflict.
func (s *IdempotencyStore) Check(endpoint, key, requestHash string) (json.RawMessage, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[endpoint+"\x00"+key]
	if !ok {
		return nil, false, nil
	}
	if entry.requestHash != requestHash {
		return nil, false, ErrIdempotencyConflict
	}
	return entry.response, true, nil
}

func (s *IdempotencyStore) Save(endpoint, key, requestHash string, response json.RawMessage) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	mapKey := endpoint + "\x00" + key
	if entry, ok := s.entries[mapKey]; ok && entry.requestHash != requestHash {
		return ErrIdempotencyConflict
	}
	s.entries[mapKey] = idempotencyEntry{requestHash: requestHash, response: response}
	return nil
}
