package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrMalformedState reports persisted view state that cannot be decoded.
var ErrMalformedState = errors.New("listing: malformed view state")

// ViewStateStore persists one Query per key. Get reports ok=false when nothing is
// stored under key.
type ViewStateStore interface {
	Get(ctx context.Context, key string) (Query, bool, error)
	Set(ctx context.Context, key string, q Query) error
	Delete(ctx context.Context, key string) error
}

// StateKey scopes a page's state to one manager or browser session.
func StateKey(scope, page string) string {
	if scope == "" {
		scope = "anonymous"
	}
	return scope + ":" + page
}

// EncodeState serialises q as JSON.
func EncodeState(q Query) ([]byte, error) {
	return json.Marshal(q.Clone())
}

// DecodeState parses a JSON query, wrapping failures in ErrMalformedState.
func DecodeState(data []byte) (Query, error) {
	var q Query
	if err := json.Unmarshal(data, &q); err != nil {
		return Query{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return q, nil
}

// MemoryStore keeps view state in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get implements ViewStateStore.
func (m *MemoryStore) Get(_ context.Context, key string) (Query, bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return Query{}, false, nil
	}
	q, err := DecodeState(raw)
	if err != nil {
		return Query{}, false, err
	}
	return q, true, nil
}

// Set implements ViewStateStore.
func (m *MemoryStore) Set(_ context.Context, key string, q Query) error {
	raw, err := EncodeState(q)
	if err != nil {
		return err
	}
	m.SetRaw(key, raw)
	return nil
}

// SetRaw stores an already encoded payload.
func (m *MemoryStore) SetRaw(key string, raw []byte) {
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
}

// Delete implements ViewStateStore.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

var _ ViewStateStore = (*MemoryStore)(nil)
