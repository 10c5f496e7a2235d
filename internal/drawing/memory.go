package drawing

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps drawings in process memory. It is used by tests and by
// the server when no persistent backend is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	drawings []Drawing
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: func() time.Time { return time.Now().UTC() }}
}

func (m *MemoryStore) Create(ctx context.Context, in Input) (Drawing, error) {
	if err := in.Validate(); err != nil {
		return Drawing{}, err
	}
	if err := ctx.Err(); err != nil {
		return Drawing{}, err
	}

	d := newRecord(in, m.now())
	m.mu.Lock()
	m.drawings = append(m.drawings, d)
	m.mu.Unlock()
	return d, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Drawing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Drawing, len(m.drawings))
	copy(out, m.drawings)
	return out, nil
}

func (m *MemoryStore) Close(context.Context) error { return nil }
