package statestore

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formdemo/pkg/model"
)

type memoryEntry struct {
	state     model.FormState
	expiresAt time.Time
}

// Memory is a mutex guarded map store. Expired entries are dropped lazily on
// access and on every Put.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
	closed  bool
}

// NewMemory returns an empty in-memory store.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Put(ctx context.Context, key Key, state model.FormState, ttl time.Duration) error {
	if err := key.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = m.ttl
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	now := m.now()
	m.sweepLocked(now)
	m.entries[key.String()] = memoryEntry{
		state:     cloneState(state),
		expiresAt: now.Add(ttl),
	}
	return nil
}

func (m *Memory) Take(ctx context.Context, key Key) (model.FormState, bool, error) {
	if err := key.validate(); err != nil {
		return model.FormState{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return model.FormState{}, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return model.FormState{}, false, ErrClosed
	}

	id := key.String()
	entry, ok := m.entries[id]
	if !ok {
		return model.FormState{}, false, nil
	}
	delete(m.entries, id)
	if !m.now().Before(entry.expiresAt) {
		return model.FormState{}, false, nil
	}
	return entry.state, true, nil
}

// Len reports the number of entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries = nil
	return nil
}

func (m *Memory) sweepLocked(now time.Time) {
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
}

func cloneState(state model.FormState) model.FormState {
	out := model.FormState{
		Values: state.Values.Clone(),
		Errors: append([]string(nil), state.Errors...),
	}
	if state.FieldMeta != nil {
		out.FieldMeta = make(map[string]model.FieldMeta, len(state.FieldMeta))
		for name, meta := range state.FieldMeta {
			meta.Errors = append([]string(nil), meta.Errors...)
			out.FieldMeta[name] = meta
		}
	}
	return out
}
