package prompt

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store. It keeps insertion order.
type MemStore struct {
	mu      sync.RWMutex
	order   []string
	prompts map[string]Prompt
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{prompts: make(map[string]Prompt)}
}

func (m *MemStore) Create(_ context.Context, p Prompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.prompts[p.ID]; !exists {
		m.order = append(m.order, p.ID)
	}
	m.prompts[p.ID] = clonePrompt(p)
	return nil
}

func (m *MemStore) Get(_ context.Context, id string) (Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.prompts[id]
	if !ok {
		return Prompt{}, ErrNotFound
	}
	return clonePrompt(p), nil
}

func (m *MemStore) List(_ context.Context, opts ListOptions) ([]Prompt, error) {
	return Filter(m.all(), opts), nil
}

func (m *MemStore) Update(_ context.Context, p Prompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.prompts[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = cur.CreatedAt
	m.prompts[p.ID] = clonePrompt(p)
	return nil
}

func (m *MemStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.prompts[id]; !ok {
		return ErrNotFound
	}
	delete(m.prompts, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemStore) Tags(_ context.Context) ([]string, error) {
	return DistinctTags(m.all()), nil
}

func (m *MemStore) all() []Prompt {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Prompt, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, clonePrompt(m.prompts[id]))
	}
	return out
}

func clonePrompt(p Prompt) Prompt {
	p.Tags = append([]string(nil), p.Tags...)
	return p
}
