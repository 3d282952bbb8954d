package store

import (
	"context"
	"sync"

	"billing-engine/internal/model"
)

var _ Repository = (*Memory)(nil)

// Memory keeps chains in process memory. Values are copied on the way in
// and out so callers never share line slices with the store.
type Memory struct {
	mu     sync.RWMutex
	chains map[string][]model.Situation
}

func NewMemory() *Memory {
	return &Memory{chains: make(map[string][]model.Situation)}
}

func (m *Memory) Load(ctx context.Context, projectID string) ([]model.Situation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.chains[projectID]), nil
}

func (m *Memory) Save(ctx context.Context, projectID string, situations []model.Situation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chains[projectID] = cloneAll(situations)
	return nil
}

func cloneAll(in []model.Situation) []model.Situation {
	out := make([]model.Situation, 0, len(in))
	for _, s := range in {
		out = append(out, s.Clone())
	}
	return out
}
