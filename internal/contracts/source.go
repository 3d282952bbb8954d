package contracts

import (
	"context"
	"fmt"
	"os"
	"sync"

	json "github.com/goccy/go-json"

	"billing-engine/internal/model"
)

// MemorySource keeps contracts per project in memory.
type MemorySource struct {
	mu        sync.RWMutex
	contracts map[string][]model.Contract
}

func NewMemorySource() *MemorySource {
	return &MemorySource{contracts: make(map[string][]model.Contract)}
}

func (m *MemorySource) Set(projectID string, contracts []model.Contract) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts[projectID] = contracts
}

func (m *MemorySource) Contracts(ctx context.Context, projectID string) ([]model.Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contracts[projectID], nil
}

// FileSource reads a JSON object mapping project ids to contracts. The file
// is re-read on every call so edits show up in the next draft.
type FileSource struct {
	Path string
}

func (f FileSource) Contracts(ctx context.Context, projectID string) ([]model.Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read contracts file: %w", err)
	}
	var byProject map[string][]model.Contract
	if err := json.Unmarshal(data, &byProject); err != nil {
		return nil, fmt.Errorf("decode contracts file %s: %w", f.Path, err)
	}
	return byProject[projectID], nil
}
