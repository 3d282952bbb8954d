// Package store defines how situation chains are loaded and saved.
//
// A Repository is a dumb store of one ordered array per project. It never
// checks cross-situation rules such as monotonic percentages; the builder
// and the service do that before saving.
package store

import (
	"context"
	"fmt"
	"sort"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/model"
)

// Repository persists the situations of a project as a whole.
type Repository interface {
	Load(ctx context.Context, projectID string) ([]model.Situation, error)
	Save(ctx context.Context, projectID string, situations []model.Situation) error
}

// List returns a copy ordered by number, most recent first.
func List(situations []model.Situation) []model.Situation {
	out := make([]model.Situation, len(situations))
	copy(out, situations)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Numero > out[j].Numero })
	return out
}

// Find returns the situation with the given id.
func Find(situations []model.Situation, id string) (model.Situation, error) {
	for _, s := range situations {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Situation{}, apperrors.WithMetadata(
		apperrors.CodeSituationNotFound,
		fmt.Sprintf("situation %s not found", id),
		map[string]string{"SituationID": id},
	)
}

// Upsert replaces the situation with the same id or appends it.
func Upsert(situations []model.Situation, s model.Situation) []model.Situation {
	out := make([]model.Situation, 0, len(situations)+1)
	replaced := false
	for _, existing := range situations {
		if existing.ID == s.ID {
			out = append(out, s)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, s)
	}
	return out
}

// Delete removes a situation from the chain. Whether it may be removed is
// decided by the lifecycle before calling it.
func Delete(situations []model.Situation, id string) ([]model.Situation, error) {
	if _, err := Find(situations, id); err != nil {
		return nil, err
	}
	out := make([]model.Situation, 0, len(situations)-1)
	for _, s := range situations {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out, nil
}
