package mutations

import "billing-engine/internal/model"

// MutationHandler defines the contract for every draft edit.
// Validate inspects the draft without changing it; Apply runs only when
// Validate reported no CRITICAL message.
type MutationHandler interface {
	Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage
	Apply(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage
}
