package engine

import (
	"fmt"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/billing"
	"billing-engine/internal/jsonpatch"
	"billing-engine/internal/model"
	"billing-engine/internal/mutations"
)

// Process applies an ordered batch of edits to a copy of the draft. The
// first CRITICAL message stops the batch; on failure the returned situation
// is the untouched input. WARNING messages never stop processing.
func Process(initial model.Situation, batch []model.Mutation, calc billing.Calculator) *model.EditResult {
	state := initial.Clone()

	var allMessages []model.CalculationMessage
	var processedMutations []model.ProcessedMutation
	outcome := model.OutcomeSuccess

	record := func(msgs []model.CalculationMessage, indexes []int) ([]int, bool) {
		critical := false
		for _, m := range msgs {
			m.ID = len(allMessages)
			allMessages = append(allMessages, m)
			indexes = append(indexes, m.ID)
			if m.Level == model.LevelCritical {
				critical = true
			}
		}
		return indexes, critical
	}

	for i := range batch {
		mut := batch[i]
		handler, ok := mutations.Get(mut.MutationDefinitionName)
		if !ok {
			indexes, _ := record([]model.CalculationMessage{model.Critical(
				string(apperrors.CodeUnknownMutation),
				fmt.Sprintf("Unknown mutation: %s", mut.MutationDefinitionName),
			)}, nil)
			processedMutations = append(processedMutations, model.ProcessedMutation{
				Mutation:                  mut,
				CalculationMessageIndexes: indexes,
			})
			outcome = model.OutcomeFailure
			break
		}

		indexes, critical := record(handler.Validate(&state, &mut), nil)
		if critical {
			processedMutations = append(processedMutations, model.ProcessedMutation{
				Mutation:                  mut,
				CalculationMessageIndexes: indexes,
			})
			outcome = model.OutcomeFailure
			break
		}

		before := state.Clone()
		indexes, critical = record(handler.Apply(&state, &mut), indexes)

		pm := model.ProcessedMutation{
			Mutation:                  mut,
			CalculationMessageIndexes: indexes,
		}
		if fwd, bwd, err := jsonpatch.Between(before, state); err == nil {
			pm.ForwardPatch = jsonpatch.Marshal(fwd)
			pm.BackwardPatch = jsonpatch.Marshal(bwd)
		}
		processedMutations = append(processedMutations, pm)

		if critical {
			outcome = model.OutcomeFailure
			break
		}
	}

	end := state
	if outcome == model.OutcomeFailure {
		end = initial.Clone()
	}
	if allMessages == nil {
		allMessages = []model.CalculationMessage{}
	}

	return &model.EditResult{
		Outcome:   outcome,
		Messages:  allMessages,
		Mutations: processedMutations,
		Situation: end,
		Totals:    calc.Summarize(end),
	}
}
