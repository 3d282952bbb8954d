package mutations

import (
	"billing-engine/internal/apperrors"
	"billing-engine/internal/model"
)

type setRetentionProps struct {
	Enabled *bool `json:"enabled"`
}

// SetRetentionHandler toggles the retention holdback on the draft.
type SetRetentionHandler struct{}

func (h *SetRetentionHandler) Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	if msgs := requireDraft(state); msgs != nil {
		return msgs
	}
	var props setRetentionProps
	if msgs := decodeProps(mutation, &props); msgs != nil {
		return msgs
	}
	if props.Enabled == nil {
		return []model.CalculationMessage{model.Critical(string(apperrors.CodeInvalidMutationFields), "enabled is required")}
	}
	return nil
}

func (h *SetRetentionHandler) Apply(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	var props setRetentionProps
	decodeProps(mutation, &props)
	state.RetenueGarantie = *props.Enabled
	return nil
}
