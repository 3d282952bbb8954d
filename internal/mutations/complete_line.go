package mutations

import (
	"github.com/shopspring/decimal"

	"billing-engine/internal/model"
)

type completeLineProps struct {
	LigneID string `json:"ligneId"`
}

// CompleteLineHandler marks a line as fully done.
type CompleteLineHandler struct{}

func (h *CompleteLineHandler) Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	if msgs := requireDraft(state); msgs != nil {
		return msgs
	}
	var props completeLineProps
	if msgs := decodeProps(mutation, &props); msgs != nil {
		return msgs
	}
	return requireLine(state, props.LigneID)
}

func (h *CompleteLineHandler) Apply(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	var props completeLineProps
	decodeProps(mutation, &props)
	return setPercent(state, props.LigneID, decimal.NewFromInt(100))
}
