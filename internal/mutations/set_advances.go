package mutations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/model"
)

type setAdvancesProps struct {
	Amount *decimal.Decimal `json:"amount"`
}

// SetAdvancesHandler records the advance payments deducted from this
// period. Negative amounts are kept but flagged.
type SetAdvancesHandler struct{}

func (h *SetAdvancesHandler) Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	if msgs := requireDraft(state); msgs != nil {
		return msgs
	}
	var props setAdvancesProps
	if msgs := decodeProps(mutation, &props); msgs != nil {
		return msgs
	}
	if props.Amount == nil {
		return []model.CalculationMessage{model.Critical(string(apperrors.CodeInvalidMutationFields), "amount is required")}
	}
	if props.Amount.IsNegative() {
		return []model.CalculationMessage{model.Warning(
			model.WarnNegativeAdvances,
			fmt.Sprintf("advances deducted are negative (%s)", props.Amount),
		)}
	}
	return nil
}

func (h *SetAdvancesHandler) Apply(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	var props setAdvancesProps
	decodeProps(mutation, &props)
	state.AcomptesDeduits = *props.Amount
	return nil
}
