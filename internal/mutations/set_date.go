package mutations

import (
	"fmt"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/model"
	"billing-engine/internal/situation"
)

type setDateProps struct {
	Date string `json:"date"`
}

// SetDateHandler changes the situation date (YYYY-MM-DD).
type SetDateHandler struct{}

func (h *SetDateHandler) Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	if msgs := requireDraft(state); msgs != nil {
		return msgs
	}
	var props setDateProps
	if msgs := decodeProps(mutation, &props); msgs != nil {
		return msgs
	}
	if !situation.ValidDate(props.Date) {
		return []model.CalculationMessage{model.Critical(
			string(apperrors.CodeInvalidDate),
			fmt.Sprintf("date %q is not a valid YYYY-MM-DD date", props.Date),
		)}
	}
	return nil
}

func (h *SetDateHandler) Apply(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	var props setDateProps
	decodeProps(mutation, &props)
	state.Date = props.Date
	return nil
}
