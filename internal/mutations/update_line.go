package mutations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/model"
	"billing-engine/internal/situation"
)

type updateLineProps struct {
	LigneID string           `json:"ligneId"`
	Percent *decimal.Decimal `json:"percent"`
}

// UpdateLineHandler sets a line's current cumulative percentage.
type UpdateLineHandler struct{}

func (h *UpdateLineHandler) Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	if msgs := requireDraft(state); msgs != nil {
		return msgs
	}
	var props updateLineProps
	if msgs := decodeProps(mutation, &props); msgs != nil {
		return msgs
	}
	if props.Percent == nil {
		return []model.CalculationMessage{model.Critical(string(apperrors.CodeInvalidMutationFields), "percent is required")}
	}
	return requireLine(state, props.LigneID)
}

func (h *UpdateLineHandler) Apply(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	var props updateLineProps
	decodeProps(mutation, &props)
	return setPercent(state, props.LigneID, *props.Percent)
}

// setPercent clamps, stores, and warns about values the validation step
// will later refuse.
func setPercent(state *model.Situation, ligneID string, percent decimal.Decimal) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	clamped, moved := situation.ClampPercent(percent)
	if moved {
		msgs = append(msgs, model.Warning(
			model.WarnPercentClamped,
			fmt.Sprintf("line %s: %s%% clamped to %s%%", ligneID, percent, clamped),
		))
	}

	updated, err := situation.SetLinePercent(*state, ligneID, clamped)
	if err != nil {
		code, _ := apperrors.CodeFromError(err)
		return append(msgs, model.Critical(string(code), err.Error()))
	}
	*state = updated

	line := state.Lignes[state.LineIndex(ligneID)]
	if line.CumulActuel.LessThan(line.CumulPrecedent) {
		msgs = append(msgs, model.Warning(
			model.WarnCumulBelowPrevious,
			fmt.Sprintf("line %s: %s%% is below the previous cumulative %s%%; validation will be refused", ligneID, line.CumulActuel, line.CumulPrecedent),
		))
	}
	return msgs
}
