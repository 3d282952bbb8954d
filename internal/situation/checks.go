package situation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/model"
)

// CheckValidation evaluates the content preconditions of validate. Lines
// below their previous cumulative or outside [0, 100] are CRITICAL; a
// situation where nothing moved only gets a WARNING.
func CheckValidation(s model.Situation) []model.CalculationMessage {
	var msgs []model.CalculationMessage
	moved := false

	for _, l := range s.Lignes {
		if l.CumulActuel.LessThan(minPercent) || l.CumulActuel.GreaterThan(maxPercent) {
			msgs = append(msgs, model.Critical(
				string(apperrors.CodeCumulOutOfRange),
				fmt.Sprintf("line %s: cumulative %s%% is outside [0, 100]", l.Key(), l.CumulActuel),
			))
			continue
		}
		if l.CumulActuel.LessThan(l.CumulPrecedent) {
			msgs = append(msgs, model.Critical(
				string(apperrors.CodeCumulRegression),
				fmt.Sprintf("line %s: cumulative %s%% is below previous %s%%", l.Key(), l.CumulActuel, l.CumulPrecedent),
			))
			continue
		}
		if !l.CumulActuel.Equal(l.CumulPrecedent) {
			moved = true
		}
	}

	if !moved && !model.HasCritical(msgs) {
		msgs = append(msgs, model.Warning(model.WarnNoProgress, fmt.Sprintf("situation %d bills no progress since the previous situation", s.Numero)))
	}
	return msgs
}

// CheckMonotonic verifies that, across non-draft situations ordered by
// number, no line's cumulative percentage decreases. Lines are matched by
// key and only against earlier situations.
func CheckMonotonic(chain []model.Situation) error {
	finalized := make([]model.Situation, 0, len(chain))
	for _, s := range chain {
		if s.Statut != model.StatusDraft {
			finalized = append(finalized, s)
		}
	}
	sort.Slice(finalized, func(i, j int) bool { return finalized[i].Numero < finalized[j].Numero })

	type reached struct {
		cumul  decimal.Decimal
		numero int
	}
	last := make(map[string]reached)
	for _, s := range finalized {
		for _, l := range s.Lignes {
			if prev, ok := last[l.Key()]; ok && l.CumulActuel.LessThan(prev.cumul) {
				return apperrors.WithMetadata(
					apperrors.CodeCumulRegression,
					fmt.Sprintf("line %s drops from %s%% in situation %d to %s%% in situation %d",
						l.Key(), prev.cumul, prev.numero, l.CumulActuel, s.Numero),
					map[string]string{"LineKey": l.Key()},
				)
			}
		}
		for _, l := range s.Lignes {
			last[l.Key()] = reached{cumul: l.CumulActuel, numero: s.Numero}
		}
	}
	return nil
}
