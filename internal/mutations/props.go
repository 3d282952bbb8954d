package mutations

import (
	"fmt"

	json "github.com/goccy/go-json"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/model"
	"billing-engine/internal/situation"
)

// requireDraft is the common first check of every edit.
func requireDraft(state *model.Situation) []model.CalculationMessage {
	if err := situation.RequireDraft(*state); err != nil {
		return []model.CalculationMessage{model.Critical(string(apperrors.CodeSituationNotDraft), err.Error())}
	}
	return nil
}

func decodeProps(mutation *model.Mutation, target any) []model.CalculationMessage {
	if len(mutation.MutationProperties) == 0 {
		return []model.CalculationMessage{model.Critical(
			string(apperrors.CodeInvalidMutationFields),
			fmt.Sprintf("%s: mutation_properties is required", mutation.MutationDefinitionName),
		)}
	}
	if err := json.Unmarshal(mutation.MutationProperties, target); err != nil {
		return []model.CalculationMessage{model.Critical(
			string(apperrors.CodeInvalidMutationFields),
			fmt.Sprintf("%s: invalid mutation_properties: %v", mutation.MutationDefinitionName, err),
		)}
	}
	return nil
}

func requireLine(state *model.Situation, ligneID string) []model.CalculationMessage {
	if ligneID == "" {
		return []model.CalculationMessage{model.Critical(string(apperrors.CodeInvalidMutationFields), "ligneId is required")}
	}
	if state.AmbiguousLine(ligneID) {
		return []model.CalculationMessage{model.Critical(
			string(apperrors.CodeLineAmbiguous),
			fmt.Sprintf("line %s appears in several contracts; address it as <contract>:%s", ligneID, ligneID),
		)}
	}
	if state.LineIndex(ligneID) < 0 {
		return []model.CalculationMessage{model.Critical(
			string(apperrors.CodeLineNotFound),
			fmt.Sprintf("line %s not found in situation %d", ligneID, state.Numero),
		)}
	}
	return nil
}
