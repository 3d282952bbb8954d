package model

import (
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// EditRequest is an ordered batch of draft edits.
type EditRequest struct {
	Mutations []Mutation `json:"mutations"`
}

type Mutation struct {
	MutationID             string          `json:"mutation_id"`
	MutationDefinitionName string          `json:"mutation_definition_name"`
	MutationProperties     json.RawMessage `json:"mutation_properties"`
}

type LinePercentRequest struct {
	Percent *decimal.Decimal `json:"percent"`
}
