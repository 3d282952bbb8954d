package model

import json "github.com/goccy/go-json"

// EditResult reports a processed mutation batch.
type EditResult struct {
	Outcome   string               `json:"outcome"`
	Messages  []CalculationMessage `json:"messages"`
	Mutations []ProcessedMutation  `json:"mutations"`
	Situation Situation            `json:"situation"`
	Totals    Totals               `json:"totaux"`
}

type ProcessedMutation struct {
	Mutation                  Mutation        `json:"mutation"`
	CalculationMessageIndexes []int           `json:"calculation_message_indexes,omitempty"`
	ForwardPatch              json.RawMessage `json:"forward_patch,omitempty"`
	BackwardPatch             json.RawMessage `json:"backward_patch,omitempty"`
}

// SituationView is a situation with its computed amounts.
type SituationView struct {
	Situation Situation            `json:"situation"`
	Montants  []LineAmounts        `json:"montants"`
	Totaux    Totals               `json:"totaux"`
	Messages  []CalculationMessage `json:"messages,omitempty"`
}

type ErrorResponse struct {
	Status   int                  `json:"status"`
	Code     string               `json:"code,omitempty"`
	Message  string               `json:"message"`
	Messages []CalculationMessage `json:"messages,omitempty"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
