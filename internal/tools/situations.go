package tools

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/engine"
	"billing-engine/internal/model"
)

// SituationTools holds the service the tool handlers call.
type SituationTools struct {
	Service *engine.Service
}

// --- Input types ---

type ProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project identifier"`
}

type SituationInput struct {
	ProjectID   string `json:"project_id" jsonschema:"Project identifier"`
	SituationID string `json:"situation_id" jsonschema:"Situation identifier"`
}

type UpdateDraftLineInput struct {
	ProjectID   string  `json:"project_id" jsonschema:"Project identifier"`
	SituationID string  `json:"situation_id" jsonschema:"Draft situation identifier"`
	LigneID     string  `json:"ligne_id" jsonschema:"Contract line identifier"`
	Percent     string `json:"percent" jsonschema:"Cumulative completion percentage as a decimal string, e.g. 37.5; clamped to 0-100"`
}

type EditInput struct {
	Name       string         `json:"name" jsonschema:"Edit name: update_line, complete_line, set_retention, set_advances or set_date"`
	Properties map[string]any `json:"properties,omitempty" jsonschema:"Edit properties, e.g. {\"ligneId\": \"l1\", \"percent\": 40}"`
}

type EditDraftInput struct {
	ProjectID   string      `json:"project_id" jsonschema:"Project identifier"`
	SituationID string      `json:"situation_id" jsonschema:"Draft situation identifier"`
	Edits       []EditInput `json:"edits" jsonschema:"Edits applied in order; the first blocking error discards the whole batch"`
}

// --- Handlers ---

func (t *SituationTools) ListSituations(ctx context.Context, _ *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, any, error) {
	if input.ProjectID == "" {
		return toolError("project_id is required"), nil, nil
	}
	list, err := t.Service.ListSituations(ctx, input.ProjectID)
	if err != nil {
		return toolAppError("Failed to list situations", err), nil, nil
	}
	return toolJSON(list)
}

func (t *SituationTools) GetSituation(ctx context.Context, _ *mcp.CallToolRequest, input SituationInput) (*mcp.CallToolResult, any, error) {
	if msg := input.missing(); msg != "" {
		return toolError("%s", msg), nil, nil
	}
	view, err := t.Service.GetSituation(ctx, input.ProjectID, input.SituationID)
	if err != nil {
		return toolAppError("Failed to get situation", err), nil, nil
	}
	return toolJSON(view)
}

func (t *SituationTools) CreateDraft(ctx context.Context, _ *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, any, error) {
	if input.ProjectID == "" {
		return toolError("project_id is required"), nil, nil
	}
	view, err := t.Service.CreateDraft(ctx, input.ProjectID)
	if err != nil {
		return toolAppError("Failed to create draft", err), nil, nil
	}
	return toolJSON(view)
}

func (t *SituationTools) UpdateDraftLine(ctx context.Context, _ *mcp.CallToolRequest, input UpdateDraftLineInput) (*mcp.CallToolResult, any, error) {
	if input.ProjectID == "" || input.SituationID == "" || input.LigneID == "" {
		return toolError("project_id, situation_id and ligne_id are required"), nil, nil
	}
	percent, err := decimal.NewFromString(input.Percent)
	if err != nil {
		return toolError("percent %q is not a decimal number", input.Percent), nil, nil
	}
	res, err := t.Service.UpdateDraftLine(ctx, input.ProjectID, input.SituationID, input.LigneID, percent)
	if err != nil {
		return toolEditError(res, err), nil, nil
	}
	return toolJSON(res)
}

func (t *SituationTools) EditDraft(ctx context.Context, _ *mcp.CallToolRequest, input EditDraftInput) (*mcp.CallToolResult, any, error) {
	if input.ProjectID == "" || input.SituationID == "" {
		return toolError("project_id and situation_id are required"), nil, nil
	}
	if len(input.Edits) == 0 {
		return toolError("At least one edit is required"), nil, nil
	}

	batch := make([]model.Mutation, 0, len(input.Edits))
	for i, e := range input.Edits {
		props, err := json.Marshal(e.Properties)
		if err != nil {
			return toolError("Invalid properties for edit %d: %v", i, err), nil, nil
		}
		batch = append(batch, model.Mutation{
			MutationID:             fmt.Sprintf("%d", i),
			MutationDefinitionName: e.Name,
			MutationProperties:     props,
		})
	}

	res, err := t.Service.Edit(ctx, input.ProjectID, input.SituationID, batch)
	if err != nil {
		return toolEditError(res, err), nil, nil
	}
	return toolJSON(res)
}

func (t *SituationTools) SaveDraft(ctx context.Context, _ *mcp.CallToolRequest, input SituationInput) (*mcp.CallToolResult, any, error) {
	return t.transition(ctx, input, "save draft", t.Service.SaveDraft)
}

func (t *SituationTools) Validate(ctx context.Context, _ *mcp.CallToolRequest, input SituationInput) (*mcp.CallToolResult, any, error) {
	return t.transition(ctx, input, "validate situation", t.Service.Validate)
}

func (t *SituationTools) GenerateInvoice(ctx context.Context, _ *mcp.CallToolRequest, input SituationInput) (*mcp.CallToolResult, any, error) {
	return t.transition(ctx, input, "generate invoice", t.Service.GenerateInvoice)
}

func (t *SituationTools) MarkPaid(ctx context.Context, _ *mcp.CallToolRequest, input SituationInput) (*mcp.CallToolResult, any, error) {
	return t.transition(ctx, input, "mark situation paid", t.Service.MarkPaid)
}

func (t *SituationTools) transition(ctx context.Context, input SituationInput, action string, run func(context.Context, string, string) (model.SituationView, error)) (*mcp.CallToolResult, any, error) {
	if msg := input.missing(); msg != "" {
		return toolError("%s", msg), nil, nil
	}
	view, err := run(ctx, input.ProjectID, input.SituationID)
	if err != nil {
		return toolAppError("Failed to "+action, err), nil, nil
	}
	return toolJSON(view)
}

func (t *SituationTools) DeleteDraft(ctx context.Context, _ *mcp.CallToolRequest, input SituationInput) (*mcp.CallToolResult, any, error) {
	if msg := input.missing(); msg != "" {
		return toolError("%s", msg), nil, nil
	}
	if err := t.Service.DeleteDraft(ctx, input.ProjectID, input.SituationID); err != nil {
		return toolAppError("Failed to delete draft", err), nil, nil
	}
	return toolText(fmt.Sprintf("Draft %s deleted", input.SituationID)), nil, nil
}

func (t *SituationTools) DraftTotals(ctx context.Context, _ *mcp.CallToolRequest, input SituationInput) (*mcp.CallToolResult, any, error) {
	if msg := input.missing(); msg != "" {
		return toolError("%s", msg), nil, nil
	}
	totals, err := t.Service.DraftTotals(ctx, input.ProjectID, input.SituationID)
	if err != nil {
		return toolAppError("Failed to compute totals", err), nil, nil
	}
	return toolJSON(totals)
}

func (in SituationInput) missing() string {
	if in.ProjectID == "" || in.SituationID == "" {
		return "project_id and situation_id are required"
	}
	return ""
}

// --- Results ---

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// toolAppError prefixes the domain code so callers can branch on it.
func toolAppError(prefix string, err error) *mcp.CallToolResult {
	if code, ok := apperrors.CodeFromError(err); ok {
		return toolError("%s: [%s] %v", prefix, code, err)
	}
	return toolError("%s: %v", prefix, err)
}

// toolEditError reports a rejected batch with its messages.
func toolEditError(res *model.EditResult, err error) *mcp.CallToolResult {
	if res == nil {
		return toolAppError("Failed to edit draft", err)
	}
	data, mErr := json.MarshalIndent(res, "", "  ")
	if mErr != nil {
		return toolAppError("Failed to edit draft", err)
	}
	out := toolAppError("Failed to edit draft", err)
	out.Content = append(out.Content, &mcp.TextContent{Text: string(data)})
	return out
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
