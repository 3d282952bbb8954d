// Package tools exposes the situation operations as MCP tools.
package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"billing-engine/internal/engine"
)

// NewServer creates an MCP server with every situation tool registered.
func NewServer(svc *engine.Service) *mcp.Server {
	st := &SituationTools{Service: svc}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "billing-engine",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_situations",
		Description: "List the progress billing situations of a project, most recent first",
	}, st.ListSituations)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_situation",
		Description: "Get a situation with its per-line amounts and totals",
	}, st.GetSituation)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_draft",
		Description: "Create a draft situation from the project's accepted contracts, seeded from the latest validated situation",
	}, st.CreateDraft)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "update_draft_line",
		Description: "Set the cumulative completion percentage (0-100) of one line of a draft",
	}, st.UpdateDraftLine)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "edit_draft",
		Description: "Apply an ordered batch of edits to a draft: update_line, complete_line, set_retention, set_advances, set_date",
	}, st.EditDraft)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "save_draft",
		Description: "Persist a draft without changing its status",
	}, st.SaveDraft)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "validate_situation",
		Description: "Freeze a draft; it becomes the baseline of the next situation (irreversible)",
	}, st.Validate)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "generate_invoice",
		Description: "Mark a validated situation as invoiced",
	}, st.GenerateInvoice)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "mark_paid",
		Description: "Mark an invoiced situation as paid",
	}, st.MarkPaid)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_draft",
		Description: "Delete a draft situation; validated situations cannot be deleted",
	}, st.DeleteDraft)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "draft_totals",
		Description: "Compute the period amounts, retention and net to pay of a situation",
	}, st.DraftTotals)

	return srv
}
