// Package handler serves the situation operations over HTTP.
package handler

import (
	"context"
	"log"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/engine"
	"billing-engine/internal/model"
)

type Handler struct {
	svc *engine.Service
}

func New(svc *engine.Service) *Handler {
	return &Handler{svc: svc}
}

// Handle routes:
//
//	GET    /health
//	GET    /projects/{pid}/situations
//	POST   /projects/{pid}/situations
//	GET    /projects/{pid}/situations/{id}
//	DELETE /projects/{pid}/situations/{id}
//	PUT    /projects/{pid}/situations/{id}/lines/{ligneId}
//	POST   /projects/{pid}/situations/{id}/mutations
//	POST   /projects/{pid}/situations/{id}/{save|validate|invoice|paid}
//	GET    /projects/{pid}/situations/{id}/totals
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	parts := strings.Split(strings.Trim(string(ctx.Path()), "/"), "/")
	method := string(ctx.Method())

	if len(parts) == 1 && parts[0] == "health" {
		if method != fasthttp.MethodGet {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		return
	}

	if len(parts) < 3 || parts[0] != "projects" || parts[1] == "" || parts[2] != "situations" {
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
		return
	}
	projectID := parts[1]

	switch len(parts) {
	case 3:
		h.collection(ctx, method, projectID)
	case 4:
		h.item(ctx, method, projectID, parts[3])
	case 5:
		h.action(ctx, method, projectID, parts[3], parts[4])
	case 6:
		if parts[4] != "lines" {
			writeError(ctx, fasthttp.StatusNotFound, "Not found")
			return
		}
		if method != fasthttp.MethodPut {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.updateLine(ctx, projectID, parts[3], parts[5])
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) collection(ctx *fasthttp.RequestCtx, method, projectID string) {
	switch method {
	case fasthttp.MethodGet:
		list, err := h.svc.ListSituations(ctx, projectID)
		if err != nil {
			writeAppError(ctx, err)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, list)
	case fasthttp.MethodPost:
		view, err := h.svc.CreateDraft(ctx, projectID)
		if err != nil {
			writeAppError(ctx, err)
			return
		}
		writeJSON(ctx, fasthttp.StatusCreated, view)
	default:
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) item(ctx *fasthttp.RequestCtx, method, projectID, id string) {
	switch method {
	case fasthttp.MethodGet:
		view, err := h.svc.GetSituation(ctx, projectID, id)
		if err != nil {
			writeAppError(ctx, err)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, view)
	case fasthttp.MethodDelete:
		if err := h.svc.DeleteDraft(ctx, projectID, id); err != nil {
			writeAppError(ctx, err)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	default:
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
	}
}

type transitionFunc func(ctx context.Context, projectID, id string) (model.SituationView, error)

func (h *Handler) action(ctx *fasthttp.RequestCtx, method, projectID, id, name string) {
	if name == "totals" {
		if method != fasthttp.MethodGet {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		totals, err := h.svc.DraftTotals(ctx, projectID, id)
		if err != nil {
			writeAppError(ctx, err)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, totals)
		return
	}

	var run transitionFunc
	switch name {
	case "mutations":
		if method != fasthttp.MethodPost {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.mutations(ctx, projectID, id)
		return
	case "save":
		run = h.svc.SaveDraft
	case "validate":
		run = h.svc.Validate
	case "invoice":
		run = h.svc.GenerateInvoice
	case "paid":
		run = h.svc.MarkPaid
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
		return
	}
	if method != fasthttp.MethodPost {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	view, err := run(ctx, projectID, id)
	if err != nil {
		writeAppError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, view)
}

func (h *Handler) mutations(ctx *fasthttp.RequestCtx, projectID, id string) {
	var req model.EditRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Mutations) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "At least one mutation is required")
		return
	}
	writeEdit(ctx, func() (*model.EditResult, error) {
		return h.svc.Edit(ctx, projectID, id, req.Mutations)
	})
}

func (h *Handler) updateLine(ctx *fasthttp.RequestCtx, projectID, id, ligneID string) {
	var req model.LinePercentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Percent == nil {
		writeError(ctx, fasthttp.StatusBadRequest, "percent is required")
		return
	}
	writeEdit(ctx, func() (*model.EditResult, error) {
		return h.svc.UpdateDraftLine(ctx, projectID, id, ligneID, *req.Percent)
	})
}

// writeEdit returns the processed batch even when it failed, with the
// status of its blocking message.
func writeEdit(ctx *fasthttp.RequestCtx, run func() (*model.EditResult, error)) {
	res, err := run()
	if err != nil {
		if res == nil {
			writeAppError(ctx, err)
			return
		}
		writeJSON(ctx, statusFor(err), res)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, res)
}

func statusFor(err error) int {
	switch apperrors.KindFromError(err) {
	case apperrors.KindNotFound:
		return fasthttp.StatusNotFound
	case apperrors.KindIllegalState, apperrors.KindConflict:
		return fasthttp.StatusConflict
	case apperrors.KindValidation:
		return fasthttp.StatusUnprocessableEntity
	case apperrors.KindInvalidInput:
		return fasthttp.StatusBadRequest
	default:
		return fasthttp.StatusInternalServerError
	}
}

func writeAppError(ctx *fasthttp.RequestCtx, err error) {
	status := statusFor(err)
	if status == fasthttp.StatusInternalServerError {
		log.Printf("%s %s: %v", ctx.Method(), ctx.Path(), err)
		writeError(ctx, status, "Internal server error")
		return
	}
	code, _ := apperrors.CodeFromError(err)
	writeJSON(ctx, status, model.ErrorResponse{
		Status:  status,
		Code:    string(code),
		Message: err.Error(),
	})
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, model.ErrorResponse{
		Status:  status,
		Message: message,
	})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode response: %v", err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
