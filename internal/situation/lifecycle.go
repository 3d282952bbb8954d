package situation

import (
	"fmt"
	"time"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/model"
)

// Event is a lifecycle operation on a situation.
type Event int

const (
	EventSaveDraft Event = iota + 1
	EventValidate
	EventGenerateInvoice
	EventMarkPaid
	EventDelete
)

type transition struct {
	from model.Status
	to   model.Status
}

// transitions is the only place legal status changes are declared. Delete
// has no target status: the record leaves the repository.
var transitions = map[Event]transition{
	EventSaveDraft:       {from: model.StatusDraft, to: model.StatusDraft},
	EventValidate:        {from: model.StatusDraft, to: model.StatusValidated},
	EventGenerateInvoice: {from: model.StatusValidated, to: model.StatusInvoiced},
	EventMarkPaid:        {from: model.StatusInvoiced, to: model.StatusPaid},
	EventDelete:          {from: model.StatusDraft, to: model.StatusUnspecified},
}

func (e Event) String() string {
	switch e {
	case EventSaveDraft:
		return "saveDraft"
	case EventValidate:
		return "validate"
	case EventGenerateInvoice:
		return "generateInvoice"
	case EventMarkPaid:
		return "markPaid"
	case EventDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Allowed reports whether the event may fire from the given status.
func Allowed(status model.Status, ev Event) bool {
	t, ok := transitions[ev]
	return ok && t.from == status
}

// RequireDraft rejects any field change on a situation that left Draft.
func RequireDraft(s model.Situation) error {
	if s.Statut == model.StatusDraft {
		return nil
	}
	return apperrors.WithMetadata(
		apperrors.CodeSituationNotDraft,
		fmt.Sprintf("situation %d is %s and can no longer be modified", s.Numero, s.Statut),
		map[string]string{"Status": s.Statut.String()},
	)
}

// Transition applies a lifecycle event and returns the updated copy. A
// validate event additionally requires every line to satisfy
// previous <= current <= 100.
func Transition(s model.Situation, ev Event, now func() time.Time) (model.Situation, error) {
	if now == nil {
		now = time.Now
	}
	t, ok := transitions[ev]
	if !ok {
		return model.Situation{}, apperrors.New(apperrors.CodeIllegalTransition, fmt.Sprintf("unknown lifecycle event %d", ev))
	}
	if s.Statut != t.from {
		if t.from == model.StatusDraft {
			return model.Situation{}, RequireDraft(s)
		}
		return model.Situation{}, apperrors.WithMetadata(
			apperrors.CodeIllegalTransition,
			fmt.Sprintf("cannot %s situation %d: status is %s, expected %s", ev, s.Numero, s.Statut, t.from),
			map[string]string{"Event": ev.String(), "FromStatus": s.Statut.String(), "ExpectedStatus": t.from.String()},
		)
	}

	if ev == EventValidate {
		if msg, blocked := model.FirstCritical(CheckValidation(s)); blocked {
			return model.Situation{}, apperrors.WithMetadata(
				apperrors.Code(msg.Code),
				msg.Message,
				map[string]string{"Event": ev.String()},
			)
		}
	}

	updated := s.Clone()
	if t.to != model.StatusUnspecified {
		updated.Statut = t.to
	}
	stamp := now().UTC()
	switch ev {
	case EventValidate:
		updated.ValidatedAt = &stamp
	case EventGenerateInvoice:
		updated.InvoicedAt = &stamp
	case EventMarkPaid:
		updated.PaidAt = &stamp
	}
	return updated, nil
}
