package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/billing"
	"billing-engine/internal/model"
	"billing-engine/internal/mutations"
	"billing-engine/internal/situation"
	"billing-engine/internal/store"
)

// LineSource yields the billable lines of a project's contracts.
type LineSource interface {
	Lines(ctx context.Context, projectID string) ([]model.ContractLine, error)
}

type Options struct {
	// Calculator defaults to the standard retention rate when nil.
	Calculator *billing.Calculator
	// SingleDraft refuses a second open draft per project.
	SingleDraft bool
	Now         func() time.Time
	NewID       func() (string, error)
}

// Service exposes every situation operation. Each call loads the project's
// chain, works on copies, and saves the whole chain back under a
// per-project lock.
type Service struct {
	repo        store.Repository
	lines       LineSource
	calc        billing.Calculator
	singleDraft bool
	now         func() time.Time
	newID       func() (string, error)

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo store.Repository, lines LineSource, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = situation.NewID
	}
	calc := billing.NewCalculator(billing.DefaultRetentionRate)
	if opts.Calculator != nil {
		calc = *opts.Calculator
	}
	return &Service{
		repo:        repo,
		lines:       lines,
		calc:        calc,
		singleDraft: opts.SingleDraft,
		now:         opts.Now,
		newID:       opts.NewID,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (s *Service) lock(projectID string) func() {
	s.mu.Lock()
	l, ok := s.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[projectID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *Service) load(ctx context.Context, projectID string) ([]model.Situation, error) {
	chain, err := s.repo.Load(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load situations of project %s: %w", projectID, err)
	}
	return chain, nil
}

func (s *Service) save(ctx context.Context, projectID string, chain []model.Situation) error {
	if err := s.repo.Save(ctx, projectID, chain); err != nil {
		return fmt.Errorf("save situations of project %s: %w", projectID, err)
	}
	return nil
}

func (s *Service) view(sit model.Situation, msgs []model.CalculationMessage) model.SituationView {
	return model.SituationView{
		Situation: sit,
		Montants:  s.calc.Amounts(sit),
		Totaux:    s.calc.Summarize(sit),
		Messages:  msgs,
	}
}

// ListSituations returns the project's situations, most recent first.
func (s *Service) ListSituations(ctx context.Context, projectID string) ([]model.Situation, error) {
	chain, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return store.List(chain), nil
}

func (s *Service) GetSituation(ctx context.Context, projectID, id string) (model.SituationView, error) {
	chain, err := s.load(ctx, projectID)
	if err != nil {
		return model.SituationView{}, err
	}
	sit, err := store.Find(chain, id)
	if err != nil {
		return model.SituationView{}, err
	}
	return s.view(sit, nil), nil
}

// CreateDraft snapshots the current contract lines into a new draft seeded
// from the latest non-draft situation.
func (s *Service) CreateDraft(ctx context.Context, projectID string) (model.SituationView, error) {
	unlock := s.lock(projectID)
	defer unlock()

	chain, err := s.load(ctx, projectID)
	if err != nil {
		return model.SituationView{}, err
	}
	if s.singleDraft {
		for _, existing := range chain {
			if existing.Statut == model.StatusDraft {
				return model.SituationView{}, apperrors.WithMetadata(
					apperrors.CodeDraftAlreadyOpen,
					fmt.Sprintf("situation %d is still a draft", existing.Numero),
					map[string]string{"SituationID": existing.ID},
				)
			}
		}
	}

	lines, err := s.lines.Lines(ctx, projectID)
	if err != nil {
		return model.SituationView{}, err
	}
	draft, err := situation.CreateDraft(projectID, lines, chain, s.now, s.newID)
	if err != nil {
		return model.SituationView{}, err
	}
	if err := s.save(ctx, projectID, store.Upsert(chain, draft)); err != nil {
		return model.SituationView{}, err
	}
	log.Printf("project %s: draft situation %d created with %d lines", projectID, draft.Numero, len(draft.Lignes))
	return s.view(draft, nil), nil
}

// Edit runs a mutation batch against a stored draft. Only a fully
// successful batch is saved; a failed one returns the result together with
// the error of its first critical message.
func (s *Service) Edit(ctx context.Context, projectID, id string, batch []model.Mutation) (*model.EditResult, error) {
	unlock := s.lock(projectID)
	defer unlock()

	chain, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	draft, err := store.Find(chain, id)
	if err != nil {
		return nil, err
	}
	if err := situation.RequireDraft(draft); err != nil {
		return nil, err
	}

	result := Process(draft, batch, s.calc)
	if result.Outcome != model.OutcomeSuccess {
		msg, _ := model.FirstCritical(result.Messages)
		return result, apperrors.New(apperrors.Code(msg.Code), msg.Message)
	}
	if err := s.save(ctx, projectID, store.Upsert(chain, result.Situation)); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateDraftLine sets the current cumulative percentage of one line.
func (s *Service) UpdateDraftLine(ctx context.Context, projectID, id, ligneID string, percent decimal.Decimal) (*model.EditResult, error) {
	props, err := json.Marshal(map[string]any{"ligneId": ligneID, "percent": percent})
	if err != nil {
		return nil, fmt.Errorf("encode line update: %w", err)
	}
	return s.Edit(ctx, projectID, id, []model.Mutation{{
		MutationID:             ligneID,
		MutationDefinitionName: mutations.UpdateLine,
		MutationProperties:     props,
	}})
}

// SaveDraft persists the draft as stored. Saving twice is harmless.
func (s *Service) SaveDraft(ctx context.Context, projectID, id string) (model.SituationView, error) {
	return s.transition(ctx, projectID, id, situation.EventSaveDraft)
}

// Validate freezes a draft. The draft must still be based on the latest
// non-draft situation and every line must satisfy
// previous <= current <= 100.
func (s *Service) Validate(ctx context.Context, projectID, id string) (model.SituationView, error) {
	return s.transition(ctx, projectID, id, situation.EventValidate)
}

func (s *Service) GenerateInvoice(ctx context.Context, projectID, id string) (model.SituationView, error) {
	return s.transition(ctx, projectID, id, situation.EventGenerateInvoice)
}

func (s *Service) MarkPaid(ctx context.Context, projectID, id string) (model.SituationView, error) {
	return s.transition(ctx, projectID, id, situation.EventMarkPaid)
}

func (s *Service) transition(ctx context.Context, projectID, id string, ev situation.Event) (model.SituationView, error) {
	unlock := s.lock(projectID)
	defer unlock()

	chain, err := s.load(ctx, projectID)
	if err != nil {
		return model.SituationView{}, err
	}
	current, err := store.Find(chain, id)
	if err != nil {
		return model.SituationView{}, err
	}

	var warnings []model.CalculationMessage
	if ev == situation.EventValidate && current.Statut == model.StatusDraft {
		if err := checkBaseline(chain, current); err != nil {
			return model.SituationView{}, err
		}
		for _, m := range situation.CheckValidation(current) {
			if m.Level == model.LevelWarning {
				warnings = append(warnings, m)
			}
		}
	}

	updated, err := situation.Transition(current, ev, s.now)
	if err != nil {
		return model.SituationView{}, err
	}
	next := store.Upsert(chain, updated)
	if ev == situation.EventValidate {
		if err := situation.CheckMonotonic(next); err != nil {
			return model.SituationView{}, err
		}
	}
	if err := s.save(ctx, projectID, next); err != nil {
		return model.SituationView{}, err
	}

	view := s.view(updated, nil)
	if ev == situation.EventValidate && view.Totaux.NetAPayer.IsNegative() {
		warnings = append(warnings, model.Warning(
			model.WarnNegativeNet,
			fmt.Sprintf("situation %d: net to pay is %s", updated.Numero, view.Totaux.NetAPayer),
		))
	}
	for i := range warnings {
		warnings[i].ID = i
	}
	view.Messages = warnings

	if ev != situation.EventSaveDraft {
		log.Printf("project %s: situation %d %s -> %s", projectID, updated.Numero, ev, updated.Statut)
	}
	return view, nil
}

// checkBaseline refuses a draft whose previous percentages no longer come
// from the latest non-draft situation.
func checkBaseline(chain []model.Situation, draft model.Situation) error {
	base, _ := situation.Baseline(chain)
	if base.ID == draft.BaselineID {
		return nil
	}
	return apperrors.WithMetadata(
		apperrors.CodeStaleBaseline,
		fmt.Sprintf("situation %d was built on an outdated baseline; recreate the draft", draft.Numero),
		map[string]string{"BaselineID": draft.BaselineID, "LatestID": base.ID},
	)
}

// DeleteDraft removes a draft. Frozen situations cannot be deleted.
func (s *Service) DeleteDraft(ctx context.Context, projectID, id string) error {
	unlock := s.lock(projectID)
	defer unlock()

	chain, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}
	current, err := store.Find(chain, id)
	if err != nil {
		return err
	}
	if _, err := situation.Transition(current, situation.EventDelete, s.now); err != nil {
		return err
	}
	next, err := store.Delete(chain, id)
	if err != nil {
		return err
	}
	if err := s.save(ctx, projectID, next); err != nil {
		return err
	}
	log.Printf("project %s: draft situation %d deleted", projectID, current.Numero)
	return nil
}

// DraftTotals computes the amounts of any situation on demand.
func (s *Service) DraftTotals(ctx context.Context, projectID, id string) (model.Totals, error) {
	view, err := s.GetSituation(ctx, projectID, id)
	if err != nil {
		return model.Totals{}, err
	}
	return view.Totaux, nil
}
