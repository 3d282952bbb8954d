// Package situation builds draft situations from a project's contract lines
// and governs their lifecycle.
package situation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/model"
)

const dateLayout = "2006-01-02"

var (
	minPercent = decimal.Zero
	maxPercent = decimal.NewFromInt(100)
)

// NewID generates a situation id.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Baseline returns the non-draft situation with the highest number, which
// seeds the previous cumulative percentages of the next draft.
func Baseline(existing []model.Situation) (model.Situation, bool) {
	var best model.Situation
	found := false
	for _, s := range existing {
		if s.Statut == model.StatusDraft {
			continue
		}
		if !found || s.Numero > best.Numero {
			best = s
			found = true
		}
	}
	return best, found
}

// NextNumber returns max(numero)+1 over every situation, drafts included.
func NextNumber(existing []model.Situation) int {
	highest := 0
	for _, s := range existing {
		if s.Numero > highest {
			highest = s.Numero
		}
	}
	return highest + 1
}

// CreateDraft snapshots the contract lines into a new draft whose previous
// and current percentages both start at the baseline's value for the line.
// An empty contract yields a draft without lines.
func CreateDraft(projectID string, lines []model.ContractLine, existing []model.Situation, now func() time.Time, idGenerator func() (string, error)) (model.Situation, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	id, err := idGenerator()
	if err != nil {
		return model.Situation{}, fmt.Errorf("generate situation id: %w", err)
	}

	previous := make(map[string]decimal.Decimal)
	baselineID := ""
	if base, ok := Baseline(existing); ok {
		baselineID = base.ID
		for _, l := range base.Lignes {
			previous[l.Key()] = l.CumulActuel
		}
	}

	snapshot := make([]model.SituationLine, 0, len(lines))
	for _, cl := range lines {
		prev := previous[model.LineKey(cl.OriginContractNumber, cl.ID)]
		snapshot = append(snapshot, model.SituationLine{
			LigneID:        cl.ID,
			Description:    cl.Description,
			Quantite:       cl.Quantity,
			PrixUnitaire:   cl.UnitPrice,
			Unite:          cl.Unit,
			TVA:            cl.VATRatePercent,
			TotalHT:        cl.TotalExVat,
			ContratNumero:  cl.OriginContractNumber,
			CumulPrecedent: prev,
			CumulActuel:    prev,
		})
	}

	createdAt := now().UTC()
	return model.Situation{
		ID:              id,
		ProjectID:       projectID,
		Numero:          NextNumber(existing),
		Date:            createdAt.Format(dateLayout),
		Statut:          model.StatusDraft,
		Lignes:          snapshot,
		RetenueGarantie: false,
		AcomptesDeduits: decimal.Zero,
		BaselineID:      baselineID,
		CreatedAt:       createdAt,
	}, nil
}

// ClampPercent bounds a percentage to [0, 100] and reports whether it moved.
func ClampPercent(p decimal.Decimal) (decimal.Decimal, bool) {
	if p.LessThan(minPercent) {
		return minPercent, true
	}
	if p.GreaterThan(maxPercent) {
		return maxPercent, true
	}
	return p, false
}

// SetLinePercent returns a copy of the draft with the line's current
// cumulative percentage replaced by the clamped value. Going below the
// previous cumulative is allowed here and rejected at validation.
func SetLinePercent(draft model.Situation, ligneID string, percent decimal.Decimal) (model.Situation, error) {
	if err := RequireDraft(draft); err != nil {
		return model.Situation{}, err
	}
	if draft.AmbiguousLine(ligneID) {
		return model.Situation{}, ambiguousLine(draft, ligneID)
	}
	idx := draft.LineIndex(ligneID)
	if idx < 0 {
		return model.Situation{}, apperrors.WithMetadata(
			apperrors.CodeLineNotFound,
			fmt.Sprintf("line %s not found in situation %d", ligneID, draft.Numero),
			map[string]string{"LigneID": ligneID},
		)
	}
	clamped, _ := ClampPercent(percent)
	updated := draft.Clone()
	updated.Lignes[idx].CumulActuel = clamped
	return updated, nil
}

func ambiguousLine(s model.Situation, ligneID string) error {
	return apperrors.WithMetadata(
		apperrors.CodeLineAmbiguous,
		fmt.Sprintf("line %s appears in several contracts of situation %d; address it as <contract>:%s", ligneID, s.Numero, ligneID),
		map[string]string{"LigneID": ligneID},
	)
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
