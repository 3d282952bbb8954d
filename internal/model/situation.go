package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Situation is one interim billing record of a project's chain.
type Situation struct {
	ID              string          `json:"id"`
	ProjectID       string          `json:"projectId"`
	Numero          int             `json:"numero"`
	Date            string          `json:"date"`
	Statut          Status          `json:"statut"`
	Lignes          []SituationLine `json:"lignes"`
	RetenueGarantie bool            `json:"retenueGarantie"`
	AcomptesDeduits decimal.Decimal `json:"acomptesDeduits"`
	// BaselineID is the non-draft situation whose cumulative values seeded
	// CumulPrecedent, empty when the draft started from zero.
	BaselineID  string     `json:"baselineId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	ValidatedAt *time.Time `json:"validatedAt,omitempty"`
	InvoicedAt  *time.Time `json:"invoicedAt,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
}

// SituationLine snapshots a contract line plus its cumulative completion.
type SituationLine struct {
	LigneID        string          `json:"ligneId"`
	Description    string          `json:"description"`
	Quantite       decimal.Decimal `json:"quantite"`
	PrixUnitaire   decimal.Decimal `json:"prixUnitaire"`
	Unite          string          `json:"unite"`
	TVA            decimal.Decimal `json:"tva"`
	TotalHT        decimal.Decimal `json:"total_ht"`
	ContratNumero  string          `json:"contratNumero,omitempty"`
	CumulPrecedent decimal.Decimal `json:"cumulPrecedent"`
	CumulActuel    decimal.Decimal `json:"cumulActuel"`
}

// Clone returns a deep copy so edits never alias a stored value.
func (s Situation) Clone() Situation {
	out := s
	if s.Lignes != nil {
		out.Lignes = make([]SituationLine, len(s.Lignes))
		copy(out.Lignes, s.Lignes)
	}
	out.ValidatedAt = cloneTime(s.ValidatedAt)
	out.InvoicedAt = cloneTime(s.InvoicedAt)
	out.PaidAt = cloneTime(s.PaidAt)
	return out
}

// LineKey identifies a line across the situations of a project. Item ids
// are only unique within their contract, so the contract number is part of
// the key.
func LineKey(contratNumero, ligneID string) string {
	if contratNumero == "" {
		return ligneID
	}
	return contratNumero + ":" + ligneID
}

func (l SituationLine) Key() string {
	return LineKey(l.ContratNumero, l.LigneID)
}

// LineIndex returns the position of the line addressed by ref, or -1. ref
// is a line key, or a bare ligneId when exactly one line carries it.
func (s Situation) LineIndex(ref string) int {
	idx, n := s.lookupLine(ref)
	if n != 1 {
		return -1
	}
	return idx
}

// AmbiguousLine reports whether ref is a bare ligneId shared by several
// lines, which then have to be addressed by key.
func (s Situation) AmbiguousLine(ref string) bool {
	_, n := s.lookupLine(ref)
	return n > 1
}

func (s Situation) lookupLine(ref string) (int, int) {
	for i := range s.Lignes {
		if s.Lignes[i].Key() == ref {
			return i, 1
		}
	}
	idx, n := -1, 0
	for i := range s.Lignes {
		if s.Lignes[i].LigneID == ref {
			if n == 0 {
				idx = i
			}
			n++
		}
	}
	return idx, n
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
