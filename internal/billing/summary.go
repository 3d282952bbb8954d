package billing

import (
	"sort"

	"github.com/shopspring/decimal"

	"billing-engine/internal/model"
)

// Calculator aggregates line amounts into situation totals.
type Calculator struct {
	RetentionRate decimal.Decimal
}

func NewCalculator(retentionRate decimal.Decimal) Calculator {
	return Calculator{RetentionRate: retentionRate}
}

// Amounts returns the rounded figures of every line, in line order.
func (c Calculator) Amounts(s model.Situation) []model.LineAmounts {
	out := make([]model.LineAmounts, 0, len(s.Lignes))
	for _, l := range s.Lignes {
		out = append(out, ComputeLineAmounts(l))
	}
	return out
}

// Summarize sums the exact line figures, applies retention and advances,
// and rounds each aggregate once. NetAPayer is not clamped: advances larger
// than the period total yield a negative amount.
func (c Calculator) Summarize(s model.Situation) model.Totals {
	var periodeHT, periodeTVA, cumulHT, precedentHT, marcheHT decimal.Decimal
	byRate := make(map[string]*model.VATBreakdown)

	for _, l := range s.Lignes {
		e := computeExact(l)
		periodeHT = periodeHT.Add(e.periodeHT)
		periodeTVA = periodeTVA.Add(e.periodeTVA)
		cumulHT = cumulHT.Add(e.cumulHT)
		precedentHT = precedentHT.Add(e.precedentHT)
		marcheHT = marcheHT.Add(l.TotalHT)

		key := l.TVA.String()
		b, ok := byRate[key]
		if !ok {
			b = &model.VATBreakdown{Taux: l.TVA}
			byRate[key] = b
		}
		b.BaseHT = b.BaseHT.Add(e.periodeHT)
		b.MontantTVA = b.MontantTVA.Add(e.periodeTVA)
	}

	ttc := periodeHT.Add(periodeTVA)
	retenue := decimal.Zero
	if s.RetenueGarantie {
		retenue = ttc.Mul(c.RetentionRate)
	}
	net := ttc.Sub(retenue).Sub(s.AcomptesDeduits)

	avancement := decimal.Zero
	if !marcheHT.IsZero() {
		avancement = cumulHT.Shift(2).Div(marcheHT)
	}

	return model.Totals{
		MontantSituationHT:  round(periodeHT),
		TotalTVA:            round(periodeTVA),
		MontantSituationTTC: round(ttc),
		Retenue:             round(retenue),
		AcomptesDeduits:     round(s.AcomptesDeduits),
		NetAPayer:           round(net),
		CumulHT:             round(cumulHT),
		PrecedentHT:         round(precedentHT),
		MarcheHT:            round(marcheHT),
		Avancement:          round(avancement),
		VentilationTVA:      ventilation(byRate),
	}
}

func ventilation(byRate map[string]*model.VATBreakdown) []model.VATBreakdown {
	out := make([]model.VATBreakdown, 0, len(byRate))
	for _, b := range byRate {
		out = append(out, model.VATBreakdown{
			Taux:       b.Taux,
			BaseHT:     round(b.BaseHT),
			MontantTVA: round(b.MontantTVA),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Taux.LessThan(out[j].Taux)
	})
	return out
}
