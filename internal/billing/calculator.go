// Package billing derives period and cumulative amounts of a situation.
//
// All arithmetic runs on exact decimals. Rounding to the currency unit
// happens once, when a figure leaves the package.
package billing

import (
	"github.com/shopspring/decimal"

	"billing-engine/internal/model"
)

const moneyPlaces = 2

// DefaultRetentionRate is the usual 5% "retenue de garantie".
var DefaultRetentionRate = decimal.New(5, -2)

type exactAmounts struct {
	cumulHT     decimal.Decimal
	precedentHT decimal.Decimal
	periodeHT   decimal.Decimal
	periodeTVA  decimal.Decimal
}

// percentOf returns amount × pct / 100 without losing digits.
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Shift(-2)
}

func computeExact(line model.SituationLine) exactAmounts {
	cumul := percentOf(line.TotalHT, line.CumulActuel)
	previous := percentOf(line.TotalHT, line.CumulPrecedent)
	period := cumul.Sub(previous)
	return exactAmounts{
		cumulHT:     cumul,
		precedentHT: previous,
		periodeHT:   period,
		periodeTVA:  percentOf(period, line.TVA),
	}
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// ComputeLineAmounts derives the monetary figures of one line from its
// previous and current cumulative percentages.
func ComputeLineAmounts(line model.SituationLine) model.LineAmounts {
	e := computeExact(line)
	return model.LineAmounts{
		LigneID:     line.LigneID,
		CumulHT:     round(e.cumulHT),
		PrecedentHT: round(e.precedentHT),
		PeriodeHT:   round(e.periodeHT),
		PeriodeTVA:  round(e.periodeTVA),
		PeriodeTTC:  round(e.periodeHT.Add(e.periodeTVA)),
	}
}

// LineTotalHT is quantity × unit price, unrounded.
func LineTotalHT(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}
