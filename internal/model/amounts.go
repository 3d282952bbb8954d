package model

import "github.com/shopspring/decimal"

// LineAmounts are the per-line figures derived from a percentage pair.
type LineAmounts struct {
	LigneID     string          `json:"ligneId"`
	CumulHT     decimal.Decimal `json:"montantCumuleHT"`
	PrecedentHT decimal.Decimal `json:"montantPrecedentHT"`
	PeriodeHT   decimal.Decimal `json:"montantPeriodeHT"`
	PeriodeTVA  decimal.Decimal `json:"montantPeriodeTVA"`
	PeriodeTTC  decimal.Decimal `json:"montantPeriodeTTC"`
}

// VATBreakdown is the period base and tax for one VAT rate.
type VATBreakdown struct {
	Taux       decimal.Decimal `json:"taux"`
	BaseHT     decimal.Decimal `json:"baseHT"`
	MontantTVA decimal.Decimal `json:"montantTVA"`
}

// Totals are the situation-level aggregates shown to the user and invoiced.
type Totals struct {
	MontantSituationHT  decimal.Decimal `json:"montantSituationHT"`
	TotalTVA            decimal.Decimal `json:"totalTVA"`
	MontantSituationTTC decimal.Decimal `json:"montantSituationTTC"`
	Retenue             decimal.Decimal `json:"retenue"`
	AcomptesDeduits     decimal.Decimal `json:"acomptesDeduits"`
	NetAPayer           decimal.Decimal `json:"netAPayer"`
	CumulHT             decimal.Decimal `json:"cumulHT"`
	PrecedentHT         decimal.Decimal `json:"precedentHT"`
	MarcheHT            decimal.Decimal `json:"marcheHT"`
	Avancement          decimal.Decimal `json:"avancement"`
	VentilationTVA      []VATBreakdown  `json:"ventilationTVA"`
}
