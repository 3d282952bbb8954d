package model

import "github.com/shopspring/decimal"

// ContractStatusRejected marks a quote the client turned down. Every other
// status counts as accepted for billing purposes.
const ContractStatusRejected = "refuse"

// Contract is the accepted quote as exposed by the contract collaborator.
type Contract struct {
	ID     string         `json:"id"`
	Numero string         `json:"numero"`
	Statut string         `json:"statut"`
	Lignes []ContractItem `json:"lignes"`
}

type ContractItem struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Quantite     decimal.Decimal `json:"quantite"`
	PrixUnitaire decimal.Decimal `json:"prixUnitaire"`
	Unite        string          `json:"unite"`
	TVA          decimal.Decimal `json:"tva"`
}

// ContractLine is the flattened, read-only reference a situation snapshots.
type ContractLine struct {
	ID                   string          `json:"id"`
	Description          string          `json:"description"`
	Quantity             decimal.Decimal `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unitPrice"`
	Unit                 string          `json:"unit"`
	VATRatePercent       decimal.Decimal `json:"vatRatePercent"`
	TotalExVat           decimal.Decimal `json:"totalExVat"`
	OriginContractNumber string          `json:"originContractNumber"`
}
