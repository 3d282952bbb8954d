// Package contracts turns the accepted contracts of a project into the flat
// list of lines a situation is built from.
package contracts

import (
	"context"
	"fmt"

	"billing-engine/internal/billing"
	"billing-engine/internal/model"
)

// Source yields the contracts linked to a project.
type Source interface {
	Contracts(ctx context.Context, projectID string) ([]model.Contract, error)
}

// Flatten concatenates the items of every non-rejected contract, keeping
// contract order then item order. Lines are not deduplicated.
func Flatten(contracts []model.Contract) []model.ContractLine {
	lines := make([]model.ContractLine, 0)
	for _, c := range contracts {
		if c.Statut == model.ContractStatusRejected {
			continue
		}
		for _, item := range c.Lignes {
			lines = append(lines, model.ContractLine{
				ID:                   item.ID,
				Description:          item.Description,
				Quantity:             item.Quantite,
				UnitPrice:            item.PrixUnitaire,
				Unit:                 item.Unite,
				VATRatePercent:       item.TVA,
				TotalExVat:           billing.LineTotalHT(item.Quantite, item.PrixUnitaire),
				OriginContractNumber: c.Numero,
			})
		}
	}
	return lines
}

// Registry reads contracts from a Source and flattens them.
type Registry struct {
	source Source
}

func NewRegistry(source Source) *Registry {
	return &Registry{source: source}
}

// Lines returns the current contract lines of a project. Source failures
// are returned as-is, never replaced by an empty list.
func (r *Registry) Lines(ctx context.Context, projectID string) ([]model.ContractLine, error) {
	contracts, err := r.source.Contracts(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load contracts for project %s: %w", projectID, err)
	}
	return Flatten(contracts), nil
}
