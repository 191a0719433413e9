// Package usecases exposes the plan catalogue for public consumption.
package usecases

import (
	"context"

	"invitio/internal/domain/plan"
	apperrors "invitio/internal/shared/errors"
)

type PriceDTO struct {
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

type PlanDTO struct {
	Tier         string              `json:"tier"`
	MonthlyPrice *PriceDTO           `json:"monthly_price,omitempty"`
	YearlyPrice  *PriceDTO           `json:"yearly_price,omitempty"`
	Entitlements plan.EntitlementSet `json:"entitlements"`
}

// ListPlansUseCase returns every tier with its prices and entitlements,
// cheapest first.
type ListPlansUseCase struct {
	registry *plan.Registry
}

func NewListPlansUseCase(registry *plan.Registry) *ListPlansUseCase {
	return &ListPlansUseCase{registry: registry}
}

func (uc *ListPlansUseCase) Execute(_ context.Context) []*PlanDTO {
	defs := uc.registry.Definitions()
	out := make([]*PlanDTO, 0, len(defs))
	for _, def := range defs {
		out = append(out, toPlanDTO(def))
	}
	return out
}

// GetPlanEntitlementsUseCase returns one tier's full entitlement set.
type GetPlanEntitlementsUseCase struct {
	registry *plan.Registry
}

func NewGetPlanEntitlementsUseCase(registry *plan.Registry) *GetPlanEntitlementsUseCase {
	return &GetPlanEntitlementsUseCase{registry: registry}
}

func (uc *GetPlanEntitlementsUseCase) Execute(_ context.Context, rawTier string) (*PlanDTO, error) {
	tier, err := plan.ParseTier(rawTier)
	if err != nil {
		return nil, apperrors.NewNotFoundError("unknown plan", rawTier)
	}
	return toPlanDTO(uc.registry.DefinitionOf(tier)), nil
}

func toPlanDTO(def plan.PlanDefinition) *PlanDTO {
	d := &PlanDTO{
		Tier:         def.Tier().String(),
		Entitlements: def.Entitlements(),
	}
	if !def.IsFree() {
		mp := def.MonthlyPrice()
		d.MonthlyPrice = &PriceDTO{AmountMinor: mp.AmountMinor, Currency: mp.Currency}
		if yp := def.YearlyPrice(); yp != nil {
			d.YearlyPrice = &PriceDTO{AmountMinor: yp.AmountMinor, Currency: yp.Currency}
		}
	}
	return d
}
