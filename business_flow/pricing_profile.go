package businessflow

import (
	"context"
	"fmt"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/shopspring/decimal"
)

// FirmStore loads a firm together with its assigned profile
type FirmStore interface {
	ByIDWithProfile(ctx context.Context, id uint) (*models.Firm, error)
}

// ProfileDiscountResolver yields the signed percentage of a firm's profile.
// A nil percentage means no profile is assigned.
type ProfileDiscountResolver interface {
	ProfileDiscount(ctx context.Context, firmID uint) (*decimal.Decimal, error)
}

type ProfileDiscountResolverImpl struct {
	firms FirmStore
}

func NewProfileDiscountResolver(firms FirmStore) ProfileDiscountResolver {
	return &ProfileDiscountResolverImpl{firms: firms}
}

func (r *ProfileDiscountResolverImpl) ProfileDiscount(ctx context.Context, firmID uint) (*decimal.Decimal, error) {
	firm, err := r.firms.ByIDWithProfile(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("load firm %d: %w", firmID, err)
	}
	if firm == nil {
		return nil, ErrFirmNotFound
	}
	if firm.ProfileID == nil || firm.Profile == nil {
		return nil, nil
	}
	pct := firm.Profile.GeneralDiscountPercent
	return &pct, nil
}
