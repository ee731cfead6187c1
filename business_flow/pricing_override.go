package businessflow

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/utils"
)

// OverrideStore returns every override stored for a lookup key
type OverrideStore interface {
	ListCandidates(ctx context.Context, productID, firmID uint, channel models.SalesChannel) ([]*models.CustomerPriceOverride, error)
}

// OverrideResolver finds the fixed net price valid for a line, if any
type OverrideResolver interface {
	Override(ctx context.Context, productID, firmID uint, channel models.SalesChannel, asOf time.Time) (*models.CustomerPriceOverride, error)
}

type OverrideResolverImpl struct {
	overrides OverrideStore
	logger    *log.Logger
}

func NewOverrideResolver(overrides OverrideStore, logger *log.Logger) OverrideResolver {
	if logger == nil {
		logger = log.Default()
	}
	return &OverrideResolverImpl{overrides: overrides, logger: logger}
}

func (r *OverrideResolverImpl) Override(ctx context.Context, productID, firmID uint, channel models.SalesChannel, asOf time.Time) (*models.CustomerPriceOverride, error) {
	candidates, err := r.overrides.ListCandidates(ctx, productID, firmID, channel)
	if err != nil {
		return nil, fmt.Errorf("load price overrides: %w", err)
	}

	winner, valid := SelectOverride(candidates, asOf)
	if valid > 1 {
		pricingAmbiguousOverridesTotal.Inc()
		r.logger.Printf(`{"level":"warn","event":"AmbiguousOverride","product_id":%d,"firm_id":%d,"channel":%q,"as_of":%q,"valid_count":%d,"chosen_id":%d}`,
			productID, firmID, channel, asOf.Format(utils.DateLayout), valid, winner.ID)
	}
	return winner, nil
}

// SelectOverride returns the most recently created override valid on asOf
// (ties by higher id) and how many overrides were valid.
func SelectOverride(candidates []*models.CustomerPriceOverride, asOf time.Time) (*models.CustomerPriceOverride, int) {
	var winner *models.CustomerPriceOverride
	valid := 0
	for _, o := range candidates {
		if o == nil || !utils.WithinDateRange(asOf, o.StartDate, o.EndDate) {
			continue
		}
		valid++
		if winner == nil || newerOverride(o, winner) {
			winner = o
		}
	}
	return winner, valid
}

func newerOverride(a, b *models.CustomerPriceOverride) bool {
	return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID)) > 0
}
