package businessflow

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/repository"
	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

// fakeFirmRepo serves firms from the engine fixture's map
type fakeFirmRepo struct {
	repository.FirmRepository
	firms    memFirms
	assigned map[uint]*uint
}

func newFakeFirmRepo(firms memFirms) *fakeFirmRepo {
	return &fakeFirmRepo{firms: firms, assigned: map[uint]*uint{}}
}

func (r *fakeFirmRepo) ByID(_ context.Context, id uint) (*models.Firm, error) {
	return r.firms[id], nil
}

func (r *fakeFirmRepo) ByIDWithProfile(_ context.Context, id uint) (*models.Firm, error) {
	return r.firms[id], nil
}

func (r *fakeFirmRepo) LockByID(_ context.Context, id uint) (*models.Firm, error) {
	return r.firms[id], nil
}

func (r *fakeFirmRepo) AssignProfile(_ context.Context, firmID uint, profileID *uint) error {
	r.assigned[firmID] = profileID
	if f := r.firms[firmID]; f != nil {
		f.ProfileID = profileID
	}
	return nil
}

type fakeOrderRepo struct {
	repository.OrderRepository
	orders  []*models.Order
	saveErr error
}

func (r *fakeOrderRepo) Save(_ context.Context, o *models.Order) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	o.ID = uint(len(r.orders) + 1)
	for i := range o.Lines {
		o.Lines[i].ID = uint(i + 1)
		o.Lines[i].OrderID = o.ID
	}
	r.orders = append(r.orders, o)
	return nil
}

func (r *fakeOrderRepo) ByUUID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	for _, o := range r.orders {
		if o.UUID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) Exists(_ context.Context, filter models.OrderFilter) (bool, error) {
	for _, o := range r.orders {
		if filter.QuoteID != nil && (o.QuoteID == nil || *o.QuoteID != *filter.QuoteID) {
			continue
		}
		if filter.FirmID != nil && o.FirmID != *filter.FirmID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *fakeOrderRepo) ByUUIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.ByUUID(ctx, id)
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID uint, status models.OrderStatus, updatedAt time.Time) error {
	for _, o := range r.orders {
		if o.ID == orderID {
			o.Status = status
			o.UpdatedAt = updatedAt
			return nil
		}
	}
	return errStoreDown
}

// fakeAuditRepo rejects unknown firm references like the audit_log foreign key
// does when knownFirms is set
type fakeAuditRepo struct {
	repository.AuditLogRepository
	logs       []*models.AuditLog
	knownFirms memFirms
}

func (r *fakeAuditRepo) Save(_ context.Context, a *models.AuditLog) error {
	if r.knownFirms != nil && a.FirmID != nil && r.knownFirms[*a.FirmID] == nil {
		return errStoreDown
	}
	r.logs = append(r.logs, a)
	return nil
}

func (r *fakeAuditRepo) actions() []string {
	out := make([]string, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, l.Action)
	}
	return out
}

type fakeProductRepo struct {
	repository.ProductRepository
	products memProducts
}

func (r *fakeProductRepo) ByID(_ context.Context, id uint) (*models.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) ListActive(_ context.Context) ([]*models.Product, error) {
	var out []*models.Product
	for _, id := range slices.Sorted(maps.Keys(r.products)) {
		if p := r.products[id]; p.Active() {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	repository.CategoryRepository
	categories map[uint]*models.Category
}

func (r *fakeCategoryRepo) ByID(_ context.Context, id uint) (*models.Category, error) {
	return r.categories[id], nil
}

type fakeRuleRepo struct {
	repository.PricingRuleRepository
	rules []*models.PricingRule
}

func (r *fakeRuleRepo) Save(_ context.Context, rule *models.PricingRule) error {
	rule.ID = uint(len(r.rules) + 1)
	r.rules = append(r.rules, rule)
	return nil
}

func (r *fakeRuleRepo) ByUUID(_ context.Context, id uuid.UUID) (*models.PricingRule, error) {
	for _, rule := range r.rules {
		if rule.UUID == id {
			return rule, nil
		}
	}
	return nil, nil
}

func (r *fakeRuleRepo) DeleteByID(_ context.Context, id uint) (bool, error) {
	for i, rule := range r.rules {
		if rule.ID == id {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRuleRepo) ByFilter(_ context.Context, filter models.PricingRuleFilter, _ string, _, _ int) ([]*models.PricingRule, error) {
	var out []*models.PricingRule
	for _, rule := range r.rules {
		if filter.Channel != nil && rule.Channel != *filter.Channel {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

type fakeOverrideRepo struct {
	repository.PriceOverrideRepository
	overrides []*models.CustomerPriceOverride
}

func (r *fakeOverrideRepo) ListCandidates(_ context.Context, productID, firmID uint, channel models.SalesChannel) ([]*models.CustomerPriceOverride, error) {
	return memOverrides(r.overrides).ListCandidates(context.Background(), productID, firmID, channel)
}

func (r *fakeOverrideRepo) Save(_ context.Context, o *models.CustomerPriceOverride) error {
	o.ID = uint(len(r.overrides) + 1)
	r.overrides = append(r.overrides, o)
	return nil
}

type fakeProfileRepo struct {
	repository.CustomerProfileRepository
	profiles []*models.CustomerProfile
}

func (r *fakeProfileRepo) ByID(_ context.Context, id uint) (*models.CustomerProfile, error) {
	for _, p := range r.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) ByName(_ context.Context, name string) (*models.CustomerProfile, error) {
	for _, p := range r.profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) Save(_ context.Context, p *models.CustomerProfile) error {
	p.ID = uint(len(r.profiles) + 1)
	r.profiles = append(r.profiles, p)
	return nil
}
