package businessflow

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/utils"
)

// RuleQuery is the input of rule matching for one order line
type RuleQuery struct {
	ProductID  uint
	CategoryID uint
	FirmID     uint
	Channel    models.SalesChannel
	Quantity   int
	AsOf       time.Time
}

// RuleStore returns the rules that could apply to a channel and firm
type RuleStore interface {
	ListCandidates(ctx context.Context, channel models.SalesChannel, firmID uint) ([]*models.PricingRule, error)
}

// RuleMatcher selects the applicable rules ordered by precedence
type RuleMatcher interface {
	MatchRules(ctx context.Context, q RuleQuery) ([]*models.PricingRule, error)
}

type RuleMatcherImpl struct {
	rules  RuleStore
	logger *log.Logger
}

func NewRuleMatcher(rules RuleStore, logger *log.Logger) RuleMatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &RuleMatcherImpl{rules: rules, logger: logger}
}

func (m *RuleMatcherImpl) MatchRules(ctx context.Context, q RuleQuery) ([]*models.PricingRule, error) {
	candidates, err := m.rules.ListCandidates(ctx, q.Channel, q.FirmID)
	if err != nil {
		return nil, fmt.Errorf("load pricing rules: %w", err)
	}

	matched, invalid := matchRules(candidates, q)
	for _, r := range invalid {
		pricingInvalidRulesSkippedTotal.Inc()
		m.logger.Printf(`{"level":"warn","event":"InvalidRuleScope","rule_id":%d,"scope":%q,"error":%q}`,
			r.ID, r.Scope, ErrInvalidRuleScope.Error())
	}
	return matched, nil
}

// MatchRules filters rules by the applicability predicate and orders them by
// priority asc, created_at asc, id asc. The first element wins.
func MatchRules(rules []*models.PricingRule, q RuleQuery) []*models.PricingRule {
	matched, _ := matchRules(rules, q)
	return matched
}

func matchRules(rules []*models.PricingRule, q RuleQuery) (matched, invalid []*models.PricingRule) {
	for _, r := range rules {
		if r == nil {
			continue
		}
		if !r.ScopeConsistent() {
			invalid = append(invalid, r)
			continue
		}
		if ruleApplies(r, q) {
			matched = append(matched, r)
		}
	}
	slices.SortFunc(matched, compareRules)
	return matched, invalid
}

func ruleApplies(r *models.PricingRule, q RuleQuery) bool {
	switch r.Scope {
	case models.RuleScopeGlobal:
	case models.RuleScopeCategory:
		if *r.CategoryID != q.CategoryID {
			return false
		}
	case models.RuleScopeProduct:
		if *r.ProductID != q.ProductID {
			return false
		}
	default:
		return false
	}
	if r.Channel != q.Channel {
		return false
	}
	if r.FirmID != nil && *r.FirmID != q.FirmID {
		return false
	}
	if q.Quantity < r.MinQuantity {
		return false
	}
	return utils.WithinDateRange(q.AsOf, r.StartDate, r.EndDate)
}

func compareRules(a, b *models.PricingRule) int {
	return cmp.Or(
		cmp.Compare(a.Priority, b.Priority),
		a.CreatedAt.Compare(b.CreatedAt),
		cmp.Compare(a.ID, b.ID),
	)
}
