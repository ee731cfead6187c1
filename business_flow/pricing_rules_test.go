package businessflow

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseQuery() RuleQuery {
	return RuleQuery{
		ProductID:  1,
		CategoryID: 10,
		FirmID:     7,
		Channel:    models.ChannelCustomer,
		Quantity:   5,
		AsOf:       day("2026-03-10"),
	}
}

func ruleIDs(rules []*models.PricingRule) []uint {
	ids := make([]uint, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestMatchRules_Predicate(t *testing.T) {
	tests := []struct {
		name  string
		rule  models.PricingRule
		match bool
	}{
		{"global", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer}, true},
		{"category hit", models.PricingRule{Scope: models.RuleScopeCategory, CategoryID: utils.ToPtr(uint(10)), Channel: models.ChannelCustomer}, true},
		{"category miss", models.PricingRule{Scope: models.RuleScopeCategory, CategoryID: utils.ToPtr(uint(11)), Channel: models.ChannelCustomer}, false},
		{"product hit", models.PricingRule{Scope: models.RuleScopeProduct, ProductID: utils.ToPtr(uint(1)), Channel: models.ChannelCustomer}, true},
		{"product miss", models.PricingRule{Scope: models.RuleScopeProduct, ProductID: utils.ToPtr(uint(2)), Channel: models.ChannelCustomer}, false},
		{"other channel", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelSubDealer}, false},
		{"same firm", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, FirmID: utils.ToPtr(uint(7))}, true},
		{"other firm", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, FirmID: utils.ToPtr(uint(8))}, false},
		{"min quantity equal", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, MinQuantity: 5}, true},
		{"min quantity above", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, MinQuantity: 6}, false},
		{"window contains", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, StartDate: dayPtr("2026-03-01"), EndDate: dayPtr("2026-03-31")}, true},
		{"window open end", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, StartDate: dayPtr("2026-03-10")}, true},
		{"window open start", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, EndDate: dayPtr("2026-03-10")}, true},
		{"window expired", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, EndDate: dayPtr("2026-03-09")}, false},
		{"window future", models.PricingRule{Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, StartDate: dayPtr("2026-03-11")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := tt.rule
			rule.ID = 1
			matched := MatchRules([]*models.PricingRule{&rule}, baseQuery())
			if tt.match {
				assert.Len(t, matched, 1)
			} else {
				assert.Empty(t, matched)
			}
		})
	}
}

func TestMatchRules_MinQuantityBoundary(t *testing.T) {
	rule := &models.PricingRule{ID: 1, Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, MinQuantity: 5}

	for qty, want := range map[int]bool{4: false, 5: true, 6: true, 100: true} {
		q := baseQuery()
		q.Quantity = qty
		assert.Equal(t, want, len(MatchRules([]*models.PricingRule{rule}, q)) == 1, "quantity %d", qty)
	}
}

func TestMatchRules_SingleDayWindow(t *testing.T) {
	rule := &models.PricingRule{
		ID: 1, Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer,
		StartDate: dayPtr("2026-03-10"), EndDate: dayPtr("2026-03-10"),
	}

	for asOf, want := range map[string]bool{"2026-03-09": false, "2026-03-10": true, "2026-03-11": false} {
		q := baseQuery()
		q.AsOf = day(asOf)
		assert.Equal(t, want, len(MatchRules([]*models.PricingRule{rule}, q)) == 1, asOf)
	}
}

func TestMatchRules_Ordering(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rules := []*models.PricingRule{
		{ID: 4, Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, Priority: 2, CreatedAt: t0},
		{ID: 3, Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, Priority: 1, CreatedAt: t0.Add(time.Hour)},
		{ID: 9, Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, Priority: 1, CreatedAt: t0},
		{ID: 8, Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, Priority: 1, CreatedAt: t0},
		{ID: 1, Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, Priority: -1, CreatedAt: t0.Add(48 * time.Hour)},
	}

	matched := MatchRules(rules, baseQuery())
	assert.Equal(t, []uint{1, 8, 9, 3, 4}, ruleIDs(matched))

	// input order does not matter
	reversed := []*models.PricingRule{rules[4], rules[3], rules[2], rules[1], rules[0]}
	assert.Equal(t, ruleIDs(matched), ruleIDs(MatchRules(reversed, baseQuery())))
}

func TestMatchRules_InvalidScopeSkipped(t *testing.T) {
	rules := memRules{
		{ID: 1, Scope: models.RuleScopeCategory, Channel: models.ChannelCustomer},
		{ID: 2, Scope: models.RuleScopeGlobal, Channel: models.ChannelCustomer, ProductID: utils.ToPtr(uint(1))},
		{ID: 3, Scope: "brand", Channel: models.ChannelCustomer},
		{ID: 4, Scope: models.RuleScopeProduct, Channel: models.ChannelCustomer, ProductID: utils.ToPtr(uint(1))},
	}
	var buf bytes.Buffer
	matcher := NewRuleMatcher(rules, log.New(&buf, "", 0))

	matched, err := matcher.MatchRules(context.Background(), baseQuery())
	require.NoError(t, err)
	assert.Equal(t, []uint{4}, ruleIDs(matched))
	assert.Contains(t, buf.String(), "InvalidRuleScope")
	assert.Contains(t, buf.String(), `"rule_id":1`)
	assert.Contains(t, buf.String(), `"rule_id":3`)
}

func TestSelectOverride(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candidates := []*models.CustomerPriceOverride{
		{ID: 1, NetPrice: dec("7.00"), CreatedAt: t0, EndDate: dayPtr("2026-02-28")},
		{ID: 2, NetPrice: dec("6.00"), CreatedAt: t0},
		{ID: 3, NetPrice: dec("5.00"), CreatedAt: t0},
		{ID: 4, NetPrice: dec("4.00"), CreatedAt: t0.Add(-time.Hour), StartDate: dayPtr("2026-03-01")},
	}

	winner, valid := SelectOverride(candidates, day("2026-03-10"))
	require.NotNil(t, winner)
	assert.Equal(t, uint(3), winner.ID)
	assert.Equal(t, 3, valid)

	winner, valid = SelectOverride(candidates[:1], day("2026-03-10"))
	assert.Nil(t, winner)
	assert.Zero(t, valid)
}
