package models

import (
	"testing"

	"github.com/amirphl/pastane-b2b/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatus("Kayıp"), OrderStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderLine_Immutable(t *testing.T) {
	line := &OrderLine{ID: 1, UnitPrice: decimal.RequireFromString("9.45")}
	assert.ErrorIs(t, line.BeforeUpdate(nil), ErrOrderLineImmutable)
}

func TestPricingRule_ScopeConsistent(t *testing.T) {
	cat := utils.ToPtr(uint(1))
	prod := utils.ToPtr(uint(2))
	tests := []struct {
		name string
		rule PricingRule
		want bool
	}{
		{"global", PricingRule{Scope: RuleScopeGlobal}, true},
		{"global with product", PricingRule{Scope: RuleScopeGlobal, ProductID: prod}, false},
		{"category", PricingRule{Scope: RuleScopeCategory, CategoryID: cat}, true},
		{"category missing target", PricingRule{Scope: RuleScopeCategory}, false},
		{"product", PricingRule{Scope: RuleScopeProduct, ProductID: prod}, true},
		{"product with category", PricingRule{Scope: RuleScopeProduct, ProductID: prod, CategoryID: cat}, false},
		{"unknown scope", PricingRule{Scope: "brand"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.ScopeConsistent())
		})
	}
}

func TestProduct_ListPrice(t *testing.T) {
	p := &Product{CustomerPrice: decimal.NewNullDecimal(decimal.RequireFromString("10"))}

	assert.True(t, p.ListPrice(ChannelCustomer).Valid)
	assert.False(t, p.ListPrice(ChannelSubDealer).Valid)
	assert.False(t, p.ListPrice(SalesChannel("bayi")).Valid)
	assert.False(t, p.Active())
}

func TestLocalizedText_Resolve(t *testing.T) {
	name := LocalizedText{"tr": "Baklava", "de": " "}

	assert.Equal(t, "Baklava", name.Resolve("tr", nil, "BK-1"))
	assert.Equal(t, "Baklava", name.Resolve("de", []string{"en", "tr"}, "BK-1"))
	assert.Equal(t, "BK-1", name.Resolve("en", nil, "BK-1"))
}
