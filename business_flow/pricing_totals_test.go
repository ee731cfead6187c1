package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_ThreeLineScenario(t *testing.T) {
	totals := ComputeTotals([]TotalsLine{
		{UnitPrice: dec("9.45"), Quantity: 2},
		{UnitPrice: dec("20.00"), Quantity: 1},
		{UnitPrice: dec("5.00"), Quantity: 4},
	}, dec("7"))

	assert.Equal(t, "58.90", totals.Net.StringFixed(2))
	assert.Equal(t, "4.12", totals.VAT.StringFixed(2))
	assert.Equal(t, "63.02", totals.Gross.StringFixed(2))
	assert.Equal(t, "7", totals.VATRate.String())
}

func TestComputeTotals_LineLevelRounding(t *testing.T) {
	// 3 x 0.335 = 1.005 -> 1.01 per line; aggregate rounding would give 2.01
	totals := ComputeTotals([]TotalsLine{
		{UnitPrice: dec("0.335"), Quantity: 3},
		{UnitPrice: dec("0.335"), Quantity: 3},
	}, dec("0"))

	assert.Equal(t, "2.02", totals.Net.StringFixed(2))
	assert.True(t, totals.VAT.IsZero())
}

func TestComputeTotals_GrossReconciles(t *testing.T) {
	rates := []string{"0", "1", "7", "8", "18", "19", "20"}
	prices := []string{"0.01", "0.99", "1.115", "13.37", "149.95", "999.99"}

	for _, rate := range rates {
		for i, p := range prices {
			lines := []TotalsLine{
				{UnitPrice: dec(p), Quantity: i + 1},
				{UnitPrice: dec(prices[len(prices)-1-i]), Quantity: 2*i + 1},
			}
			totals := ComputeTotals(lines, dec(rate))
			assert.True(t, totals.Net.Add(totals.VAT).Equal(totals.Gross), "rate %s price %s", rate, p)
			assert.True(t, totals.VAT.Equal(totals.VAT.Round(2)))
		}
	}
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil, dec("7"))
	assert.True(t, totals.Net.IsZero())
	assert.True(t, totals.VAT.IsZero())
	assert.True(t, totals.Gross.IsZero())
}
