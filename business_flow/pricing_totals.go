package businessflow

import (
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/shopspring/decimal"
)

// TotalsLine is a priced line as seen by the totals aggregator
type TotalsLine struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total is the rounded line total
func (l TotalsLine) Total() decimal.Decimal {
	return utils.RoundMoney(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

type Totals struct {
	Net     decimal.Decimal
	VATRate decimal.Decimal
	VAT     decimal.Decimal
	Gross   decimal.Decimal
}

// ComputeTotals rounds each line before summing, rounds VAT once and derives
// gross as net + vat so the three always reconcile.
func ComputeTotals(lines []TotalsLine, vatRatePct decimal.Decimal) Totals {
	net := decimal.Zero
	for _, l := range lines {
		net = net.Add(l.Total())
	}
	vat := utils.RoundMoney(utils.PercentOf(net, vatRatePct))
	return Totals{
		Net:     net,
		VATRate: vatRatePct,
		VAT:     vat,
		Gross:   net.Add(vat),
	}
}
