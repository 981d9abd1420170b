package sale

import "github.com/shopspring/decimal"

// discountEpsilon guards the expected-vs-actual fee comparison against
// sub-cent float residue coming from the source payload.
var discountEpsilon = decimal.NewFromFloat(0.01)

// FinancialBreakdown carries the derived financial fields of a sale, computed
// once at import time and embedded in each of its items.
type FinancialBreakdown struct {
	ExpectedFee decimal.Decimal
	ActualFee   decimal.Decimal
	Discount    decimal.Decimal
	HasShipping bool
}

// ComputeBreakdown derives the expected platform fee from the standard fee
// rate, the discount the marketplace granted relative to it, and whether the
// sale carried shipping. Values are computed at two decimal places.
//
// A negative gross value is rejected with ErrInvalidAmount; everything else
// is a plain computation that cannot fail.
func ComputeBreakdown(gross, actualFee, shippingTotal, feeRate decimal.Decimal) (FinancialBreakdown, error) {
	if gross.IsNegative() {
		return FinancialBreakdown{}, ErrInvalidAmount
	}

	expected := gross.Mul(feeRate).Round(2)
	actual := actualFee.Round(2)

	discount := expected.Sub(actual)
	if discount.LessThan(discountEpsilon) {
		discount = decimal.Zero
	}

	return FinancialBreakdown{
		ExpectedFee: expected,
		ActualFee:   actual,
		Discount:    discount,
		HasShipping: shippingTotal.IsPositive(),
	}, nil
}
