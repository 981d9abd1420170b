package sale

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawSale is a sale exactly as the marketplace reported it, before
// reconciliation. Monetary fields stay as strings so that a malformed value
// poisons only its own sale, not the whole page.
type RawSale struct {
	ExternalID    string
	BuyerRef      string
	GrossValue    string
	PlatformFee   string
	ShippingTotal string
	ApprovedAt    time.Time
	Observation   string
	Items         []RawItem
}

// RawItem is one order line inside a RawSale.
type RawItem struct {
	ProductRef   string
	CategoryCode string
	Quantity     int
	UnitPrice    string
}

// Page is one slice of the marketplace sales listing. An empty NextCursor
// means the listing is exhausted. Total is 0 when the source does not report
// an overall count.
type Page struct {
	Sales      []RawSale
	NextCursor string
	Total      int
}

// SaleRecord is the reconciled sale as persisted. It is only ever written by
// the upserter, keyed by ExternalID.
type SaleRecord struct {
	ExternalID    string
	BuyerRef      string
	GrossValue    decimal.Decimal
	PlatformFee   decimal.Decimal
	ShippingTotal decimal.Decimal
	ApprovedAt    time.Time
	Observation   string
}

// SaleItem is one reconciled order line. Position is the item's ordinal
// within the sale and, together with the sale, forms the persistence key.
type SaleItem struct {
	Position     int
	ProductRef   string
	CategoryCode string
	CategoryName string
	Quantity     int
	UnitPrice    decimal.Decimal
	Financials   FinancialBreakdown
}

// ParseAmount parses a marketplace monetary value. An empty or non-numeric
// value is reported as ErrInvalidAmount.
func ParseAmount(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// ParseOptionalAmount behaves like ParseAmount but maps an absent value to
// zero. Fees and shipping totals are routinely omitted by the source.
func ParseOptionalAmount(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	return ParseAmount(value)
}
