package marketplace

import (
	"encoding/json"
	"time"

	"github.com/ftsampaio/sales-import/internal/domain/sale"
)

// Wire types for the marketplace orders endpoint. Amounts decode as
// json.Number and travel onward as strings; the domain layer decides what a
// malformed amount costs.

type pageEnvelope struct {
	Results []orderDTO `json:"results"`
	Paging  pagingDTO  `json:"paging"`
}

type pagingDTO struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type orderDTO struct {
	ID           json.Number    `json:"id"`
	Buyer        buyerDTO       `json:"buyer"`
	TotalAmount  json.Number    `json:"total_amount"`
	SaleFee      json.Number    `json:"sale_fee"`
	Shipping     shippingDTO    `json:"shipping"`
	DateApproved string         `json:"date_approved"`
	Comments     string         `json:"comments"`
	OrderItems   []orderItemDTO `json:"order_items"`
}

type buyerDTO struct {
	Nickname string `json:"nickname"`
}

type shippingDTO struct {
	Cost json.Number `json:"cost"`
}

type orderItemDTO struct {
	Item      itemDTO     `json:"item"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unit_price"`
}

type itemDTO struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
}

func (d orderDTO) toDomain() sale.RawSale {
	items := make([]sale.RawItem, 0, len(d.OrderItems))
	for _, orderItem := range d.OrderItems {
		items = append(items, sale.RawItem{
			ProductRef:   orderItem.Item.ID,
			CategoryCode: orderItem.Item.CategoryID,
			Quantity:     orderItem.Quantity,
			UnitPrice:    orderItem.UnitPrice.String(),
		})
	}

	// A missing or malformed approval date is tolerated; the sale is still
	// importable and the zero time marks the gap.
	approvedAt, err := time.Parse(time.RFC3339, d.DateApproved)
	if err != nil {
		approvedAt = time.Time{}
	}

	return sale.RawSale{
		ExternalID:    d.ID.String(),
		BuyerRef:      d.Buyer.Nickname,
		GrossValue:    d.TotalAmount.String(),
		PlatformFee:   d.SaleFee.String(),
		ShippingTotal: d.Shipping.Cost.String(),
		ApprovedAt:    approvedAt,
		Observation:   d.Comments,
		Items:         items,
	}
}
