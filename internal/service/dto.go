package service

import (
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jafarshop/cartapi/internal/domain"
)

// CartLineView is one cart line joined with its catalog record
type CartLineView struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Title     string `json:"title,omitempty"`
	UnitPrice string `json:"unit_price"`
	Thumbnail string `json:"thumbnail,omitempty"`
	LineTotal string `json:"line_total"`
	Resolved  bool   `json:"resolved"`
}

// CartView is the rendered cart contents
type CartView struct {
	Items     []CartLineView `json:"items"`
	ItemCount int            `json:"item_count"`
}

// SummaryView is the rendered order summary
type SummaryView struct {
	Subtotal          string `json:"subtotal"`
	Discount          string `json:"discount"`
	DeliveryCharge    string `json:"delivery_charge"`
	Total             string `json:"total"`
	Currency          string `json:"currency"`
	DiscountCode      string `json:"discount_code,omitempty"`
	DiscountCodeState string `json:"discount_code_state"`
}

func newCartView(lines domain.CartLines, products map[int64]domain.Product) *CartView {
	items := make([]CartLineView, 0, len(lines))
	count := 0
	for id, qty := range lines {
		count += qty
		item := CartLineView{
			ProductID: id,
			Quantity:  qty,
			UnitPrice: decimal.Zero.StringFixed(2),
			LineTotal: decimal.Zero.StringFixed(2),
		}
		if p, ok := products[id]; ok {
			item.Title = p.Title
			item.Thumbnail = p.Thumbnail
			item.UnitPrice = p.Price.StringFixed(2)
			item.LineTotal = p.Price.Mul(decimal.NewFromInt(int64(qty))).StringFixed(2)
			item.Resolved = true
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	return &CartView{Items: items, ItemCount: count}
}

func newSummaryView(summary domain.OrderSummary, code string, unit currency.Unit) *SummaryView {
	return &SummaryView{
		Subtotal:          summary.Subtotal.StringFixed(2),
		Discount:          summary.Discount.StringFixed(2),
		DeliveryCharge:    summary.DeliveryCharge.StringFixed(2),
		Total:             summary.Total.StringFixed(2),
		Currency:          unit.String(),
		DiscountCode:      code,
		DiscountCodeState: string(summary.CodeState),
	}
}
