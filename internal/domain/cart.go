package domain

import (
	"github.com/shopspring/decimal"
)

// CartLines maps a product ID to the desired quantity. A product appears
// at most once; no entry may hold a quantity <= 0 (such entries are
// removed, never stored).
type CartLines map[int64]int

// Clone returns an independent copy of the mapping.
func (c CartLines) Clone() CartLines {
	out := make(CartLines, len(c))
	for id, qty := range c {
		out[id] = qty
	}
	return out
}

// ProductIDs returns the set of referenced product IDs.
func (c CartLines) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	return ids
}

// Product is a catalog record. Owned by the catalog service; treated as
// read-only here.
type Product struct {
	ID        int64
	Title     string
	Price     decimal.Decimal
	Thumbnail string
}

// OrderSummary is the derived pricing result for a cart. It is never
// stored; it is recomputed in full whenever the cart lines, the resolved
// products or the submitted discount code change.
type OrderSummary struct {
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	DeliveryCharge decimal.Decimal
	Total          decimal.Decimal
	CodeState      DiscountCodeState
}
