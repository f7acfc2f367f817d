package main

import (
	"fmt"
	"sort"

	"github.com/jafarshop/cartapi/internal/domain"
	"github.com/jafarshop/cartapi/internal/pricing"
)

// list-discounts prints the compiled-in discount rule table.
func main() {
	rules := pricing.DefaultRules()
	sort.Slice(rules, func(i, j int) bool { return rules[i].Code < rules[j].Code })

	fmt.Println("Discount codes:")
	for _, r := range rules {
		switch r.Kind {
		case domain.DiscountKindPercentage:
			fmt.Printf("  %-10s %s%% off the subtotal\n", r.Code, r.Amount.String())
		case domain.DiscountKindFlat:
			fmt.Printf("  %-10s %s off, capped at the subtotal\n", r.Code, r.Amount.String())
		}
	}
}
