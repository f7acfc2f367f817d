package domain

import (
	"github.com/shopspring/decimal"
)

// DiscountKind is the reduction strategy of a discount rule
type DiscountKind string

const (
	// PERCENTAGE - discount is a percentage of the subtotal
	DiscountKindPercentage DiscountKind = "PERCENTAGE"
	// FLAT - discount is a fixed amount, capped at the subtotal
	DiscountKindFlat DiscountKind = "FLAT"
)

// IsValid checks if the discount kind is valid
func (k DiscountKind) IsValid() bool {
	switch k {
	case DiscountKindPercentage, DiscountKindFlat:
		return true
	default:
		return false
	}
}

// DiscountRule maps a code to a reduction. The rule set is a static,
// process-wide table loaded once and never mutated.
type DiscountRule struct {
	Code   string
	Kind   DiscountKind
	Amount decimal.Decimal
}

// DiscountCodeState reflects the last submitted discount code
type DiscountCodeState string

const (
	// UNSET - no code submitted, or the input was cleared. Not an error.
	DiscountCodeUnset DiscountCodeState = "UNSET"
	// VALID - the submitted code matched a rule
	DiscountCodeValid DiscountCodeState = "VALID"
	// INVALID - the submitted code matched no rule
	DiscountCodeInvalid DiscountCodeState = "INVALID"
)
