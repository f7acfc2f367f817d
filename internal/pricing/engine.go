package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jafarshop/cartapi/internal/config"
	"github.com/jafarshop/cartapi/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// Engine derives an order summary from cart lines, resolved products and
// a submitted discount code. Pricing is a pure function of its inputs:
// the summary is recomputed in full on every call, never patched
// incrementally, so the discount cap and the delivery threshold always
// see the same freshly computed subtotal.
type Engine struct {
	rules     map[string]domain.DiscountRule
	threshold decimal.Decimal
	fee       decimal.Decimal
	logger    *zap.Logger
}

// NewEngine creates an engine with the given rule table and delivery
// policy. Rule codes are normalized once at construction.
func NewEngine(rules []domain.DiscountRule, cfg config.PricingConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	table := make(map[string]domain.DiscountRule, len(rules))
	for _, r := range rules {
		table[NormalizeCode(r.Code)] = r
	}
	return &Engine{
		rules:     table,
		threshold: cfg.FreeDeliveryThreshold,
		fee:       cfg.DeliveryFee,
		logger:    logger,
	}
}

// NormalizeCode trims and upper-cases a submitted discount code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Rules returns the rule table entries.
func (e *Engine) Rules() []domain.DiscountRule {
	out := make([]domain.DiscountRule, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, r)
	}
	return out
}

// LookupRule resolves a submitted code against the static table. An
// unrecognized code is a normal outcome, not an error.
func (e *Engine) LookupRule(code string) (domain.DiscountRule, domain.DiscountCodeState) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return domain.DiscountRule{}, domain.DiscountCodeUnset
	}
	rule, ok := e.rules[normalized]
	if !ok {
		return domain.DiscountRule{}, domain.DiscountCodeInvalid
	}
	return rule, domain.DiscountCodeValid
}

// PriceOrder computes the order summary for the given inputs. Lines
// whose product is missing from products contribute zero to the
// subtotal; an empty product set prices every line at zero.
func (e *Engine) PriceOrder(lines domain.CartLines, products map[int64]domain.Product, code string) domain.OrderSummary {
	subtotal := e.subtotal(lines, products)
	discount, state := e.discount(subtotal, code)
	delivery := e.deliveryCharge(subtotal)

	total := subtotal.Sub(discount).Add(delivery)
	if total.IsNegative() {
		// the total must never go negative; the flat-discount cap keeps
		// this branch unreachable
		e.logger.Error("Computed negative order total, clamping to zero",
			zap.String("subtotal", subtotal.String()),
			zap.String("discount", discount.String()),
			zap.String("delivery", delivery.String()))
		total = decimal.Zero
	}

	return domain.OrderSummary{
		Subtotal:       subtotal,
		Discount:       discount,
		DeliveryCharge: delivery,
		Total:          total,
		CodeState:      state,
	}
}

func (e *Engine) subtotal(lines domain.CartLines, products map[int64]domain.Product) decimal.Decimal {
	subtotal := decimal.Zero
	for id, qty := range lines {
		product, ok := products[id]
		if !ok {
			// catalog miss: the line contributes nothing
			continue
		}
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return subtotal
}

func (e *Engine) discount(subtotal decimal.Decimal, code string) (decimal.Decimal, domain.DiscountCodeState) {
	rule, state := e.LookupRule(code)
	if state != domain.DiscountCodeValid {
		return decimal.Zero, state
	}

	switch rule.Kind {
	case domain.DiscountKindPercentage:
		return subtotal.Mul(rule.Amount).Div(oneHundred), state
	case domain.DiscountKindFlat:
		// cap at the subtotal so the discount can never push the total negative
		if rule.Amount.GreaterThan(subtotal) {
			return subtotal, state
		}
		return rule.Amount, state
	default:
		return decimal.Zero, state
	}
}

// deliveryCharge is a step function with a single breakpoint: free
// strictly above the threshold, the flat fee at or below it.
func (e *Engine) deliveryCharge(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(e.threshold) {
		return decimal.Zero
	}
	return e.fee
}
