package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jafarshop/cartapi/internal/domain"
)

// DefaultRules is the compiled-in discount table. It is not user
// editable and is loaded once per process.
func DefaultRules() []domain.DiscountRule {
	return []domain.DiscountRule{
		{Code: "FIRSTME", Kind: domain.DiscountKindPercentage, Amount: decimal.NewFromInt(50)},
		{Code: "OFF20", Kind: domain.DiscountKindPercentage, Amount: decimal.NewFromInt(20)},
		{Code: "HBD26", Kind: domain.DiscountKindFlat, Amount: decimal.NewFromInt(200)},
	}
}
