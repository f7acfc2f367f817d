package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/cartapi/internal/pricing"
)

// HandleListDiscounts handles GET /v1/discounts (the static rule table,
// for the storefront's "discounts available" panel)
func HandleListDiscounts(engine *pricing.Engine, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rules := engine.Rules()
		sort.Slice(rules, func(i, j int) bool { return rules[i].Code < rules[j].Code })

		items := make([]gin.H, 0, len(rules))
		for _, r := range rules {
			items = append(items, gin.H{
				"code":   r.Code,
				"kind":   r.Kind,
				"amount": r.Amount.String(),
			})
		}
		c.JSON(http.StatusOK, gin.H{"data": items, "count": len(items)})
	}
}
