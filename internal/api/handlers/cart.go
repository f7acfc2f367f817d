package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/cartapi/internal/api/middleware"
	"github.com/jafarshop/cartapi/internal/domain"
	"github.com/jafarshop/cartapi/internal/service"
	"github.com/jafarshop/cartapi/pkg/errors"
)

// AddItemRequest is the add-to-cart payload
type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
}

// SetQuantityRequest is the set-quantity payload. Quantity may be zero
// or negative; that removes the line.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// SubmitCodeRequest is the discount code submission payload
type SubmitCodeRequest struct {
	Code string `json:"code"`
}

// respondError maps typed service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": e.Error()})
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(svc *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing session"})
			return
		}

		c.JSON(http.StatusOK, svc.View(c.Request.Context(), sessionID))
	}
}

// HandleAddItem handles POST /v1/cart/items
func HandleAddItem(svc *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing session"})
			return
		}

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		lines, err := svc.AddItem(c.Request.Context(), sessionID, req.ProductID)
		if err != nil {
			respondError(c, err)
			return
		}
		logger.Info("Added item to cart",
			zap.String("session_id", sessionID),
			zap.Int64("product_id", req.ProductID),
			zap.Int("quantity", lines[req.ProductID]))

		c.JSON(http.StatusOK, gin.H{
			"product_id": req.ProductID,
			"quantity":   lines[req.ProductID],
		})
	}
}

// HandleSetQuantity handles PUT /v1/cart/items/:id
func HandleSetQuantity(svc *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing session"})
			return
		}

		productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid product id"})
			return
		}

		var req SetQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		lines, err := svc.SetQuantity(c.Request.Context(), sessionID, productID, *req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		qty, present := lines[productID]
		logger.Info("Set cart quantity",
			zap.String("session_id", sessionID),
			zap.Int64("product_id", productID),
			zap.Int("quantity", qty),
			zap.Bool("removed", !present))

		c.JSON(http.StatusOK, gin.H{
			"product_id": productID,
			"quantity":   qty,
			"removed":    !present,
		})
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:id
func HandleRemoveItem(svc *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing session"})
			return
		}

		productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid product id"})
			return
		}

		if _, err := svc.RemoveItem(c.Request.Context(), sessionID, productID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(svc *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing session"})
			return
		}

		svc.Clear(c.Request.Context(), sessionID)
		logger.Info("Cleared cart", zap.String("session_id", sessionID))
		c.Status(http.StatusNoContent)
	}
}

// HandleSubmitCode handles POST /v1/cart/discount. Submission is
// edge-triggered: the shopper confirms a code explicitly, the UI does
// not submit per keystroke. An empty code resets the state to unset.
func HandleSubmitCode(svc *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing session"})
			return
		}

		var req SubmitCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		state := svc.SubmitCode(c.Request.Context(), sessionID, req.Code)
		logger.Info("Discount code submitted",
			zap.String("session_id", sessionID),
			zap.String("state", string(state)))

		c.JSON(http.StatusOK, gin.H{"discount_code_state": string(state)})
	}
}

// HandleClearCode handles DELETE /v1/cart/discount
func HandleClearCode(svc *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing session"})
			return
		}

		svc.ClearCode(c.Request.Context(), sessionID)
		c.JSON(http.StatusOK, gin.H{"discount_code_state": string(domain.DiscountCodeUnset)})
	}
}

// HandleGetSummary handles GET /v1/cart/summary
func HandleGetSummary(svc *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing session"})
			return
		}

		c.JSON(http.StatusOK, svc.Summary(c.Request.Context(), sessionID))
	}
}
