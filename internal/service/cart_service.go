package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/jafarshop/cartapi/internal/cart"
	"github.com/jafarshop/cartapi/internal/catalog"
	"github.com/jafarshop/cartapi/internal/domain"
	"github.com/jafarshop/cartapi/internal/kv"
	"github.com/jafarshop/cartapi/internal/pricing"
	"github.com/jafarshop/cartapi/pkg/errors"
)

const codeKeyPrefix = "discount:"

// CartService wires one explicit pipeline per request: hydrate the cart,
// resolve products for its IDs, derive the summary. Nothing is computed
// as a side effect of a mutation.
type CartService struct {
	store    kv.Store
	resolver *catalog.Resolver
	engine   *pricing.Engine
	currency currency.Unit
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store kv.Store, resolver *catalog.Resolver, engine *pricing.Engine, unit currency.Unit, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		store:    store,
		resolver: resolver,
		engine:   engine,
		currency: unit,
		logger:   logger,
	}
}

func (s *CartService) manager(ctx context.Context, ownerID string) *cart.Manager {
	m := cart.NewManager(s.store, ownerID, s.logger)
	m.Hydrate(ctx)
	return m
}

// AddItem adds one unit of productID to the owner's cart.
func (s *CartService) AddItem(ctx context.Context, ownerID string, productID int64) (domain.CartLines, error) {
	if productID <= 0 {
		return nil, &errors.ErrValidation{Message: "product_id must be positive"}
	}
	m := s.manager(ctx, ownerID)
	m.AddItem(ctx, productID)
	return m.Lines(), nil
}

// SetQuantity sets a line to exactly quantity; quantity <= 0 removes it.
func (s *CartService) SetQuantity(ctx context.Context, ownerID string, productID int64, quantity int) (domain.CartLines, error) {
	if productID <= 0 {
		return nil, &errors.ErrValidation{Message: "product_id must be positive"}
	}
	m := s.manager(ctx, ownerID)
	m.SetQuantity(ctx, productID, quantity)
	return m.Lines(), nil
}

// RemoveItem removes a line; absent lines are a no-op.
func (s *CartService) RemoveItem(ctx context.Context, ownerID string, productID int64) (domain.CartLines, error) {
	if productID <= 0 {
		return nil, &errors.ErrValidation{Message: "product_id must be positive"}
	}
	m := s.manager(ctx, ownerID)
	m.RemoveItem(ctx, productID)
	return m.Lines(), nil
}

// Clear empties the cart and its persisted record.
func (s *CartService) Clear(ctx context.Context, ownerID string) {
	m := s.manager(ctx, ownerID)
	m.Clear(ctx)
}

// SubmitCode records an explicitly submitted discount code and reports
// its validation state. An invalid code is recorded too: summaries keep
// reporting it as invalid with a zero discount until it is replaced or
// cleared. Submitting an empty code clears the state back to unset.
func (s *CartService) SubmitCode(ctx context.Context, ownerID, code string) domain.DiscountCodeState {
	normalized := pricing.NormalizeCode(code)
	if normalized == "" {
		s.ClearCode(ctx, ownerID)
		return domain.DiscountCodeUnset
	}

	if err := s.store.Set(ctx, codeKeyPrefix+ownerID, normalized); err != nil {
		s.logger.Warn("Failed to persist discount code",
			zap.String("owner_id", ownerID),
			zap.Error(err))
	}

	_, state := s.engine.LookupRule(normalized)
	return state
}

// ClearCode resets the discount state to unset, as when the shopper
// empties the code input.
func (s *CartService) ClearCode(ctx context.Context, ownerID string) {
	if err := s.store.Delete(ctx, codeKeyPrefix+ownerID); err != nil {
		s.logger.Warn("Failed to clear discount code",
			zap.String("owner_id", ownerID),
			zap.Error(err))
	}
}

func (s *CartService) submittedCode(ctx context.Context, ownerID string) string {
	code, ok, err := s.store.Get(ctx, codeKeyPrefix+ownerID)
	if err != nil {
		s.logger.Warn("Failed to read discount code",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return code
}

// View returns the cart lines joined with whatever product records
// resolved. Lines whose product is unknown are still listed, priced at
// zero and flagged unresolved.
func (s *CartService) View(ctx context.Context, ownerID string) *CartView {
	lines := s.manager(ctx, ownerID).Lines()
	products := s.resolver.Resolve(ctx, lines.ProductIDs())
	return newCartView(lines, products)
}

// Summary recomputes the full order summary for the owner's current
// cart, resolved products and submitted code.
func (s *CartService) Summary(ctx context.Context, ownerID string) *SummaryView {
	lines := s.manager(ctx, ownerID).Lines()
	code := s.submittedCode(ctx, ownerID)
	products := s.resolver.Resolve(ctx, lines.ProductIDs())

	summary := s.engine.PriceOrder(lines, products, code)
	return newSummaryView(summary, code, s.currency)
}
