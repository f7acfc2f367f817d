package service_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/jafarshop/cartapi/internal/catalog"
	"github.com/jafarshop/cartapi/internal/config"
	"github.com/jafarshop/cartapi/internal/domain"
	"github.com/jafarshop/cartapi/internal/kv"
	"github.com/jafarshop/cartapi/internal/pricing"
	"github.com/jafarshop/cartapi/internal/service"
	apierrors "github.com/jafarshop/cartapi/pkg/errors"
)

const catalogBody = `{"products":[
	{"id":42,"title":"Essence Mascara","price":20.00,"thumbnail":"https://cdn.example/42.jpg"},
	{"id":7,"title":"Chanel Coco","price":120.00,"thumbnail":"https://cdn.example/7.jpg"}
],"total":2}`

func newTestService(t *testing.T, catalogURL string) *service.CartService {
	t.Helper()

	cfg := config.PricingConfig{
		FreeDeliveryThreshold: decimal.NewFromInt(75),
		DeliveryFee:           decimal.NewFromInt(50),
		Currency:              currency.USD,
	}
	engine := pricing.NewEngine(pricing.DefaultRules(), cfg, nil)
	resolver := catalog.NewResolver(catalog.NewClient(catalogURL, nil), nil)

	return service.NewCartService(kv.NewMemory(), resolver, engine, currency.USD, nil)
}

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, catalogBody)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSummaryWithDiscount(t *testing.T) {
	server := newCatalogServer(t)
	svc := newTestService(t, server.URL)
	ctx := t.Context()
	owner := gofakeit.UUID()

	_, err := svc.AddItem(ctx, owner, 42)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, owner, 42)
	require.NoError(t, err)

	state := svc.SubmitCode(ctx, owner, "off20")
	assert.Equal(t, domain.DiscountCodeValid, state)

	summary := svc.Summary(ctx, owner)
	assert.Equal(t, "40.00", summary.Subtotal)
	assert.Equal(t, "8.00", summary.Discount)
	assert.Equal(t, "50.00", summary.DeliveryCharge)
	assert.Equal(t, "82.00", summary.Total)
	assert.Equal(t, "OFF20", summary.DiscountCode)
	assert.Equal(t, "VALID", summary.DiscountCodeState)
	assert.Equal(t, "USD", summary.Currency)
}

func TestSummaryInvalidCodeSticksUntilCleared(t *testing.T) {
	server := newCatalogServer(t)
	svc := newTestService(t, server.URL)
	ctx := t.Context()
	owner := gofakeit.UUID()

	_, err := svc.AddItem(ctx, owner, 42)
	require.NoError(t, err)

	state := svc.SubmitCode(ctx, owner, "BOGUS")
	assert.Equal(t, domain.DiscountCodeInvalid, state)

	summary := svc.Summary(ctx, owner)
	assert.Equal(t, "INVALID", summary.DiscountCodeState)
	assert.Equal(t, "0.00", summary.Discount)
	assert.Equal(t, "20.00", summary.Subtotal)

	svc.ClearCode(ctx, owner)
	summary = svc.Summary(ctx, owner)
	assert.Equal(t, "UNSET", summary.DiscountCodeState)
	assert.Empty(t, summary.DiscountCode)
}

func TestSubmitEmptyCodeResetsToUnset(t *testing.T) {
	server := newCatalogServer(t)
	svc := newTestService(t, server.URL)
	ctx := t.Context()
	owner := gofakeit.UUID()

	svc.SubmitCode(ctx, owner, "OFF20")
	state := svc.SubmitCode(ctx, owner, "   ")
	assert.Equal(t, domain.DiscountCodeUnset, state)

	summary := svc.Summary(ctx, owner)
	assert.Equal(t, "UNSET", summary.DiscountCodeState)
}

func TestSummaryCatalogDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	svc := newTestService(t, server.URL)
	ctx := t.Context()
	owner := gofakeit.UUID()

	_, err := svc.AddItem(ctx, owner, 42)
	require.NoError(t, err)

	// unresolved lines price at zero; the summary still renders
	summary := svc.Summary(ctx, owner)
	assert.Equal(t, "0.00", summary.Subtotal)
	assert.Equal(t, "50.00", summary.DeliveryCharge)
	assert.Equal(t, "50.00", summary.Total)
}

func TestViewListsUnresolvedLines(t *testing.T) {
	server := newCatalogServer(t)
	svc := newTestService(t, server.URL)
	ctx := t.Context()
	owner := gofakeit.UUID()

	_, err := svc.AddItem(ctx, owner, 42)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, owner, 999999)
	require.NoError(t, err)

	view := svc.View(ctx, owner)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 2, view.ItemCount)

	assert.True(t, view.Items[0].Resolved)
	assert.Equal(t, "Essence Mascara", view.Items[0].Title)
	assert.Equal(t, "20.00", view.Items[0].LineTotal)

	assert.False(t, view.Items[1].Resolved)
	assert.Equal(t, "0.00", view.Items[1].LineTotal)
}

func TestInvalidProductID(t *testing.T) {
	server := newCatalogServer(t)
	svc := newTestService(t, server.URL)
	ctx := t.Context()
	owner := gofakeit.UUID()

	_, err := svc.AddItem(ctx, owner, 0)
	var verr *apierrors.ErrValidation
	require.ErrorAs(t, err, &verr)

	_, err = svc.SetQuantity(ctx, owner, -1, 2)
	require.ErrorAs(t, err, &verr)
}

func TestCartsAreSessionScoped(t *testing.T) {
	server := newCatalogServer(t)
	svc := newTestService(t, server.URL)
	ctx := t.Context()

	alice := gofakeit.UUID()
	bob := gofakeit.UUID()

	_, err := svc.AddItem(ctx, alice, 42)
	require.NoError(t, err)

	view := svc.View(ctx, bob)
	assert.Empty(t, view.Items)
}
