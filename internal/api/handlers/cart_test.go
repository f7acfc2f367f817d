package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/jafarshop/cartapi/internal/api"
	"github.com/jafarshop/cartapi/internal/api/middleware"
	"github.com/jafarshop/cartapi/internal/catalog"
	"github.com/jafarshop/cartapi/internal/config"
	"github.com/jafarshop/cartapi/internal/kv"
	"github.com/jafarshop/cartapi/internal/pricing"
	"github.com/jafarshop/cartapi/internal/service"
)

const catalogBody = `{"products":[
	{"id":42,"title":"Essence Mascara","price":20.00,"thumbnail":"https://cdn.example/42.jpg"},
	{"id":7,"title":"Chanel Coco","price":120.00,"thumbnail":"https://cdn.example/7.jpg"}
],"total":2}`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, catalogBody)
	}))
	t.Cleanup(catalogServer.Close)

	cfg := &config.Config{
		Environment: "test",
		Pricing: config.PricingConfig{
			FreeDeliveryThreshold: decimal.NewFromInt(75),
			DeliveryFee:           decimal.NewFromInt(50),
			Currency:              currency.USD,
		},
	}

	logger := zap.NewNop()
	engine := pricing.NewEngine(pricing.DefaultRules(), cfg.Pricing, logger)
	resolver := catalog.NewResolver(catalog.NewClient(catalogServer.URL, logger), logger)
	svc := service.NewCartService(kv.NewMemory(), resolver, engine, cfg.Pricing.Currency, logger)

	return api.NewRouter(cfg, svc, engine, logger)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, sessionID, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	parsed := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed), "body: %s", w.Body.String())
	}
	return w, parsed
}

func TestCartFlow(t *testing.T) {
	router := newTestRouter(t)
	session := gofakeit.UUID()

	// add two units of product 42
	w, body := doJSON(t, router, http.MethodPost, "/v1/cart/items", session, `{"product_id":42}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["quantity"])

	w, body = doJSON(t, router, http.MethodPost, "/v1/cart/items", session, `{"product_id":42}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["quantity"])

	// summary without a code: subtotal 40, delivery 50
	w, body = doJSON(t, router, http.MethodGet, "/v1/cart/summary", session, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "40.00", body["subtotal"])
	assert.Equal(t, "0.00", body["discount"])
	assert.Equal(t, "50.00", body["delivery_charge"])
	assert.Equal(t, "90.00", body["total"])
	assert.Equal(t, "UNSET", body["discount_code_state"])

	// apply a percentage code
	w, body = doJSON(t, router, http.MethodPost, "/v1/cart/discount", session, `{"code":"OFF20"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "VALID", body["discount_code_state"])

	w, body = doJSON(t, router, http.MethodGet, "/v1/cart/summary", session, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "8.00", body["discount"])
	assert.Equal(t, "82.00", body["total"])

	// clear the cart
	w, _ = doJSON(t, router, http.MethodDelete, "/v1/cart", session, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w, body = doJSON(t, router, http.MethodGet, "/v1/cart", session, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["item_count"])
}

func TestSetQuantityEndpoint(t *testing.T) {
	router := newTestRouter(t)
	session := gofakeit.UUID()

	doJSON(t, router, http.MethodPost, "/v1/cart/items", session, `{"product_id":42}`)

	w, body := doJSON(t, router, http.MethodPut, "/v1/cart/items/42", session, `{"quantity":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), body["quantity"])
	assert.Equal(t, false, body["removed"])

	// quantity zero removes the line
	w, body = doJSON(t, router, http.MethodPut, "/v1/cart/items/42", session, `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["removed"])

	w, body = doJSON(t, router, http.MethodGet, "/v1/cart", session, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["item_count"])
}

func TestRemoveItemEndpoint(t *testing.T) {
	router := newTestRouter(t)
	session := gofakeit.UUID()

	doJSON(t, router, http.MethodPost, "/v1/cart/items", session, `{"product_id":42}`)

	w, _ := doJSON(t, router, http.MethodDelete, "/v1/cart/items/42", session, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	// removing an absent line is still a 204
	w, _ = doJSON(t, router, http.MethodDelete, "/v1/cart/items/42", session, "")
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestValidationErrors(t *testing.T) {
	router := newTestRouter(t)
	session := gofakeit.UUID()

	w, _ := doJSON(t, router, http.MethodPost, "/v1/cart/items", session, `{"product_id":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/v1/cart/items", session, `not json`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/v1/cart/items/abc", session, `{"quantity":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/v1/cart/items/42", session, `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDiscountStateEndpoints(t *testing.T) {
	router := newTestRouter(t)
	session := gofakeit.UUID()

	w, body := doJSON(t, router, http.MethodPost, "/v1/cart/discount", session, `{"code":"BOGUS"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "INVALID", body["discount_code_state"])

	w, body = doJSON(t, router, http.MethodDelete, "/v1/cart/discount", session, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UNSET", body["discount_code_state"])
}

func TestSessionIsolation(t *testing.T) {
	router := newTestRouter(t)

	alice := gofakeit.UUID()
	bob := gofakeit.UUID()

	doJSON(t, router, http.MethodPost, "/v1/cart/items", alice, `{"product_id":42}`)

	_, body := doJSON(t, router, http.MethodGet, "/v1/cart", bob, "")
	assert.Equal(t, float64(0), body["item_count"])
}

func TestSessionCookieIssued(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "a fresh session cookie must be issued")
}

func TestListDiscounts(t *testing.T) {
	router := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/v1/discounts", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["count"])

	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	first, ok := data[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "FIRSTME", first["code"])
}
