package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jafarshop/cartapi/internal/domain"
)

// selectFields is the field projection requested from the catalog
// service; the pricing core needs nothing beyond these.
const selectFields = "title,price,id,thumbnail"

// Client calls the catalog service for product records
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a catalog HTTP client
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type productRecord struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Thumbnail string          `json:"thumbnail"`
}

type productsResponse struct {
	Products []productRecord `json:"products"`
	Total    int             `json:"total"`
}

// ListProducts fetches the product listing with the core's field
// projection. If the catalog service is down, returns (nil, error);
// callers are expected to keep pricing over whatever they already have.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("catalog client not configured: base URL required")
	}
	u, err := url.Parse(c.baseURL + "/products")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("select", selectFields)
	q.Set("limit", "0")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Catalog request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	products := make([]domain.Product, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		products = append(products, domain.Product{
			ID:        p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Thumbnail: p.Thumbnail,
		})
	}
	return products, nil
}
