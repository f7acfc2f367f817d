package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/cartapi/internal/catalog"
	"github.com/jafarshop/cartapi/internal/config"
	"github.com/jafarshop/cartapi/internal/domain"
	"github.com/jafarshop/cartapi/internal/pricing"
)

// price-cart prices a cart snapshot offline: reads the persisted cart
// JSON layout (stringified product id -> quantity) from a file, resolves
// products against the configured catalog, and prints the summary.
//
//	go run ./cmd/price-cart -cart cart.json -code OFF20
func main() {
	cartPath := flag.String("cart", "", "path to a cart JSON file ({\"42\": 2})")
	code := flag.String("code", "", "discount code to apply")
	flag.Parse()

	if *cartPath == "" {
		fmt.Fprintln(os.Stderr, "usage: price-cart -cart <file> [-code <code>]")
		os.Exit(1)
	}

	// .env is optional, same as the server
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	raw, err := os.ReadFile(*cartPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read cart file: %v\n", err)
		os.Exit(1)
	}

	var persisted map[string]int
	if err := json.Unmarshal(raw, &persisted); err != nil {
		fmt.Fprintf(os.Stderr, "Cart file is not valid JSON: %v\n", err)
		os.Exit(1)
	}

	lines := make(domain.CartLines, len(persisted))
	for key, qty := range persisted {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || qty <= 0 {
			continue
		}
		lines[id] = qty
	}

	ctx := context.Background()
	client := catalog.NewClient(cfg.Catalog.BaseURL, logger)
	resolver := catalog.NewResolver(client, logger)
	products := resolver.Resolve(ctx, lines.ProductIDs())

	engine := pricing.NewEngine(pricing.DefaultRules(), cfg.Pricing, logger)
	summary := engine.PriceOrder(lines, products, *code)

	fmt.Printf("Lines:      %d (%d resolved)\n", len(lines), len(products))
	fmt.Printf("Subtotal:   %s %s\n", summary.Subtotal.StringFixed(2), cfg.Pricing.Currency)
	fmt.Printf("Discount:   %s (%s)\n", summary.Discount.StringFixed(2), summary.CodeState)
	fmt.Printf("Delivery:   %s\n", summary.DeliveryCharge.StringFixed(2))
	fmt.Printf("Total:      %s %s\n", summary.Total.StringFixed(2), cfg.Pricing.Currency)
}
