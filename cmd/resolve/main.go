package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/dermalens/backend/config"
	"github.com/dermalens/backend/models"
	"github.com/dermalens/backend/pipeline"
	"github.com/dermalens/backend/rembg"
	"github.com/dermalens/backend/scrapers/imagesearch"
	"github.com/dermalens/backend/scrapers/lookfantastic"
	"github.com/dermalens/backend/store"
)

// Manual pipeline driver: resolves an image for a single product from the
// command line, exercising the same tiers the API uses.
func main() {
	name := flag.String("name", "CeraVe Foaming Facial Cleanser", "product name")
	brand := flag.String("brand", "CeraVe", "brand")
	category := flag.String("category", "cleanser", "product category")
	sourceURL := flag.String("url", "", "optional direct image or product URL")
	workers := flag.Int("workers", 1, "concurrent resolutions")
	flag.Parse()

	config.LoadConfig()

	retailer := lookfantastic.New()
	retailer.Fetcher.BrowserFetch = config.BrowserFetch

	breaker := rembg.NewBreaker()
	bgClient := rembg.NewClient(config.RembgServiceURL, breaker)

	resolver := pipeline.NewResolver(retailer, imagesearch.New(), bgClient, store.NewImageStore(config.ProductImageDir))
	resolver.Workers = *workers

	products := []models.RecommendedProduct{{
		Name:      *name,
		Brand:     *brand,
		Category:  *category,
		SourceURL: *sourceURL,
	}}

	resolved, stats := resolver.ResolveAll(context.Background(), products)

	b, _ := json.MarshalIndent(resolved, "", "  ")
	fmt.Printf("Resolved: %s\n", string(b))
	fmt.Printf("Stats: attempted=%d resolved=%d dropped=%d background_removed=%d\n",
		stats.Attempted, stats.Resolved, stats.Dropped, stats.BackgroundRemoved)

	if stats.Resolved == 0 {
		log.Println("No image could be resolved for the product")
	}
}
