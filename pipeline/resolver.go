// Package pipeline drives product image resolution: candidate discovery
// through the fallback tiers, background removal, persistence, and the
// drop policy for products no image could be secured for.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dermalens/backend/models"
	"github.com/dermalens/backend/rembg"
	"github.com/dermalens/backend/scrapers"
	"github.com/dermalens/backend/store"
	"github.com/google/uuid"
)

// Stats counts per-batch outcomes for observability.
type Stats struct {
	Attempted         int `json:"attempted"`
	Resolved          int `json:"resolved"`
	Dropped           int `json:"dropped"`
	BackgroundRemoved int `json:"background_removed"`
}

// Resolver turns recommended products into resolved ones. Products that
// fail every tier are dropped from the output, never emitted with a broken
// image reference.
type Resolver struct {
	Retailer    scrapers.ImageSource
	ImageSearch scrapers.ImageSource
	Rembg       *rembg.Client
	Store       *store.ImageStore
	HTTPClient  *http.Client

	// Workers bounds concurrent resolutions. 1 (the default) processes
	// products strictly in input order; the rembg breaker is safe for
	// higher values.
	Workers int
}

func NewResolver(retailer, search scrapers.ImageSource, bg *rembg.Client, st *store.ImageStore) *Resolver {
	return &Resolver{
		Retailer:    retailer,
		ImageSearch: search,
		Rembg:       bg,
		Store:       st,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Workers:     1,
	}
}

// ResolveAll resolves a batch, preserving input order in the output.
func (r *Resolver) ResolveAll(ctx context.Context, products []models.RecommendedProduct) ([]models.ResolvedProduct, Stats) {
	stats := Stats{Attempted: len(products)}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]*models.ResolvedProduct, len(products))

	if workers == 1 {
		for i, p := range products {
			if resolved, ok := r.resolveOne(ctx, p, &stats); ok {
				results[i] = &resolved
			}
		}
	} else {
		var wg sync.WaitGroup
		var mu sync.Mutex
		semaphore := make(chan struct{}, workers)

		for i, p := range products {
			wg.Add(1)
			go func(i int, p models.RecommendedProduct) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				localStats := Stats{}
				resolved, ok := r.resolveOne(ctx, p, &localStats)

				mu.Lock()
				stats.BackgroundRemoved += localStats.BackgroundRemoved
				if ok {
					results[i] = &resolved
				}
				mu.Unlock()
			}(i, p)
		}
		wg.Wait()
	}

	var out []models.ResolvedProduct
	for _, res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}

	stats.Resolved = len(out)
	stats.Dropped = stats.Attempted - stats.Resolved
	return out, stats
}

// resolveOne runs one product through the tiers. Every edge is attempted
// exactly once; the only terminal states are resolved and dropped.
func (r *Resolver) resolveOne(ctx context.Context, p models.RecommendedProduct, stats *Stats) (models.ResolvedProduct, bool) {
	candidate := r.findCandidate(p)
	if candidate.URL == "" {
		fmt.Printf("[Resolver] No image found for %s %s, dropping\n", p.Brand, p.Name)
		return models.ResolvedProduct{}, false
	}

	resolved := models.ResolvedProduct{
		RecommendedProduct: p,
		ProductID:          uuid.New().String(),
	}
	if candidate.ProductURL != "" {
		resolved.SourceURL = candidate.ProductURL
	}

	// Background removal first; its output is always PNG.
	if data, err := r.Rembg.RemoveBackground(ctx, candidate.URL); err == nil {
		filename := pngName(store.FilenameFor(candidate.URL))
		path, saveErr := r.Store.Save(ctx, filename, data)
		if saveErr != nil {
			fmt.Printf("[Resolver] Failed to persist processed image for %s: %v\n", p.Name, saveErr)
			return models.ResolvedProduct{}, false
		}
		resolved.LocalImage = path
		resolved.DisplayImage = path
		resolved.BackgroundRemoved = true
		stats.BackgroundRemoved++
		return resolved, true
	} else {
		fmt.Printf("[Resolver] Background removal failed for %s: %v\n", p.Name, err)
	}

	// Fall back to the unprocessed original.
	data, err := r.downloadImage(ctx, candidate.URL)
	if err != nil {
		fmt.Printf("[Resolver] Direct download failed for %s: %v, dropping\n", p.Name, err)
		return models.ResolvedProduct{}, false
	}

	path, err := r.Store.Save(ctx, store.FilenameFor(candidate.URL), data)
	if err != nil {
		fmt.Printf("[Resolver] Failed to persist image for %s: %v\n", p.Name, err)
		return models.ResolvedProduct{}, false
	}

	resolved.LocalImage = path
	resolved.DisplayImage = path
	return resolved, true
}

// findCandidate walks the discovery tiers in order: pre-supplied direct
// URL, pre-supplied retailer page, retailer scrape, image search.
func (r *Resolver) findCandidate(p models.RecommendedProduct) models.ImageCandidate {
	if isDirectImageURL(p.SourceURL) {
		return models.ImageCandidate{URL: p.SourceURL, Provenance: models.ProvenanceDirect}
	}

	// A recommendation sourced from the dataset usually carries the
	// retailer's detail-page URL. Extract from that exact page instead of
	// re-searching by name.
	if isRetailerPageURL(p.SourceURL) {
		if extractor, ok := r.Retailer.(scrapers.PageImageExtractor); ok {
			if img := extractor.ProductImage(p.SourceURL); img != "" {
				return models.ImageCandidate{
					URL:        img,
					ProductURL: p.SourceURL,
					Provenance: models.ProvenanceRetailer,
				}
			}
		}
	}

	if r.Retailer != nil {
		if c, err := r.Retailer.FindImage(p.Name, p.Brand, p.Category); err == nil && c.URL != "" {
			return c
		}
	}

	if r.ImageSearch != nil {
		if c, err := r.ImageSearch.FindImage(p.Name, p.Brand, p.Category); err == nil && c.URL != "" {
			return c
		}
	}

	return models.ImageCandidate{Provenance: models.ProvenanceNone}
}

// isDirectImageURL reports whether the recommendation already carries a
// usable image URL, which short-circuits the scraping tiers.
func isDirectImageURL(u string) bool {
	if u == "" || !strings.HasPrefix(u, "http") {
		return false
	}
	// Placeholder images are worse than scraping.
	if strings.Contains(u, "placeholder.com") {
		return false
	}
	lower := strings.ToLower(u)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp", ".gif"} {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

// isRetailerPageURL reports whether the URL is a retailer detail page (as
// opposed to a direct image) worth extracting from.
func isRetailerPageURL(u string) bool {
	return strings.HasPrefix(u, "http") &&
		strings.Contains(u, "lookfantastic.com") &&
		!isDirectImageURL(u)
}

func (r *Resolver) downloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "image") {
		return nil, fmt.Errorf("URL does not point to an image: %s", ct)
	}

	return io.ReadAll(resp.Body)
}

func pngName(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return filename + ".png"
	}
	return strings.TrimSuffix(filename, ext) + ".png"
}

// PartitionSkincare buckets resolved products by category for the skin
// flow. Unrecognized categories land in Other rather than being dropped.
func PartitionSkincare(products []models.ResolvedProduct) models.RecommendationSet {
	var set models.RecommendationSet
	for _, p := range products {
		cat := strings.ToLower(p.Category)
		switch {
		case strings.Contains(cat, "cleanser") || strings.Contains(cat, "cleansing"):
			set.Cleansers = append(set.Cleansers, p)
		case strings.Contains(cat, "moisturi") || strings.Contains(cat, "cream") || strings.Contains(cat, "lotion"):
			set.Moisturizers = append(set.Moisturizers, p)
		case strings.Contains(cat, "treatment") || strings.Contains(cat, "serum") ||
			strings.Contains(cat, "exfoli") || strings.Contains(cat, "acid") || strings.Contains(cat, "mask"):
			set.Treatments = append(set.Treatments, p)
		default:
			set.Other = append(set.Other, p)
		}
	}
	return set
}
