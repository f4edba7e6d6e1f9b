package lookfantastic

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dermalens/backend/models"
	"github.com/dermalens/backend/scrapers/base"
)

// Scraper locates product pages and product images on LookFantastic.
type Scraper struct {
	BaseURL string
	Fetcher *base.Fetcher
}

func New() *Scraper {
	return &Scraper{
		BaseURL: "https://www.lookfantastic.com",
		Fetcher: base.NewFetcher(15 * time.Second),
	}
}

var (
	reProductHrefAbs = regexp.MustCompile(`href="(https?://[^"]*?/products/[^"]*?)"`)
	reProductHrefRel = regexp.MustCompile(`href="(/[^"]*?/products/[^"]*?)"`)
	reImageURLJSON   = regexp.MustCompile(`"imageUrl"\s*:\s*"(https:[^"]+)"`)
)

// FindImage searches the retailer for the product and extracts an image from
// its detail page. Both steps are fire-once; any failure yields a zero
// candidate so the caller can advance to the next tier.
func (s *Scraper) FindImage(name, brand, productType string) (models.ImageCandidate, error) {
	productURL := s.SearchProduct(name, brand)
	if productURL == "" {
		return models.ImageCandidate{}, nil
	}

	imageURL := s.ProductImage(productURL)
	if imageURL == "" {
		return models.ImageCandidate{}, nil
	}

	return models.ImageCandidate{
		URL:        imageURL,
		ProductURL: productURL,
		Provenance: models.ProvenanceRetailer,
	}, nil
}

// SearchProduct returns the first product detail page URL found for the
// query, or "" when the search fails or matches nothing.
func (s *Scraper) SearchProduct(name, brand string) string {
	query := strings.TrimSpace(brand + " " + name)
	searchURL := fmt.Sprintf("%s/search?q=%s", s.BaseURL, url.QueryEscape(query))

	fmt.Printf("[LookFantastic] Searching for %s\n", query)

	html, err := s.Fetcher.FetchHTML(searchURL)
	if err != nil {
		fmt.Printf("[LookFantastic] Search failed: %v\n", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var links []string

	// Product tiles come in three markup conventions depending on the page
	// variant served; try each in order.
	blocks := doc.Find(".productBlock")
	if blocks.Length() == 0 {
		blocks = doc.Find(".productItem")
	}
	if blocks.Length() == 0 {
		blocks = doc.Find(`[data-bind*="product"]`)
	}

	blocks.Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Find(`a[href*="/products/"]`).First().Attr("href")
		if ok && href != "" {
			links = append(links, s.absoluteURL(href))
		}
	})

	// Regex fallback over the raw markup when the tile selectors miss.
	if len(links) == 0 {
		for _, re := range []*regexp.Regexp{reProductHrefAbs, reProductHrefRel} {
			for _, m := range re.FindAllStringSubmatch(html, -1) {
				links = append(links, s.absoluteURL(m[1]))
			}
		}
	}

	links = dedupe(links)
	if len(links) == 0 {
		fmt.Printf("[LookFantastic] No products found for %s\n", query)
		return ""
	}

	// First candidate wins, not best match.
	return links[0]
}

// ProductImage extracts the first usable product image URL from a detail
// page, or "" when none is found.
func (s *Scraper) ProductImage(productURL string) string {
	fmt.Printf("[LookFantastic] Extracting image from %s\n", productURL)

	html, err := s.Fetcher.FetchHTML(productURL)
	if err != nil {
		fmt.Printf("[LookFantastic] Failed to access product page: %v\n", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var candidates []string

	// 1. Main carousel image
	if src, ok := doc.Find("img.athenaProductImageCarousel_image").First().Attr("src"); ok {
		candidates = append(candidates, src)
	}

	// 2. Lazy-loaded CDN images
	doc.Find(`img[data-src*="thcdn.com"]`).Each(func(i int, sel *goquery.Selection) {
		if src, ok := sel.Attr("data-src"); ok {
			candidates = append(candidates, src)
		}
	})

	// 3. Generic product image block
	doc.Find(".productImage img").Each(func(i int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok {
			candidates = append(candidates, src)
		}
	})

	// 4. Any other img pointing at the CDN, skipping promotional banners
	doc.Find("img").Each(func(i int, sel *goquery.Selection) {
		alt := strings.ToLower(sel.AttrOr("alt", ""))
		if strings.Contains(alt, "banner") || strings.Contains(alt, "brand hasn") {
			return
		}
		src := sel.AttrOr("src", "")
		if strings.Contains(src, "static.thcdn.com") {
			candidates = append(candidates, unwrapProxyURL(src))
		}
	})

	// 5. Image URLs embedded in page JSON
	for _, m := range reImageURLJSON.FindAllStringSubmatch(html, -1) {
		candidates = append(candidates, m[1])
	}

	// 6. Raw string scans for known CDN attribute patterns
	candidates = append(candidates, scanStaticPatterns(html)...)

	// 7. Synthesized large-image CDN URLs from the product id, when the
	// markup itself yields nothing usable
	candidates = append(candidates, synthesizedCDNURLs(productURL)...)

	img := firstUsableImage(candidates)
	if img == "" {
		fmt.Printf("[LookFantastic] Could not find any product images on the page\n")
	}
	return img
}

func (s *Scraper) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return s.BaseURL + href
}

// scanStaticPatterns walks the raw markup for attribute patterns the DOM
// selectors miss (server-rendered desktop sources and proxied CDN URLs).
func scanStaticPatterns(html string) []string {
	var urls []string

	patterns := []string{
		`data-src-desktop="https://static.thcdn.com/p`,
		`src="https://www.lookfantastic.com/images?url=https://static.thcdn.com`,
		`src="https://static.thcdn.com`,
	}

	for _, pattern := range patterns {
		start := 0
		for {
			idx := strings.Index(html[start:], pattern)
			if idx == -1 {
				break
			}
			idx += start

			// The URL starts after the attribute's opening quote.
			quoteStart := idx + strings.Index(pattern, `"`) + 1
			quoteEnd := strings.Index(html[quoteStart:], `"`)
			if quoteEnd > 0 {
				raw := html[quoteStart : quoteStart+quoteEnd]
				urls = append(urls, unwrapProxyURL(raw))
			}

			start = idx + len(pattern)
		}
	}

	return urls
}

// synthesizedCDNURLs guesses large-image CDN URLs from the numeric product
// id at the end of a detail-page URL. The guesses follow the retailer's
// known hosting conventions; they sit after every markup-derived candidate
// so a real extracted image always wins.
func synthesizedCDNURLs(productURL string) []string {
	parts := strings.Split(strings.Trim(productURL, "/"), "/")
	if len(parts) == 0 {
		return nil
	}
	id := parts[len(parts)-1]
	if idx := strings.Index(id, "."); idx != -1 {
		id = id[:idx]
	}
	if id == "" || strings.Contains(id, "?") {
		return nil
	}

	return []string{
		fmt.Sprintf("https://static.thcdn.com/images/large/%s.jpg", id),
		fmt.Sprintf("https://static.thcdn.com/productimg/1600/1600/%s_L.jpg", id),
		fmt.Sprintf("https://static.thcdn.com/productimg/original/%s_L.jpg", id),
		fmt.Sprintf("https://static.thcdn.com/productimg/original/%s-1.jpg", id),
	}
}

// unwrapProxyURL extracts the direct CDN URL from the retailer's image
// proxy (…/images?url=<encoded>&…). Non-proxy URLs pass through unchanged.
func unwrapProxyURL(src string) string {
	if !strings.Contains(src, "/images?url=") {
		return src
	}
	start := strings.Index(src, "url=")
	if start == -1 {
		return src
	}
	start += 4
	end := strings.Index(src[start:], "&")
	var direct string
	if end == -1 {
		direct = src[start:]
	} else {
		direct = src[start : start+end]
	}
	if decoded, err := url.QueryUnescape(direct); err == nil {
		return decoded
	}
	return direct
}

// firstUsableImage dedupes the candidates and returns the first that is not
// a UI asset and carries an image extension.
func firstUsableImage(candidates []string) string {
	seen := make(map[string]bool)
	for _, u := range candidates {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true

		lower := strings.ToLower(u)

		// Skip small thumbnails and UI elements
		if strings.Contains(lower, "icon") || strings.Contains(lower, "thumb") || strings.Contains(lower, "logo") {
			continue
		}

		if !strings.Contains(lower, ".jpg") && !strings.Contains(lower, ".jpeg") &&
			!strings.Contains(lower, ".png") && !strings.Contains(lower, ".webp") {
			continue
		}

		return u
	}
	return ""
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
