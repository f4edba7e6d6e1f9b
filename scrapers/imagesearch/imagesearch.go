package imagesearch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/dermalens/backend/models"
	"github.com/dermalens/backend/scrapers/base"
)

// Client queries a general-purpose image search as the fallback tier when
// the retailer scrape yields nothing.
type Client struct {
	BaseURL string
	Fetcher *base.Fetcher
}

func New() *Client {
	return &Client{
		BaseURL: "https://www.google.com",
		Fetcher: base.NewFetcher(15 * time.Second),
	}
}

var reImageURL = regexp.MustCompile(`https://[^"']+?\.(?:jpg|jpeg|png|webp)`)

// FindImage issues a single image-search request and returns the first
// surviving URL, or a zero candidate when nothing usable is found.
func (c *Client) FindImage(name, brand, productType string) (models.ImageCandidate, error) {
	query := fmt.Sprintf("%s %s %s product image", brand, name, productType)
	searchURL := fmt.Sprintf("%s/search?q=%s&tbm=isch", c.BaseURL, url.QueryEscape(query))

	fmt.Printf("[ImageSearch] Searching for %s\n", query)

	html, err := c.Fetcher.FetchHTML(searchURL)
	if err != nil {
		fmt.Printf("[ImageSearch] Search failed: %v\n", err)
		return models.ImageCandidate{}, nil
	}

	for _, u := range reImageURL.FindAllString(html, -1) {
		lower := strings.ToLower(u)

		// Skip small thumbnails and icons
		if strings.Contains(lower, "icon") || strings.Contains(lower, "thumb") || strings.Contains(lower, "small") {
			continue
		}
		// Skip the search engine's own UI assets
		if strings.Contains(lower, "google.com") || strings.Contains(lower, "gstatic.com") {
			continue
		}

		return models.ImageCandidate{URL: u, Provenance: models.ProvenanceImageSearch}, nil
	}

	fmt.Printf("[ImageSearch] Could not find any suitable product images\n")
	return models.ImageCandidate{}, nil
}
