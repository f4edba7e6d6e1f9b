package scrapers

import "github.com/dermalens/backend/models"

// ImageSource locates a candidate image for a recommended product.
// A zero candidate with a nil error means "nothing found"; errors are also
// treated as no candidate by the caller. Sources make a single attempt.
type ImageSource interface {
	FindImage(name, brand, productType string) (models.ImageCandidate, error)
}

// PageImageExtractor is the optional ability to pull an image straight off a
// known product detail page, skipping the search step. "" means nothing
// usable was found on the page.
type PageImageExtractor interface {
	ProductImage(productURL string) string
}
