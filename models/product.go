package models

// RecommendedProduct is a single product suggestion as returned by the
// recommendation source. It is immutable once received; the resolution
// pipeline never mutates it, it wraps it.
type RecommendedProduct struct {
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	PriceEstimate float64 `json:"price_estimate"`
	Reason        string  `json:"reason"`
	SourceURL     string  `json:"url,omitempty"` // retailer product/image URL when the dataset had one
}

// ImageProvenance tags where a candidate image URL came from.
type ImageProvenance string

const (
	ProvenanceRetailer    ImageProvenance = "retailer-scrape"
	ProvenanceImageSearch ImageProvenance = "image-search"
	ProvenanceDirect      ImageProvenance = "direct-url"
	ProvenanceNone        ImageProvenance = "none"
)

// ImageCandidate is a URL plus where it came from. Consumed within a single
// resolution attempt.
type ImageCandidate struct {
	URL        string
	ProductURL string
	Provenance ImageProvenance
}

// ResolvedProduct is a recommendation that successfully acquired and
// persisted a local image. Only products in this state are shown or
// bookmarked.
type ResolvedProduct struct {
	RecommendedProduct
	ProductID         string `json:"product_id"`
	LocalImage        string `json:"local_image"`
	DisplayImage      string `json:"display_image"`
	BackgroundRemoved bool   `json:"background_removed"`
}

// RecommendationSet is the resolved output partitioned for the skin flow.
type RecommendationSet struct {
	Cleansers    []ResolvedProduct `json:"cleansers"`
	Moisturizers []ResolvedProduct `json:"moisturizers"`
	Treatments   []ResolvedProduct `json:"treatments"`
	Other        []ResolvedProduct `json:"other"`
}

// All flattens the set back into a single list in bucket order.
func (s RecommendationSet) All() []ResolvedProduct {
	out := make([]ResolvedProduct, 0, len(s.Cleansers)+len(s.Moisturizers)+len(s.Treatments)+len(s.Other))
	out = append(out, s.Cleansers...)
	out = append(out, s.Moisturizers...)
	out = append(out, s.Treatments...)
	out = append(out, s.Other...)
	return out
}
