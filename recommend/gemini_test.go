package recommend

import (
	"context"
	"testing"

	"github.com/dermalens/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendationsPlainArray(t *testing.T) {
	text := `[
		{"name": "CeraVe Foaming Facial Cleanser", "brand": "CeraVe", "price": 15.99, "category": "cleanser", "url": "https://example.com/p/1", "reason": "Good for oily skin"},
		{"name": "The Ordinary Niacinamide", "brand": "The Ordinary", "price": 6, "category": "serum", "reason": "Helps with acne"}
	]`

	products, err := ParseRecommendations(text)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "CeraVe Foaming Facial Cleanser", products[0].Name)
	assert.Equal(t, "CeraVe", products[0].Brand)
	assert.Equal(t, 15.99, products[0].PriceEstimate)
	assert.Equal(t, "cleanser", products[0].Category)
	assert.Equal(t, "https://example.com/p/1", products[0].SourceURL)
}

func TestParseRecommendationsIgnoresSurroundingText(t *testing.T) {
	text := "Here are my recommendations:\n```json\n" +
		`[{"name": "A", "brand": "B", "price": 10, "category": "cleanser", "reason": "r"}]` +
		"\n```\nHope that helps!"

	products, err := ParseRecommendations(text)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "A", products[0].Name)
}

func TestParseRecommendationsFieldDrift(t *testing.T) {
	// Alternate field names the model sometimes emits.
	text := `[{"name": "A", "brand": "B", "price_estimate": 12, "type": "shampoo", "product_url": "https://example.com/p/2", "reason": "r"}]`

	products, err := ParseRecommendations(text)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 12.0, products[0].PriceEstimate)
	assert.Equal(t, "shampoo", products[0].Category)
	assert.Equal(t, "https://example.com/p/2", products[0].SourceURL)
}

func TestParseRecommendationsQuotedPrices(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`"15.99"`, 15.99},
		{`"$30"`, 30},
		{`"£23.50"`, 23.5},
		{`"N/A"`, 0},
		{`null`, 0},
	}

	for _, tt := range tests {
		text := `[{"name": "A", "brand": "B", "price": ` + tt.raw + `, "category": "c", "reason": "r"}]`
		products, err := ParseRecommendations(text)
		require.NoError(t, err, tt.raw)
		require.Len(t, products, 1)
		assert.Equal(t, tt.want, products[0].PriceEstimate, tt.raw)
	}
}

func TestParseRecommendationsNoArray(t *testing.T) {
	_, err := ParseRecommendations("I'm sorry, I can't recommend products right now.")
	assert.Error(t, err)
}

func TestParseRecommendationsMalformedJSON(t *testing.T) {
	_, err := ParseRecommendations(`[{"name": "A", "brand": }]`)
	assert.Error(t, err)
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	r := NewRecommender("")
	_, err := r.HaircareProducts(context.Background(), models.HairProfile{Type: "wavy"})
	assert.Error(t, err)
}

func TestFallbackSkincareCoversCategories(t *testing.T) {
	profiles := []models.SkinProfile{
		{Type: "oily", HasAcne: true},
		{Type: "dry"},
		{Type: "combination"},
		{Type: "normal"},
	}

	for _, profile := range profiles {
		products := FallbackSkincare(profile)
		require.Len(t, products, 6, profile.Type)

		byCategory := map[string]int{}
		for _, p := range products {
			byCategory[p.Category]++
			assert.NotEmpty(t, p.Name)
			assert.NotEmpty(t, p.Brand)
			assert.NotZero(t, p.PriceEstimate)
		}
		assert.Equal(t, 2, byCategory["cleanser"], profile.Type)
		assert.Equal(t, 2, byCategory["moisturizer"], profile.Type)
		assert.Equal(t, 2, byCategory["treatment"], profile.Type)
	}
}

func TestFallbackSkincareAcnePicksTreatments(t *testing.T) {
	products := FallbackSkincare(models.SkinProfile{Type: "combination", HasAcne: true})

	var treatments []string
	for _, p := range products {
		if p.Category == "treatment" {
			treatments = append(treatments, p.Name)
		}
	}
	assert.Contains(t, treatments, "Paula's Choice 2% BHA Liquid Exfoliant")
}

func TestFallbackHaircare(t *testing.T) {
	products := FallbackHaircare(models.HairProfile{Type: "curly"})
	require.Len(t, products, 5)

	brands := map[string]bool{}
	for _, p := range products {
		assert.Contains(t, p.Reason, "curly")
		brands[p.Brand] = true
	}
	assert.Len(t, brands, 5, "each fallback product comes from a different brand")
}
