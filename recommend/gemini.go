// Package recommend produces product recommendations for a skin or hair
// profile via the Gemini API, with static fallback sets when the model is
// unreachable or returns garbage.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dermalens/backend/models"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Recommender asks Gemini for product suggestions.
type Recommender struct {
	APIKey string
	Model  string
}

func NewRecommender(apiKey string) *Recommender {
	return &Recommender{
		APIKey: apiKey,
		Model:  "gemini-2.0-flash-lite",
	}
}

// SkincareProducts requests recommendations for a skin profile. The dataset
// sample grounds the model in real products with known URLs.
func (r *Recommender) SkincareProducts(ctx context.Context, profile models.SkinProfile, dataset []DatasetProduct) ([]models.RecommendedProduct, error) {
	acne := "No"
	if profile.HasAcne {
		acne = "Yes"
	}

	context_ := fmt.Sprintf(`Skin profile:
- Skin type: %s
- Skin tone: %d/6 (where 1 is lightest, 6 is darkest)
- Acne presence: %s
- Acne severity: %.1f%% (based on redness)
`, profile.Type, profile.Tone, acne, profile.AcneSeverity*100)

	if len(profile.Concerns) > 0 {
		context_ += fmt.Sprintf("- Additional concerns: %s\n", strings.Join(profile.Concerns, ", "))
	}

	prompt := fmt.Sprintf(`You are a skincare expert recommendation system. Based on a user's skin profile and a dataset of skincare products,
recommend 10 appropriate products for their needs.

%s

Below is a sample from the skincare product dataset:

%s

Analyze the properties of these products and select 10 products that would work best for this skin profile.
Consider the following factors:
- Choose products appropriate for the user's skin type
- If the user has acne, suggest products that help with acne
- Include a mix of product categories (cleanser, moisturizer, serum, etc.)
- Consider products that address the user's specific concerns

Format your response as a JSON array with each product having these fields:
- name (product name)
- brand (extract brand from product name)
- price (numeric value only, without currency symbol)
- category (product category/type)
- url (product URL from the product_url column in dataset)
- reason (brief explanation of why this product is good for this skin)

Only include the JSON array in your response, nothing else.`, context_, datasetCSV(dataset))

	return r.generate(ctx, prompt)
}

// HaircareProducts requests recommendations for a hair profile.
func (r *Recommender) HaircareProducts(ctx context.Context, profile models.HairProfile) ([]models.RecommendedProduct, error) {
	prompt := fmt.Sprintf(`You are a hair care expert. Based on this profile:
- Hair Type: %s
- Dandruff: %s
- Moisture Level: %s
- Hair Density: %s

Recommend 5 specific hair products with these requirements:
1. Each product must be from a different mainstream, well-known brand (like L'Oreal, Pantene, etc.)
2. Include a mix of product types (shampoo, conditioner, serum, etc.)
3. All products should be specific (include full product name and brand)
4. Each product should be available on LookFantastic.com or similar retailers

Format your response as a JSON array with each product having these fields:
- name (full product name including brand)
- brand (just the brand name)
- category (product type/category)
- price (numeric value only in USD, without currency symbol)
- reason (brief explanation of why this product is good for this hair)

Only include the JSON array in your response, nothing else.`, profile.Type, profile.Dandruff, profile.Moisture, profile.Density)

	return r.generate(ctx, prompt)
}

func (r *Recommender) generate(ctx context.Context, prompt string) ([]models.RecommendedProduct, error) {
	if r.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(r.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}
	defer client.Close()

	model := client.GenerativeModel(r.Model)
	temp := float32(0.2)
	model.Temperature = &temp

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %v", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}

	return ParseRecommendations(text)
}

// ParseRecommendations extracts the JSON array between the first '[' and
// the last ']' of the model output and decodes it. Anything else in the
// reply (markdown fences, prose) is ignored.
func ParseRecommendations(text string) ([]models.RecommendedProduct, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("could not find JSON array in model response")
	}

	var wire []wireProduct
	if err := json.Unmarshal([]byte(text[start:end+1]), &wire); err != nil {
		return nil, fmt.Errorf("error decoding JSON from model response: %w", err)
	}

	products := make([]models.RecommendedProduct, 0, len(wire))
	for _, w := range wire {
		p := models.RecommendedProduct{
			Name:          w.Name,
			Brand:         w.Brand,
			Category:      w.Category,
			PriceEstimate: float64(w.Price),
			Reason:        w.Reason,
			SourceURL:     w.URL,
		}
		if p.Category == "" {
			p.Category = w.Type
		}
		if p.PriceEstimate == 0 {
			p.PriceEstimate = float64(w.PriceEstimate)
		}
		if p.SourceURL == "" {
			p.SourceURL = w.ProductURL
		}
		products = append(products, p)
	}
	return products, nil
}

// wireProduct tolerates the field-name drift the model produces between the
// skin and hair prompts.
type wireProduct struct {
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Price         flexFloat `json:"price"`
	PriceEstimate flexFloat `json:"price_estimate"`
	Category      string    `json:"category"`
	Type          string    `json:"type"`
	URL           string    `json:"url"`
	ProductURL    string    `json:"product_url"`
	Reason        string    `json:"reason"`
}

// flexFloat accepts both numeric and quoted prices.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	s = strings.TrimLeft(s, "$£€")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}
