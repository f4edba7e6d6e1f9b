package recommend

import "github.com/dermalens/backend/models"

// FallbackSkincare is the hardcoded recommendation set used when the model
// call fails outright. No images are resolved for these.
func FallbackSkincare(profile models.SkinProfile) []models.RecommendedProduct {
	var products []models.RecommendedProduct

	add := func(name, brand, category string, price float64) {
		products = append(products, models.RecommendedProduct{
			Name:          name,
			Brand:         brand,
			Category:      category,
			PriceEstimate: price,
			Reason:        "Suggested for " + profile.Type + " skin",
		})
	}

	// Cleansers
	switch {
	case profile.Type == "oily" || profile.HasAcne:
		add("CeraVe Foaming Facial Cleanser", "CeraVe", "cleanser", 15)
		add("La Roche-Posay Effaclar Purifying Foaming Gel", "La Roche-Posay", "cleanser", 23)
	case profile.Type == "dry":
		add("CeraVe Hydrating Facial Cleanser", "CeraVe", "cleanser", 15)
		add("Neutrogena Hydro Boost Hydrating Cleansing Gel", "Neutrogena", "cleanser", 12)
	default:
		add("Cetaphil Gentle Skin Cleanser", "Cetaphil", "cleanser", 14)
		add("Kiehl's Ultra Facial Cleanser", "Kiehl's", "cleanser", 22)
	}

	// Moisturizers
	switch profile.Type {
	case "oily":
		add("Neutrogena Hydro Boost Water Gel", "Neutrogena", "moisturizer", 24)
		add("La Roche-Posay Effaclar Mat", "La Roche-Posay", "moisturizer", 32)
	case "dry":
		add("CeraVe Moisturizing Cream", "CeraVe", "moisturizer", 19)
		add("First Aid Beauty Ultra Repair Cream", "First Aid Beauty", "moisturizer", 34)
	case "combination":
		add("Clinique Dramatically Different Moisturizing Gel", "Clinique", "moisturizer", 30)
		add("Belif The True Cream Aqua Bomb", "Belif", "moisturizer", 38)
	default:
		add("Neutrogena Oil-Free Moisture", "Neutrogena", "moisturizer", 12)
		add("Kiehl's Ultra Facial Cream", "Kiehl's", "moisturizer", 32)
	}

	// Treatments
	switch {
	case profile.HasAcne:
		add("Paula's Choice 2% BHA Liquid Exfoliant", "Paula's Choice", "treatment", 30)
		add("The Ordinary Niacinamide 10% + Zinc 1%", "The Ordinary", "treatment", 6)
	case profile.Type == "dry":
		add("The Ordinary Hyaluronic Acid 2% + B5", "The Ordinary", "treatment", 7)
		add("Fresh Rose Deep Hydration Face Cream", "Fresh", "treatment", 42)
	case profile.Type == "combination":
		add("The Ordinary Azelaic Acid Suspension 10%", "The Ordinary", "treatment", 8)
		add("Sunday Riley Good Genes All-In-One Lactic Acid Treatment", "Sunday Riley", "treatment", 85)
	default:
		add("Drunk Elephant C-Firma Vitamin C Day Serum", "Drunk Elephant", "treatment", 80)
		add("The Ordinary Buffet", "The Ordinary", "treatment", 15)
	}

	return products
}

// FallbackHaircare is the hair-flow equivalent.
func FallbackHaircare(profile models.HairProfile) []models.RecommendedProduct {
	reason := "Suggested for " + profile.Type + " hair"
	return []models.RecommendedProduct{
		{Name: "L'Oreal Elvive Total Repair 5 Shampoo", Brand: "L'Oreal", Category: "shampoo", PriceEstimate: 5, Reason: reason},
		{Name: "Pantene Pro-V Daily Moisture Renewal Conditioner", Brand: "Pantene", Category: "conditioner", PriceEstimate: 6, Reason: reason},
		{Name: "Olaplex No.6 Bond Smoother", Brand: "Olaplex", Category: "serum", PriceEstimate: 30, Reason: reason},
		{Name: "Moroccanoil Treatment Original", Brand: "Moroccanoil", Category: "oil", PriceEstimate: 34, Reason: reason},
		{Name: "Head & Shoulders Classic Clean Shampoo", Brand: "Head & Shoulders", Category: "shampoo", PriceEstimate: 7, Reason: reason},
	}
}
