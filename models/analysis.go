package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SkinProfile holds the attributes the classifier reads off a face image.
// Tone runs 1 (lightest) to 6 (darkest).
type SkinProfile struct {
	Tone         int      `bson:"tone" json:"tone"`
	Type         string   `bson:"type" json:"type"` // normal, dry, oily, combination, sensitive
	HasAcne      bool     `bson:"has_acne" json:"has_acne"`
	AcneSeverity float64  `bson:"acne_severity" json:"acne_severity"` // 0..1, redness based
	Concerns     []string `bson:"concerns,omitempty" json:"concerns,omitempty"`
}

// HairProfile holds the attributes for the hair flow.
type HairProfile struct {
	Type     string `bson:"type" json:"type"` // straight, wavy, curly, kinky
	Dandruff string `bson:"dandruff" json:"dandruff"`
	Moisture string `bson:"moisture" json:"moisture"`
	Density  string `bson:"density" json:"density"`
}

// Analysis is one stored analysis run with its resolved recommendations.
type Analysis struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Kind      string             `bson:"kind" json:"kind"` // skin or hair
	ImagePath string             `bson:"image_path" json:"image_path"`
	Skin      *SkinProfile       `bson:"skin,omitempty" json:"skin,omitempty"`
	Hair      *HairProfile       `bson:"hair,omitempty" json:"hair,omitempty"`
	Products  []ResolvedProduct  `bson:"products" json:"products"`
	Fallback  bool               `bson:"fallback" json:"fallback"` // true when the static set was used
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
