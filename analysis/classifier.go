// Package analysis holds the skin/hair classifier interfaces. The shipped
// implementation is a deterministic simulation seeded from the image path;
// it stands in for a real model behind the same interface.
package analysis

import (
	"hash/fnv"

	"github.com/dermalens/backend/models"
)

var (
	SkinTypes = []string{"normal", "dry", "oily", "combination", "sensitive"}
	HairTypes = []string{"straight", "wavy", "curly", "kinky"}
)

// SkinClassifier produces a skin profile from an image on disk.
type SkinClassifier interface {
	ClassifySkin(imagePath string, concerns []string) (models.SkinProfile, error)
}

// HairClassifier produces a hair profile from an image on disk.
type HairClassifier interface {
	ClassifyHair(imagePath string) (models.HairProfile, error)
}

// Simulated is the stand-in classifier: attributes are derived from a hash
// of the image path, so the same image always yields the same profile.
type Simulated struct{}

func NewSimulated() *Simulated {
	return &Simulated{}
}

func (s *Simulated) ClassifySkin(imagePath string, concerns []string) (models.SkinProfile, error) {
	h := seed(imagePath)

	tone := int(h%6) + 1 // 1 (lightest) .. 6 (darkest)
	skinType := SkinTypes[(h>>3)%uint64(len(SkinTypes))]

	// Mirrors the redness heuristic: ~8% of pixels red is the acne cutoff.
	rednessPercent := float64((h>>7)%20) / 100.0
	hasAcne := rednessPercent > 0.08

	severity := 0.0
	if hasAcne {
		severity = rednessPercent * 5
		if severity > 1.0 {
			severity = 1.0
		}
	}

	return models.SkinProfile{
		Tone:         tone,
		Type:         skinType,
		HasAcne:      hasAcne,
		AcneSeverity: severity,
		Concerns:     concerns,
	}, nil
}

func (s *Simulated) ClassifyHair(imagePath string) (models.HairProfile, error) {
	h := seed(imagePath)

	dandruff := []string{"none", "light", "medium", "heavy"}
	moisture := []string{"dry", "normal", "oily"}
	density := []string{"fine", "medium", "thick"}

	return models.HairProfile{
		Type:     HairTypes[h%uint64(len(HairTypes))],
		Dandruff: dandruff[(h>>5)%4],
		Moisture: moisture[(h>>9)%3],
		Density:  density[(h>>13)%3],
	}, nil
}

func seed(imagePath string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(imagePath))
	return h.Sum64()
}
