package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySkinDeterministic(t *testing.T) {
	c := NewSimulated()

	first, err := c.ClassifySkin("user_images/123_face.jpg", nil)
	require.NoError(t, err)
	second, err := c.ClassifySkin("user_images/123_face.jpg", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second, "the same image always yields the same profile")
}

func TestClassifySkinValidRanges(t *testing.T) {
	c := NewSimulated()

	for i := 0; i < 50; i++ {
		profile, err := c.ClassifySkin(fmt.Sprintf("user_images/%d.jpg", i), nil)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, profile.Tone, 1)
		assert.LessOrEqual(t, profile.Tone, 6)
		assert.Contains(t, SkinTypes, profile.Type)
		assert.GreaterOrEqual(t, profile.AcneSeverity, 0.0)
		assert.LessOrEqual(t, profile.AcneSeverity, 1.0)
		if !profile.HasAcne {
			assert.Zero(t, profile.AcneSeverity)
		}
	}
}

func TestClassifySkinKeepsConcerns(t *testing.T) {
	c := NewSimulated()

	concerns := []string{"dark spots", "redness"}
	profile, err := c.ClassifySkin("user_images/a.jpg", concerns)
	require.NoError(t, err)
	assert.Equal(t, concerns, profile.Concerns)
}

func TestClassifyHairValidValues(t *testing.T) {
	c := NewSimulated()

	dandruff := map[string]bool{"none": true, "light": true, "medium": true, "heavy": true}
	moisture := map[string]bool{"dry": true, "normal": true, "oily": true}
	density := map[string]bool{"fine": true, "medium": true, "thick": true}

	for i := 0; i < 50; i++ {
		profile, err := c.ClassifyHair(fmt.Sprintf("user_images/%d.jpg", i))
		require.NoError(t, err)

		assert.Contains(t, HairTypes, profile.Type)
		assert.True(t, dandruff[profile.Dandruff], profile.Dandruff)
		assert.True(t, moisture[profile.Moisture], profile.Moisture)
		assert.True(t, density[profile.Density], profile.Density)
	}
}

func TestDifferentImagesDiffer(t *testing.T) {
	c := NewSimulated()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		profile, err := c.ClassifySkin(fmt.Sprintf("user_images/%d.jpg", i), nil)
		require.NoError(t, err)
		seen[fmt.Sprintf("%s-%d", profile.Type, profile.Tone)] = true
	}
	assert.Greater(t, len(seen), 1, "profiles should vary across images")
}
