package imagesearch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dermalens/backend/models"
	"github.com/dermalens/backend/scrapers/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		BaseURL: srv.URL,
		Fetcher: base.NewFetcher(5 * time.Second),
	}
}

func TestFindImageReturnsFirstUsable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "isch", r.URL.Query().Get("tbm"))
		assert.Contains(t, r.URL.Query().Get("q"), "CeraVe")

		fmt.Fprint(w, `<html><body>
			<img src="https://www.gstatic.com/ui/sprite.png">
			<img src="https://cdn.example.com/icons/search-icon.png">
			<img src="https://cdn.example.com/products/cerave-thumb.jpg">
			<img src="https://cdn.example.com/products/cerave-full.jpg">
		</body></html>`)
	})

	candidate, err := c.FindImage("Foaming Facial Cleanser", "CeraVe", "cleanser")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/cerave-full.jpg", candidate.URL)
	assert.Equal(t, models.ProvenanceImageSearch, candidate.Provenance)
}

func TestFindImageNothingUsable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<img src="https://www.google.com/images/branding/logo.png">
			<img src="https://cdn.example.com/small/tiny.jpg">
		</body></html>`)
	})

	candidate, err := c.FindImage("Ghost", "Nobody", "serum")
	require.NoError(t, err)
	assert.Empty(t, candidate.URL)
	assert.Empty(t, candidate.Provenance)
}

func TestFindImageFetchFailureYieldsZeroCandidate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	// Search failures are soft: no error, just no candidate.
	candidate, err := c.FindImage("Cleanser", "CeraVe", "cleanser")
	require.NoError(t, err)
	assert.Empty(t, candidate.URL)
}
