package lookfantastic

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

func newTestScraper(t *testing.T, handler http.HandlerFunc) *Scraper {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Scraper{
		BaseURL: srv.URL,
		Fetcher: base.NewFetcher(5 * time.Second),
	}
}

func TestSearchProductTileSelectors(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "productBlock tiles",
			html: `<div class="productBlock">
				<a href="/cerave/products/foaming-cleanser/123.html">CeraVe</a>
			</div>
			<div class="productBlock">
				<a href="/cerave/products/other/456.html">Other</a>
			</div>`,
		},
		{
			name: "productItem tiles",
			html: `<div class="productItem">
				<a href="/cerave/products/foaming-cleanser/123.html">CeraVe</a>
			</div>`,
		},
		{
			name: "data-bind tiles",
			html: `<div data-bind="component: product">
				<a href="/cerave/products/foaming-cleanser/123.html">CeraVe</a>
			</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/search", r.URL.Path)
				assert.Contains(t, r.URL.Query().Get("q"), "CeraVe")
				fmt.Fprint(w, tt.html)
			})

			got := s.SearchProduct("Foaming Facial Cleanser", "CeraVe")
			assert.Equal(t, s.BaseURL+"/cerave/products/foaming-cleanser/123.html", got)
		})
	}
}

func TestSearchProductRegexFallback(t *testing.T) {
	// No recognized tile markup at all; the raw href scan has to find it.
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<span>unrelated</span>
			<a class="weird" href="/skincare/products/hydrating-cleanser/789.html">link</a>
		</body></html>`)
	})

	got := s.SearchProduct("Hydrating Cleanser", "CeraVe")
	assert.Equal(t, s.BaseURL+"/skincare/products/hydrating-cleanser/789.html", got)
}

func TestSearchProductAbsoluteHrefPassedThrough(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div class="productBlock">
			<a href="https://www.lookfantastic.com/x/products/serum/1.html">x</a>
		</div>`)
	})

	got := s.SearchProduct("Serum", "Brand")
	assert.Equal(t, "https://www.lookfantastic.com/x/products/serum/1.html", got)
}

func TestSearchProductNoResults(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>No products matched your search.</body></html>`)
	})

	assert.Equal(t, "", s.SearchProduct("Nonexistent", "Nobody"))
}

func TestSearchProductServerError(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	assert.Equal(t, "", s.SearchProduct("Cleanser", "CeraVe"))
}

func TestProductImageCarouselWins(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<img class="athenaProductImageCarousel_image" src="https://static.thcdn.com/p/main.jpg">
			<img data-src="https://static.thcdn.com/p/lazy.jpg">
		</body></html>`)
	})

	got := s.ProductImage(s.BaseURL + "/x/products/y/1.html")
	assert.Equal(t, "https://static.thcdn.com/p/main.jpg", got)
}

func TestProductImageLazyCDNFallback(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<img data-src="https://static.thcdn.com/p/lazy.png">
		</body></html>`)
	})

	got := s.ProductImage(s.BaseURL + "/x/products/y/1.html")
	assert.Equal(t, "https://static.thcdn.com/p/lazy.png", got)
}

func TestProductImageUnwrapsProxy(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<img alt="product shot" src="https://www.lookfantastic.com/images?url=https://static.thcdn.com/p/direct.jpg&width=500">
		</body></html>`)
	})

	got := s.ProductImage(s.BaseURL + "/x/products/y/1.html")
	assert.Equal(t, "https://static.thcdn.com/p/direct.jpg", got)
}

func TestProductImageSkipsUIAssets(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<img data-src="https://static.thcdn.com/icons/cart-icon.png">
			<img data-src="https://static.thcdn.com/p/thumb_50x50.jpg">
			<img data-src="https://static.thcdn.com/brand/logo.png">
			<img data-src="https://static.thcdn.com/p/real-product.jpg">
		</body></html>`)
	})

	got := s.ProductImage(s.BaseURL + "/x/products/y/1.html")
	assert.Equal(t, "https://static.thcdn.com/p/real-product.jpg", got)
}

func TestProductImageSynthesizedFallback(t *testing.T) {
	// Markup offers nothing with an image extension; the product id from
	// the page URL still yields a large-image CDN guess.
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<img class="athenaProductImageCarousel_image" src="https://static.thcdn.com/p/video-preview">
		</body></html>`)
	})

	got := s.ProductImage(s.BaseURL + "/x/products/y/11798683.html")
	assert.Equal(t, "https://static.thcdn.com/images/large/11798683.jpg", got)
}

func TestProductImageMarkupBeatsSynthesized(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<img data-src="https://static.thcdn.com/p/extracted.jpg">
		</body></html>`)
	})

	got := s.ProductImage(s.BaseURL + "/x/products/y/11798683.html")
	assert.Equal(t, "https://static.thcdn.com/p/extracted.jpg", got,
		"an image found in the markup outranks the synthesized guesses")
}

func TestSynthesizedCDNURLs(t *testing.T) {
	urls := synthesizedCDNURLs("https://www.lookfantastic.com/cerave-foaming-cleanser/11798683.html")
	require.Len(t, urls, 4)
	assert.Equal(t, "https://static.thcdn.com/images/large/11798683.jpg", urls[0])
	assert.Equal(t, "https://static.thcdn.com/productimg/1600/1600/11798683_L.jpg", urls[1])
	assert.Equal(t, "https://static.thcdn.com/productimg/original/11798683_L.jpg", urls[2])
	assert.Equal(t, "https://static.thcdn.com/productimg/original/11798683-1.jpg", urls[3])
}

func TestProductImageFromEmbeddedJSON(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<script>window.__data = {"imageUrl": "https://static.thcdn.com/p/from-json.jpg"};</script>
		</body></html>`)
	})

	got := s.ProductImage(s.BaseURL + "/x/products/y/1.html")
	assert.Equal(t, "https://static.thcdn.com/p/from-json.jpg", got)
}

func TestFindImageEndToEnd(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			fmt.Fprint(w, `<div class="productBlock">
				<a href="/cerave/products/foaming-cleanser/123.html">CeraVe</a>
			</div>`)
		case "/cerave/products/foaming-cleanser/123.html":
			fmt.Fprint(w, `<img class="athenaProductImageCarousel_image" src="https://static.thcdn.com/p/cerave.jpg">`)
		default:
			http.NotFound(w, r)
		}
	})

	candidate, err := s.FindImage("Foaming Facial Cleanser", "CeraVe", "cleanser")
	require.NoError(t, err)
	assert.Equal(t, "https://static.thcdn.com/p/cerave.jpg", candidate.URL)
	assert.Equal(t, s.BaseURL+"/cerave/products/foaming-cleanser/123.html", candidate.ProductURL)
	assert.Equal(t, models.ProvenanceRetailer, candidate.Provenance)
}

func TestFindImageNoSearchHit(t *testing.T) {
	s := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing here</body></html>`)
	})

	candidate, err := s.FindImage("Ghost Product", "Nobody", "serum")
	require.NoError(t, err)
	assert.Empty(t, candidate.URL)
}

func TestUnwrapProxyURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			in:   "https://www.lookfantastic.com/images?url=https%3A%2F%2Fstatic.thcdn.com%2Fp%2Fa.jpg&format=webp",
			want: "https://static.thcdn.com/p/a.jpg",
		},
		{
			in:   "https://www.lookfantastic.com/images?url=https://static.thcdn.com/p/b.jpg",
			want: "https://static.thcdn.com/p/b.jpg",
		},
		{
			in:   "https://static.thcdn.com/p/plain.jpg",
			want: "https://static.thcdn.com/p/plain.jpg",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, unwrapProxyURL(tt.in))
	}
}

func TestScanStaticPatternsDesktopSource(t *testing.T) {
	html := `<div data-src-desktop="https://static.thcdn.com/p/desktop.jpg"></div>`
	urls := scanStaticPatterns(html)
	require.NotEmpty(t, urls)
	assert.Equal(t, "https://static.thcdn.com/p/desktop.jpg", urls[0])
}
