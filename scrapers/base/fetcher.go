package base

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher handles common page fetching for the scrapers. One HTTP attempt
// per URL; the optional browser strategy only runs when explicitly enabled.
type Fetcher struct {
	Client       *http.Client
	BrowserFetch bool
}

// NewFetcher creates a Fetcher with a bounded timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client: &http.Client{Timeout: timeout},
	}
}

// FetchHTML fetches the URL with browser-mimicking headers and returns the
// raw markup. Non-200 responses are errors; the caller treats any error as
// "no candidate" and moves to its next fallback tier.
func (f *Fetcher) FetchHTML(url string) (string, error) {
	body, err := f.fetchHTTP(url)
	if err == nil {
		return body, nil
	}

	if f.BrowserFetch {
		fmt.Printf("[Fetcher] HTTP failed (%v), trying headless browser: %s\n", err, url)
		return f.fetchBrowser(url)
	}

	return "", err
}

func (f *Fetcher) fetchHTTP(url string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", err
	}

	// Common headers to mimic a real browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	res, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != 200 {
		return "", fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}
