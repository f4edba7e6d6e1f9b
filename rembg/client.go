// Package rembg is the client for the local background-removal service
// (POST /remove-background, GET /health).
package rembg

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrServiceUnavailable is returned without a network attempt while the
// breaker is open.
var ErrServiceUnavailable = errors.New("background removal service unavailable")

// Client talks to the background-removal service. The breaker is injected
// so callers share one availability state per session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Breaker    *Breaker
}

func NewClient(baseURL string, breaker *Breaker) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			// Model inference on CPU is slow; give it a generous bound.
			Timeout: 60 * time.Second,
		},
		Breaker: breaker,
	}
}

type removeRequest struct {
	ImageURL string `json:"imageUrl"`
}

type removeResponse struct {
	Success     bool   `json:"success"`
	Base64Image string `json:"base64Image"`
	Error       string `json:"error"`
}

// RemoveBackground submits the image URL and returns the decoded processed
// image bytes. Connection-level failures trip the breaker; HTTP-level
// failures (non-200, missing success flag, bad payload) are per-call errors
// only.
func (c *Client) RemoveBackground(ctx context.Context, imageURL string) ([]byte, error) {
	if !c.Breaker.Available() {
		return nil, ErrServiceUnavailable
	}

	payload, err := json.Marshal(removeRequest{ImageURL: imageURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/remove-background", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// Refused connection, timeout, DNS: the service is gone for this
		// session until a probe says otherwise.
		c.Breaker.Trip()
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("background removal failed: status %d", resp.StatusCode)
	}

	var body removeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("background removal returned invalid JSON: %w", err)
	}
	if !body.Success {
		if body.Error != "" {
			return nil, fmt.Errorf("background removal failed: %s", body.Error)
		}
		return nil, errors.New("background removal failed: no success flag")
	}

	return decodeBase64Image(body.Base64Image)
}

// Probe checks /health and resets the breaker on success.
func (c *Client) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	c.Breaker.Reset()
	return true
}

// decodeBase64Image strips an optional data-URI prefix and decodes the
// payload.
func decodeBase64Image(s string) ([]byte, error) {
	if idx := strings.Index(s, "base64,"); idx != -1 {
		s = s[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty image payload")
	}
	return data, nil
}
