package rembg

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoveBackgroundSuccess(t *testing.T) {
	imageBytes := []byte("fake-png-bytes")

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/remove-background", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://example.com/img.jpg", req["imageUrl"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":     true,
			"base64Image": "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageBytes),
		})
	})

	client := NewClient(srv.URL, NewBreaker())
	data, err := client.RemoveBackground(context.Background(), "https://example.com/img.jpg")
	require.NoError(t, err)
	assert.Equal(t, imageBytes, data)
	assert.True(t, client.Breaker.Available())
}

func TestRemoveBackgroundPlainBase64(t *testing.T) {
	imageBytes := []byte{0x89, 0x50, 0x4e, 0x47}

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":     true,
			"base64Image": base64.StdEncoding.EncodeToString(imageBytes),
		})
	})

	client := NewClient(srv.URL, NewBreaker())
	data, err := client.RemoveBackground(context.Background(), "https://example.com/img.jpg")
	require.NoError(t, err)
	assert.Equal(t, imageBytes, data)
}

func TestConnectionFailureTripsBreaker(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refused connections from here on

	breaker := NewBreaker()
	client := NewClient(srv.URL, breaker)

	_, err := client.RemoveBackground(context.Background(), "https://example.com/img.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.False(t, breaker.Available())
}

func TestOpenBreakerShortCircuits(t *testing.T) {
	var requests atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "base64Image": "aGVsbG8="})
	})

	breaker := NewBreaker()
	breaker.Trip()
	client := NewClient(srv.URL, breaker)

	for i := 0; i < 3; i++ {
		_, err := client.RemoveBackground(context.Background(), "https://example.com/img.jpg")
		assert.ErrorIs(t, err, ErrServiceUnavailable)
	}

	assert.Equal(t, int32(0), requests.Load(), "no request should reach the service while the breaker is open")
}

func TestHTTPErrorDoesNotTripBreaker(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	breaker := NewBreaker()
	client := NewClient(srv.URL, breaker)

	_, err := client.RemoveBackground(context.Background(), "https://example.com/img.jpg")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrServiceUnavailable)
	assert.True(t, breaker.Available(), "HTTP-level failures are per-call errors, not outages")
}

func TestUnsuccessfulResponseDoesNotTripBreaker(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "model not loaded",
		})
	})

	breaker := NewBreaker()
	client := NewClient(srv.URL, breaker)

	_, err := client.RemoveBackground(context.Background(), "https://example.com/img.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
	assert.True(t, breaker.Available())
}

func TestEmptyPayloadIsError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":     true,
			"base64Image": "data:image/png;base64,",
		})
	})

	client := NewClient(srv.URL, NewBreaker())
	_, err := client.RemoveBackground(context.Background(), "https://example.com/img.jpg")
	require.Error(t, err)
}

func TestProbeResetsBreaker(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	breaker := NewBreaker()
	breaker.Trip()
	client := NewClient(srv.URL, breaker)

	assert.True(t, client.Probe(context.Background()))
	assert.True(t, breaker.Available())
}

func TestProbeFailureLeavesBreakerOpen(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	breaker := NewBreaker()
	breaker.Trip()
	client := NewClient(srv.URL, breaker)

	assert.False(t, client.Probe(context.Background()))
	assert.False(t, breaker.Available())
}
