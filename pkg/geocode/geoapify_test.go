package geocode

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReverseLookup_Resolved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "40", r.URL.Query().Get("lat"))
		assert.Equal(t, "-73", r.URL.Query().Get("lon"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"features": [
				{"properties": {"postcode": "10001", "city": "New York"}},
				{"properties": {"postcode": "99999"}}
			]
		}`)
	}))
	defer srv.Close()

	c := NewGeoapifyClient("test-key",
		WithHTTPClient(newRewriteClient(srv.URL, geoapifyReverseURL)),
	)

	out := c.ReverseLookup(context.Background(), 40.0, -73.0)
	assert.True(t, out.Resolved)
	assert.Equal(t, "10001", out.Code)
}

func TestReverseLookup_NumericPostcode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"features": [{"properties": {"postcode": 110001}}]}`)
	}))
	defer srv.Close()

	c := NewGeoapifyClient("test-key",
		WithHTTPClient(newRewriteClient(srv.URL, geoapifyReverseURL)),
	)

	out := c.ReverseLookup(context.Background(), 28.6, 77.2)
	assert.True(t, out.Resolved)
	assert.Equal(t, "110001", out.Code)
}

func TestReverseLookup_NoFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"features": []}`)
	}))
	defer srv.Close()

	c := NewGeoapifyClient("test-key",
		WithHTTPClient(newRewriteClient(srv.URL, geoapifyReverseURL)),
	)

	out := c.ReverseLookup(context.Background(), 0.0, 0.0)
	assert.False(t, out.Resolved)
	assert.Empty(t, out.Code)
}

func TestReverseLookup_MissingPostcode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"features": [{"properties": {"city": "Nowhere"}}]}`)
	}))
	defer srv.Close()

	c := NewGeoapifyClient("test-key",
		WithHTTPClient(newRewriteClient(srv.URL, geoapifyReverseURL)),
	)

	out := c.ReverseLookup(context.Background(), 12.0, 34.0)
	assert.False(t, out.Resolved)
}

func TestReverseLookup_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewGeoapifyClient("test-key",
		WithHTTPClient(newRewriteClient(srv.URL, geoapifyReverseURL)),
	)

	out := c.ReverseLookup(context.Background(), 40.0, -73.0)
	assert.False(t, out.Resolved)
}

func TestReverseLookup_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"features": [`)
	}))
	defer srv.Close()

	c := NewGeoapifyClient("test-key",
		WithHTTPClient(newRewriteClient(srv.URL, geoapifyReverseURL)),
	)

	out := c.ReverseLookup(context.Background(), 40.0, -73.0)
	assert.False(t, out.Resolved)
}

func TestReverseLookup_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, `{"features": []}`)
	}))
	defer srv.Close()

	c := NewGeoapifyClient("test-key",
		WithHTTPClient(newRewriteClient(srv.URL, geoapifyReverseURL)),
		WithTimeout(20*time.Millisecond),
	)

	out := c.ReverseLookup(context.Background(), 40.0, -73.0)
	assert.False(t, out.Resolved)
}

func TestReverseLookup_NaNSkipsNetwork(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = io.WriteString(w, `{"features": []}`)
	}))
	defer srv.Close()

	c := NewGeoapifyClient("test-key",
		WithHTTPClient(newRewriteClient(srv.URL, geoapifyReverseURL)),
	)

	out := c.ReverseLookup(context.Background(), math.NaN(), -73.0)
	assert.False(t, out.Resolved)
	out = c.ReverseLookup(context.Background(), 40.0, math.Inf(1))
	assert.False(t, out.Resolved)
	assert.Equal(t, int64(0), hits.Load())
}

func TestCoercePostcode(t *testing.T) {
	tests := []struct {
		in       any
		expected string
	}{
		{"10001", "10001"},
		{" 10001 ", "10001"},
		{nil, ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, coercePostcode(tt.in))
	}
}
