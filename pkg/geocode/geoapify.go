package geocode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const geoapifyReverseURL = "https://api.geoapify.com/v1/geocode/reverse"

// geoapifyResponse is the JSON response from the Geoapify reverse geocoder.
// The postcode property arrives as a string for most countries but as a bare
// number for some, so it is decoded loosely and coerced.
type geoapifyResponse struct {
	Features []struct {
		Properties struct {
			Postcode any `json:"postcode"`
		} `json:"properties"`
	} `json:"features"`
}

// GeoapifyClient implements Client against the Geoapify reverse-geocoding
// endpoint. One underlying http.Client is shared across all calls.
type GeoapifyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures the GeoapifyClient.
type Option func(*GeoapifyClient)

// WithHTTPClient sets a custom HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GeoapifyClient) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the reverse-geocoding endpoint URL.
func WithBaseURL(u string) Option {
	return func(c *GeoapifyClient) {
		c.baseURL = u
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *GeoapifyClient) {
		c.httpClient.Timeout = d
	}
}

// NewGeoapifyClient creates a GeoapifyClient with the given API key.
func NewGeoapifyClient(apiKey string, opts ...Option) *GeoapifyClient {
	c := &GeoapifyClient{
		apiKey:     apiKey,
		baseURL:    geoapifyReverseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReverseLookup implements Client.
func (c *GeoapifyClient) ReverseLookup(ctx context.Context, lat, lon float64) Outcome {
	// Coordinates that survived cell parsing can still be NaN/Inf; never put
	// those on the wire.
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return Outcome{}
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("apiKey", c.apiKey)

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		zap.L().Warn("geoapify: build request failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err),
		)
		return Outcome{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			zap.L().Warn("geoapify: request timed out",
				zap.Float64("lat", lat),
				zap.Float64("lon", lon),
			)
		} else {
			zap.L().Warn("geoapify: request failed",
				zap.Float64("lat", lat),
				zap.Float64("lon", lon),
				zap.Error(err),
			)
		}
		return Outcome{}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("geoapify: non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
		)
		return Outcome{}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		zap.L().Warn("geoapify: read body failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err),
		)
		return Outcome{}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var parsed geoapifyResponse
	if err := dec.Decode(&parsed); err != nil {
		zap.L().Warn("geoapify: parse response failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err),
		)
		return Outcome{}
	}

	if len(parsed.Features) == 0 {
		return Outcome{}
	}

	code := coercePostcode(parsed.Features[0].Properties.Postcode)
	if code == "" {
		return Outcome{}
	}
	return Outcome{Code: code, Resolved: true}
}

// coercePostcode turns the loosely typed postcode property into a string.
func coercePostcode(v any) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(p)
	case json.Number:
		return p.String()
	default:
		return strings.TrimSpace(fmt.Sprint(p))
	}
}
