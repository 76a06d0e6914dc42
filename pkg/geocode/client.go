// Package geocode resolves postal codes for coordinates via the Geoapify
// reverse-geocoding API.
package geocode

import "context"

// Outcome is the per-coordinate lookup result. A lookup either resolves to a
// non-empty postal code or it doesn't; there is no error case visible to the
// caller.
type Outcome struct {
	Code     string
	Resolved bool
}

// Client resolves a coordinate to a postal code.
type Client interface {
	// ReverseLookup returns the postal code for the given coordinate. Every
	// failure mode (non-OK status, timeout, transport or parse fault, empty
	// result) collapses to an unresolved Outcome so that one bad row can
	// never abort a batch.
	ReverseLookup(ctx context.Context, lat, lon float64) Outcome
}
