// Package match holds the place match model shared by the client and the host server.
package match

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Match is a single candidate place: a display name and a coordinate pair.
// Ranges are not validated; the search backend is the source of truth.
type Match struct {
	name string
	lat  float64
	lon  float64
}

// New creates a match.
func New(name string, lat, lon float64) Match {
	return Match{name: name, lat: lat, lon: lon}
}

// Name returns the display name.
func (m Match) Name() string { return m.name }

// Lat returns the latitude in degrees.
func (m Match) Lat() float64 { return m.lat }

// Lon returns the longitude in degrees.
func (m Match) Lon() float64 { return m.lon }

// MarshalJSON encodes the match as the wire triple [name, lat, lon].
func (m Match) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal([3]any{m.name, m.lat, m.lon})
	if err != nil {
		return nil, fmt.Errorf("marshal match: %w", err)
	}
	return b, nil
}

// UnmarshalJSON decodes the wire triple [name, lat, lon].
func (m *Match) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("match must be an array: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("match must have 3 elements, got %d", len(raw))
	}
	for i, el := range raw {
		if string(bytes.TrimSpace(el)) == "null" {
			return fmt.Errorf("match element %d is null", i)
		}
	}
	var (
		name     string
		lat, lon float64
	)
	if err := json.Unmarshal(raw[0], &name); err != nil {
		return fmt.Errorf("match name: %w", err)
	}
	if err := json.Unmarshal(raw[1], &lat); err != nil {
		return fmt.Errorf("match latitude: %w", err)
	}
	if err := json.Unmarshal(raw[2], &lon); err != nil {
		return fmt.Errorf("match longitude: %w", err)
	}
	*m = New(name, lat, lon)
	return nil
}

// List is an ordered sequence of matches as received from the backend.
// Entries are neither sorted nor deduplicated.
type List []Match

// Find returns the first match whose name equals name.
// Duplicate names are not disambiguated.
func (l List) Find(name string) (Match, bool) {
	for _, m := range l {
		if m.name == name {
			return m, true
		}
	}
	return Match{}, false
}

// First returns the first match, or false for an empty list.
func (l List) First() (Match, bool) {
	if len(l) == 0 {
		return Match{}, false
	}
	return l[0], true
}

// Names returns the display names in order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, m := range l {
		names[i] = m.name
	}
	return names
}

// Clone returns an independent copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Truncate returns at most n leading matches. n <= 0 means no limit.
func (l List) Truncate(n int) List {
	if n <= 0 || len(l) <= n {
		return l
	}
	return l[:n]
}

// Payload is the result body the backend hands to the page callback.
type Payload struct {
	Matches List `json:"matches"`
}
