package geosuggest

import (
	"context"

	"github.com/kailas-cloud/geosuggest/internal/domain/match"
)

// Match is a single candidate place: display name plus coordinates.
type Match = match.Match

// Payload is the argument the backend passes to the page callback.
type Payload = match.Payload

// NewMatch creates a match.
func NewMatch(name string, lat, lon float64) Match {
	return match.New(name, lat, lon)
}

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Input is the query text field (id "query" on the demo page).
type Input interface {
	Value() string
	SetValue(v string)
}

// MapWidget is the third-party map the adapter wraps (id "mapCanvas").
// The widget starts hidden.
type MapWidget interface {
	Create(center Coordinate, zoom int)
	PlaceMarker(at Coordinate, draggable bool)
	MoveMarker(to Coordinate)
	Show()
	Resize()
	PanTo(to Coordinate)
}

// SuggestionBox is the dynamically managed dropdown container.
// Implementations must not call back into the Controller synchronously;
// onSelect runs later, when the user picks the entry.
type SuggestionBox interface {
	// Exists reports whether the box element is present in its wrapper.
	Exists() bool
	// Create appends an empty box to the wrapper.
	Create()
	// Clear removes every entry but keeps the box.
	Clear()
	// Append adds one entry.
	Append(name string, onSelect func())
	// Remove empties the wrapper, box included.
	Remove()
}

// QueryStore persists the last submitted query (a cookie in the browser).
type QueryStore interface {
	Load() (string, bool)
	Save(query string) error
}

// Location exposes the host of the page the client runs on.
type Location interface {
	Host() string
}

// Request is one dispatched query.
type Request struct {
	// Seq increases by one with every dispatched query, starting at 1.
	Seq uint64
	URL string
}

// Response is what a Transport hands back for a Request.
// A zero Seq means the transport could not attribute the response.
type Response struct {
	Seq     uint64
	Payload Payload
	Err     error
}

// Transport issues a cross-origin script-style GET and calls deliver once
// the callback fires. Send must not block on the network. deliver may be
// called from any goroutine, or never if the backend does not answer.
type Transport interface {
	Send(ctx context.Context, req Request, deliver func(Response))
}

type staticLocation string

func (l staticLocation) Host() string { return string(l) }
