//go:build js && wasm

package dom

import (
	"syscall/js"

	"github.com/kailas-cloud/geosuggest/pkg/geosuggest"
)

// hiddenClass keeps the map canvas out of the layout until the first position.
const hiddenClass = "hidden"

// MapWidget drives a Google Maps JS API map inside a container element.
// Create must run after the API has loaded, which is what the initMap
// callback guarantees.
type MapWidget struct {
	el     js.Value
	m      js.Value
	marker js.Value
}

var _ geosuggest.MapWidget = (*MapWidget)(nil)

// NewMapWidget wraps the map container.
func NewMapWidget(el js.Value) *MapWidget {
	return &MapWidget{el: el}
}

func mapsAPI() js.Value {
	return js.Global().Get("google").Get("maps")
}

func latLng(c geosuggest.Coordinate) js.Value {
	return mapsAPI().Get("LatLng").New(c.Lat, c.Lon)
}

func (w *MapWidget) Create(center geosuggest.Coordinate, zoom int) {
	w.m = mapsAPI().Get("Map").New(w.el, map[string]any{
		"center": latLng(center),
		"zoom":   zoom,
	})
}

func (w *MapWidget) PlaceMarker(at geosuggest.Coordinate, draggable bool) {
	w.marker = mapsAPI().Get("Marker").New(map[string]any{
		"position":  latLng(at),
		"map":       w.m,
		"draggable": draggable,
	})
}

func (w *MapWidget) MoveMarker(to geosuggest.Coordinate) {
	if !w.marker.Truthy() {
		return
	}
	w.marker.Call("setPosition", latLng(to))
}

func (w *MapWidget) Show() {
	w.el.Get("classList").Call("remove", hiddenClass)
}

// Resize makes the map re-measure its container, which was zero-sized while hidden.
func (w *MapWidget) Resize() {
	if !w.m.Truthy() {
		return
	}
	mapsAPI().Get("event").Call("trigger", w.m, "resize")
}

func (w *MapWidget) PanTo(to geosuggest.Coordinate) {
	if !w.m.Truthy() {
		return
	}
	w.m.Call("panTo", latLng(to))
}
