package geosuggest

// Initial map placement of the demo page.
var (
	DefaultCenter = Coordinate{Lat: 49.23299, Lon: 6.97633}
	DefaultZoom   = 11
)

// MapState is the observable state of the map adapter.
type MapState struct {
	// Ready becomes true once the widget is initialized and never resets.
	Ready bool
	// Hidden starts true and flips to false on the first display.
	Hidden bool
}

// mapAdapter wraps the map widget. Marker mutations require ready.
type mapAdapter struct {
	widget MapWidget
	state  MapState
}

func newMapAdapter(w MapWidget) *mapAdapter {
	return &mapAdapter{widget: w, state: MapState{Hidden: true}}
}

// initialize centers the widget on DefaultCenter with a fixed marker.
// Returns false if the map was already initialized.
func (m *mapAdapter) initialize() bool {
	if m.state.Ready {
		return false
	}
	m.widget.Create(DefaultCenter, DefaultZoom)
	m.widget.PlaceMarker(DefaultCenter, false)
	m.state.Ready = true
	return true
}

// setPosition moves the marker and recenters. Returns false when dropped
// because the widget is not ready; nothing is queued.
func (m *mapAdapter) setPosition(at Coordinate) bool {
	if !m.state.Ready {
		return false
	}
	m.widget.MoveMarker(at)
	if m.state.Hidden {
		m.widget.Show()
		m.state.Hidden = false
	}
	m.widget.Resize()
	m.widget.PanTo(at)
	return true
}
