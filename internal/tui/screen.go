// Package tui is the terminal front end: bubbletea renders what the
// geosuggest controller writes into an in-memory Screen.
package tui

import (
	"sync"

	"github.com/kailas-cloud/geosuggest/pkg/geosuggest"
)

// Entry is one line of the suggestion list.
type Entry struct {
	Name     string
	onSelect func()
}

// Select runs the entry's selection callback.
func (e Entry) Select() {
	if e.onSelect != nil {
		e.onSelect()
	}
}

// Snapshot is a consistent copy of the screen state.
type Snapshot struct {
	Query    string
	QueryRev uint64

	MapCreated bool
	MapVisible bool
	Center     geosuggest.Coordinate
	Zoom       int
	Marker     geosuggest.Coordinate
	Draggable  bool
	Resizes    int
	PannedTo   geosuggest.Coordinate

	BoxPresent bool
	Entries    []Entry
}

// Screen holds everything the controller can draw. Every mutation signals
// Changed without blocking.
type Screen struct {
	mu      sync.Mutex
	state   Snapshot
	changed chan struct{}
}

// NewScreen creates an empty screen with the map hidden.
func NewScreen() *Screen {
	return &Screen{changed: make(chan struct{}, 1)}
}

// Changed fires at least once after any number of mutations.
func (s *Screen) Changed() <-chan struct{} {
	return s.changed
}

// Snapshot returns a copy of the current state.
func (s *Screen) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state
	snap.Entries = append([]Entry(nil), s.state.Entries...)
	return snap
}

// TypeQuery records what the user typed. It does not bump QueryRev, so the
// text field is not rewritten under the cursor.
func (s *Screen) TypeQuery(q string) {
	s.mu.Lock()
	s.state.Query = q
	s.mu.Unlock()
}

// Input returns the controller's view of the query field.
func (s *Screen) Input() geosuggest.Input { return screenInput{s} }

// Map returns the map panel surface.
func (s *Screen) Map() geosuggest.MapWidget { return screenMap{s} }

// Box returns the suggestion list surface.
func (s *Screen) Box() geosuggest.SuggestionBox { return screenBox{s} }

func (s *Screen) update(fn func(st *Snapshot)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()

	select {
	case s.changed <- struct{}{}:
	default:
	}
}

type screenInput struct{ s *Screen }

func (i screenInput) Value() string {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	return i.s.state.Query
}

func (i screenInput) SetValue(v string) {
	i.s.update(func(st *Snapshot) {
		st.Query = v
		st.QueryRev++
	})
}

type screenMap struct{ s *Screen }

func (m screenMap) Create(center geosuggest.Coordinate, zoom int) {
	m.s.update(func(st *Snapshot) {
		st.MapCreated = true
		st.Center = center
		st.Zoom = zoom
	})
}

func (m screenMap) PlaceMarker(at geosuggest.Coordinate, draggable bool) {
	m.s.update(func(st *Snapshot) {
		st.Marker = at
		st.Draggable = draggable
	})
}

func (m screenMap) MoveMarker(to geosuggest.Coordinate) {
	m.s.update(func(st *Snapshot) { st.Marker = to })
}

func (m screenMap) Show() {
	m.s.update(func(st *Snapshot) { st.MapVisible = true })
}

func (m screenMap) Resize() {
	m.s.update(func(st *Snapshot) { st.Resizes++ })
}

func (m screenMap) PanTo(to geosuggest.Coordinate) {
	m.s.update(func(st *Snapshot) { st.PannedTo = to })
}

type screenBox struct{ s *Screen }

func (b screenBox) Exists() bool {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return b.s.state.BoxPresent
}

func (b screenBox) Create() {
	b.s.update(func(st *Snapshot) {
		st.BoxPresent = true
		st.Entries = nil
	})
}

func (b screenBox) Clear() {
	b.s.update(func(st *Snapshot) { st.Entries = nil })
}

func (b screenBox) Append(name string, onSelect func()) {
	b.s.update(func(st *Snapshot) {
		if !st.BoxPresent {
			return
		}
		st.Entries = append(st.Entries, Entry{Name: name, onSelect: onSelect})
	})
}

func (b screenBox) Remove() {
	b.s.update(func(st *Snapshot) {
		st.BoxPresent = false
		st.Entries = nil
	})
}
