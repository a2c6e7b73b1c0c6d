package geosuggest

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// --- Mocks ---

type fakeInput struct {
	value string
	sets  []string
}

func (f *fakeInput) Value() string { return f.value }

func (f *fakeInput) SetValue(v string) {
	f.value = v
	f.sets = append(f.sets, v)
}

type fakeMap struct {
	created   bool
	center    Coordinate
	zoom      int
	marker    Coordinate
	draggable bool
	shows     int
	resizes   int
	pans      []Coordinate
	moves     []Coordinate
}

func (f *fakeMap) Create(center Coordinate, zoom int) {
	f.created = true
	f.center = center
	f.zoom = zoom
}

func (f *fakeMap) PlaceMarker(at Coordinate, draggable bool) {
	f.marker = at
	f.draggable = draggable
}

func (f *fakeMap) MoveMarker(to Coordinate) {
	f.marker = to
	f.moves = append(f.moves, to)
}

func (f *fakeMap) Show()   { f.shows++ }
func (f *fakeMap) Resize() { f.resizes++ }

func (f *fakeMap) PanTo(to Coordinate) { f.pans = append(f.pans, to) }

type boxEntry struct {
	name     string
	onSelect func()
}

type fakeBox struct {
	exists  bool
	entries []boxEntry
	creates int
	clears  int
	removes int
	events  []string
}

func (f *fakeBox) Exists() bool { return f.exists }

func (f *fakeBox) Create() {
	f.exists = true
	f.creates++
	f.events = append(f.events, "create")
}

func (f *fakeBox) Clear() {
	f.entries = nil
	f.clears++
	f.events = append(f.events, "clear")
}

func (f *fakeBox) Append(name string, onSelect func()) {
	f.entries = append(f.entries, boxEntry{name: name, onSelect: onSelect})
}

func (f *fakeBox) Remove() {
	f.exists = false
	f.entries = nil
	f.removes++
	f.events = append(f.events, "remove")
}

func (f *fakeBox) names() []string {
	out := make([]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.name
	}
	return out
}

func (f *fakeBox) click(t *testing.T, name string) {
	t.Helper()
	for _, e := range f.entries {
		if e.name == name {
			e.onSelect()
			return
		}
	}
	t.Fatalf("no entry %q in %v", name, f.names())
}

type fakeStore struct {
	value  string
	stored bool
	saves  []string
	err    error
}

func (f *fakeStore) Load() (string, bool) { return f.value, f.stored }

func (f *fakeStore) Save(q string) error {
	f.saves = append(f.saves, q)
	if f.err != nil {
		return f.err
	}
	f.value = q
	f.stored = true
	return nil
}

// fakeTransport records requests and lets tests deliver responses in any order.
type fakeTransport struct {
	mu       sync.Mutex
	requests []Request
	deliver  map[uint64]func(Response)
	// onSend, if set, is called for every request; used to assert ordering.
	onSend func(Request)
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{deliver: make(map[uint64]func(Response))}
}

func (f *fakeTransport) Send(_ context.Context, req Request, deliver func(Response)) {
	if f.onSend != nil {
		f.onSend(req)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	f.deliver[req.Seq] = deliver
}

func (f *fakeTransport) respond(t *testing.T, seq uint64, matches ...Match) {
	t.Helper()
	f.mu.Lock()
	d, ok := f.deliver[seq]
	f.mu.Unlock()
	if !ok {
		t.Fatalf("no request with seq %d", seq)
	}
	d(Response{Seq: seq, Payload: Payload{Matches: matches}})
}

func (f *fakeTransport) fail(t *testing.T, seq uint64, err error) {
	t.Helper()
	f.mu.Lock()
	d, ok := f.deliver[seq]
	f.mu.Unlock()
	if !ok {
		t.Fatalf("no request with seq %d", seq)
	}
	d(Response{Seq: seq, Err: err})
}

// --- Helpers ---

type harness struct {
	input     *fakeInput
	widget    *fakeMap
	box       *fakeBox
	store     *fakeStore
	transport *fakeTransport
	ctrl      *Controller
}

const testHost = "localhost:8888"

func newHarness(t *testing.T, variant Variant, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		input:     &fakeInput{},
		widget:    &fakeMap{},
		box:       &fakeBox{},
		store:     &fakeStore{},
		transport: newFakeTransport(),
	}
	all := []Option{
		WithVariant(variant),
		WithInput(h.input),
		WithMap(h.widget),
		WithSuggestionBox(h.box),
		WithQueryStore(h.store),
		WithTransport(h.transport),
		WithHost(testHost),
	}
	ctrl, err := New(append(all, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.ctrl = ctrl
	return h
}

func (h *harness) typeQuery(q string) Request {
	h.input.value = q
	return h.ctrl.SubmitQuery(context.Background())
}

var errNetwork = errors.New("connection refused")
