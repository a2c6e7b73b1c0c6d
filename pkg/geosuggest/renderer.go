package geosuggest

import "github.com/kailas-cloud/geosuggest/internal/domain/match"

// suggestionRenderer turns a match list into dropdown entries.
type suggestionRenderer struct {
	box SuggestionBox
}

// render reuses the box if present. Every match gets an entry, in order,
// bound to onSelect with its display name. An empty list leaves an empty box.
func (r *suggestionRenderer) render(list match.List, onSelect func(name string)) {
	if !r.box.Exists() {
		r.box.Create()
	} else {
		r.box.Clear()
	}
	for _, m := range list {
		name := m.Name()
		r.box.Append(name, func() { onSelect(name) })
	}
}

func (r *suggestionRenderer) remove() {
	r.box.Remove()
}
