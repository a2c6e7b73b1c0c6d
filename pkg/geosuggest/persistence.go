package geosuggest

// LastQueryKey names the persisted query entry (the cookie name in the browser).
const LastQueryKey = "lastQuery"

// persistenceShim moves the last query between the store and the input.
type persistenceShim struct {
	store QueryStore
}

// restore writes the stored query into the input. Returns false if nothing was stored.
func (p *persistenceShim) restore(in Input) bool {
	q, ok := p.store.Load()
	if !ok {
		return false
	}
	in.SetValue(q)
	return true
}

func (p *persistenceShim) save(query string) error {
	return p.store.Save(query)
}
