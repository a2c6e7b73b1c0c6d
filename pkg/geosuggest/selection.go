package geosuggest

import (
	"fmt"
	"time"
)

// Select is the click handler of a dropdown entry. It looks up the first
// cached match named name, closes the dropdown, writes the name into the
// input and shows the match on the map.
//
// A name that is not cached leaves dropdown, input and map untouched and
// returns false.
func (c *Controller) Select(name string) bool {
	start := time.Now()

	c.mu.Lock()
	if c.renderer == nil {
		c.mu.Unlock()
		c.obs.observe("select", start, fmt.Errorf("%w: simple variant has no dropdown", errDropped))
		return false
	}
	m, ok := c.results.lookup(name)
	if !ok {
		c.mu.Unlock()
		c.obs.observe("select", start, fmt.Errorf("select %q: %w", name, ErrMatchNotFound))
		return false
	}
	c.renderer.remove()
	c.input.SetValue(m.Name())
	c.mapView.setPosition(Coordinate{Lat: m.Lat(), Lon: m.Lon()})
	c.phase = PhaseIdle
	c.mu.Unlock()

	c.obs.observe("select", start, nil, "name", name)
	return true
}
