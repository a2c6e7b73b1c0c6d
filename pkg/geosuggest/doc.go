// Package geosuggest is the client half of the place search demo: it turns
// keystrokes in a query field into JSONP requests against the page host,
// caches the returned matches, renders them as a suggestion dropdown and
// plots the chosen match on a map widget.
//
// The package owns no UI toolkit. A Controller drives small surfaces
// (Input, MapWidget, SuggestionBox, QueryStore, Transport, Location) that a
// front end implements: the browser build binds them to the DOM and the
// Google Maps API, the terminal build to bubbletea views.
//
// # Simple variant
//
// The first match of every response is shown on the map right away:
//
//	c, _ := geosuggest.New(
//	    geosuggest.WithVariant(geosuggest.VariantSimple),
//	    geosuggest.WithInput(input),
//	    geosuggest.WithMap(widget),
//	    geosuggest.WithTransport(transport),
//	    geosuggest.WithHost("localhost:8888"),
//	)
//	c.InitMap()
//	c.SubmitQuery(ctx) // on every keyup
//
// # Extended variant
//
// Responses fill a dropdown; clicking an entry rewrites the input and moves
// the map. The last query survives reloads through a QueryStore:
//
//	c, _ := geosuggest.New(
//	    geosuggest.WithInput(input),
//	    geosuggest.WithMap(widget),
//	    geosuggest.WithSuggestionBox(box),
//	    geosuggest.WithQueryStore(cookies),
//	    geosuggest.WithTransport(transport),
//	    geosuggest.WithHost("localhost:8888"),
//	)
//	c.Start(ctx)
package geosuggest
