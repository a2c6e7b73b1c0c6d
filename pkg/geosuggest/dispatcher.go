package geosuggest

import (
	"net/url"
	"strings"
)

// BuildQueryURL returns http://<host>/?q=<query>. With encode=false the query
// is embedded byte for byte, so spaces and reserved characters reach the
// server unescaped.
func BuildQueryURL(host, query string, encode bool) string {
	if encode {
		query = url.QueryEscape(query)
	}
	return "http://" + host + "/?q=" + query
}

// queryDispatcher builds one Request per submitted query.
type queryDispatcher struct {
	location Location
	encode   bool
	seq      uint64
}

func (d *queryDispatcher) next(query string) Request {
	d.seq++
	return Request{
		Seq: d.seq,
		URL: BuildQueryURL(d.location.Host(), query, d.encode),
	}
}

func isBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}
