// Package jsonp encodes and decodes the script payloads exchanged between the
// place search page and its host: cb({"matches": [[name, lat, lon], ...]}).
package jsonp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/geosuggest/internal/domain"
	"github.com/kailas-cloud/geosuggest/internal/domain/match"
)

// DefaultCallback is the page function every result script invokes.
const DefaultCallback = "queryServerCallback"

var (
	callbackRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)
	// Object literals written by hand use a bare key: {matches: [...]}.
	bareKeyRegex = regexp.MustCompile(`^\{\s*matches\s*:`)
)

// ValidCallback reports whether name is a dotted JavaScript identifier.
func ValidCallback(name string) bool {
	return callbackRegex.MatchString(name)
}

// Encode renders payload as a script invoking callback.
func Encode(callback string, payload match.Payload) ([]byte, error) {
	if !ValidCallback(callback) {
		return nil, fmt.Errorf("invalid callback name %q", callback)
	}
	if payload.Matches == nil {
		payload.Matches = match.List{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(callback) + len(body) + 2)
	buf.WriteString(callback)
	buf.WriteByte('(')
	buf.Write(body)
	buf.WriteByte(')')
	return buf.Bytes(), nil
}

// Decode parses a JSONP script or a bare JSON object and returns the callback
// name (empty for bare JSON) together with the payload.
func Decode(body []byte) (string, match.Payload, error) {
	callback, object, err := unwrap(body)
	if err != nil {
		return "", match.Payload{}, err
	}

	if loc := bareKeyRegex.FindIndex(object); loc != nil {
		object = append([]byte(`{"matches":`), object[loc[1]:]...)
	}
	if !gjson.ValidBytes(object) {
		return "", match.Payload{}, fmt.Errorf("%w: invalid JSON object", domain.ErrMalformedPayload)
	}

	list, err := parseMatches(gjson.GetBytes(object, "matches"))
	if err != nil {
		return "", match.Payload{}, err
	}
	return callback, match.Payload{Matches: list}, nil
}

func unwrap(body []byte) (string, []byte, error) {
	body = bytes.TrimSpace(body)
	body = bytes.TrimSpace(bytes.TrimSuffix(body, []byte(";")))
	if len(body) == 0 {
		return "", nil, fmt.Errorf("%w: empty body", domain.ErrMalformedPayload)
	}
	if body[0] == '{' {
		return "", body, nil
	}

	open := bytes.IndexByte(body, '(')
	if open <= 0 || body[len(body)-1] != ')' {
		return "", nil, fmt.Errorf("%w: not a callback invocation", domain.ErrMalformedPayload)
	}
	callback := string(bytes.TrimSpace(body[:open]))
	if !ValidCallback(callback) {
		return "", nil, fmt.Errorf("%w: invalid callback name %q", domain.ErrMalformedPayload, callback)
	}
	return callback, bytes.TrimSpace(body[open+1 : len(body)-1]), nil
}

func parseMatches(res gjson.Result) (match.List, error) {
	if !res.Exists() {
		return nil, fmt.Errorf("%w: missing matches", domain.ErrMalformedPayload)
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: matches is not an array", domain.ErrMalformedPayload)
	}

	entries := res.Array()
	list := make(match.List, 0, len(entries))
	for i, e := range entries {
		parts := e.Array()
		if !e.IsArray() || len(parts) != 3 {
			return nil, fmt.Errorf("%w: match %d is not a [name, lat, lon] triple", domain.ErrMalformedPayload, i)
		}
		if parts[0].Type != gjson.String || parts[1].Type != gjson.Number || parts[2].Type != gjson.Number {
			return nil, fmt.Errorf("%w: match %d has wrong element types", domain.ErrMalformedPayload, i)
		}
		list = append(list, match.New(parts[0].String(), parts[1].Float(), parts[2].Float()))
	}
	return list, nil
}
