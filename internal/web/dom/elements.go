//go:build js && wasm

package dom

import (
	"errors"
	"fmt"
	"net/url"
	"syscall/js"

	"github.com/kailas-cloud/geosuggest/pkg/geosuggest"
)

// ErrCookiesDisabled is returned by CookieStore.Save when the browser refuses cookies.
var ErrCookiesDisabled = errors.New("cookies disabled")

// Document returns window.document.
func Document() js.Value {
	return js.Global().Get("document")
}

// ElementByID looks up a required element.
func ElementByID(doc js.Value, id string) (js.Value, error) {
	el := doc.Call("getElementById", id)
	if !el.Truthy() {
		return js.Value{}, fmt.Errorf("element #%s not found", id)
	}
	return el, nil
}

// QuerySelector looks up a required element by CSS selector.
func QuerySelector(doc js.Value, selector string) (js.Value, error) {
	el := doc.Call("querySelector", selector)
	if !el.Truthy() {
		return js.Value{}, fmt.Errorf("element %s not found", selector)
	}
	return el, nil
}

// Attr returns an attribute value, or "" when it or the element is absent.
func Attr(el js.Value, name string) string {
	if !el.Truthy() {
		return ""
	}
	v := el.Call("getAttribute", name)
	if v.IsNull() || v.IsUndefined() {
		return ""
	}
	return v.String()
}

// Input is the query text field.
type Input struct {
	el js.Value
}

var _ geosuggest.Input = (*Input)(nil)

// NewInput wraps a text input element.
func NewInput(el js.Value) *Input {
	return &Input{el: el}
}

func (i *Input) Value() string { return i.el.Get("value").String() }

func (i *Input) SetValue(v string) { i.el.Set("value", v) }

// OnKeyUp registers fn for keyup events. The returned func unregisters it.
func (i *Input) OnKeyUp(fn func()) func() {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	i.el.Call("addEventListener", "keyup", cb)
	return func() {
		i.el.Call("removeEventListener", "keyup", cb)
		cb.Release()
	}
}

// CookieStore keeps the last query in a session cookie.
type CookieStore struct {
	doc  js.Value
	name string
}

var _ geosuggest.QueryStore = (*CookieStore)(nil)

// NewCookieStore stores values under the given cookie name.
func NewCookieStore(doc js.Value, name string) *CookieStore {
	return &CookieStore{doc: doc, name: name}
}

func (s *CookieStore) Load() (string, bool) {
	return cookieValue(s.doc.Get("cookie").String(), s.name)
}

func (s *CookieStore) Save(query string) error {
	nav := js.Global().Get("navigator")
	if nav.Truthy() && nav.Get("cookieEnabled").Type() == js.TypeBoolean && !nav.Get("cookieEnabled").Bool() {
		return ErrCookiesDisabled
	}
	s.doc.Set("cookie", formatCookie(s.name, query))
	return nil
}

// Location reads the host of the current page.
type Location struct{}

var _ geosuggest.Location = Location{}

func (Location) Host() string {
	return js.Global().Get("location").Get("host").String()
}

// ScriptSource returns a URL for a script tag with the given query values added.
func ScriptSource(base string, params map[string]string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// LoadScript appends an async script tag to the document head.
func LoadScript(doc js.Value, src string) {
	el := doc.Call("createElement", "script")
	el.Set("async", true)
	el.Set("src", src)
	doc.Get("head").Call("appendChild", el)
}
