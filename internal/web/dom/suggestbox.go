//go:build js && wasm

package dom

import (
	"syscall/js"

	"github.com/kailas-cloud/geosuggest/pkg/geosuggest"
)

const (
	boxClass  = "suggestionBox"
	listClass = "suggestionList"
	itemClass = "suggestion"
)

// SuggestionBox renders div.suggestionBox > ul.suggestionList > li.suggestion
// inside the wrapper element. Clicks are handed to post, never run inline.
type SuggestionBox struct {
	doc      js.Value
	wrapper  js.Value
	post     func(func())
	handlers []js.Func
}

var _ geosuggest.SuggestionBox = (*SuggestionBox)(nil)

// NewSuggestionBox manages the dropdown inside wrapper.
func NewSuggestionBox(doc, wrapper js.Value, post func(func())) *SuggestionBox {
	return &SuggestionBox{doc: doc, wrapper: wrapper, post: post}
}

func (b *SuggestionBox) box() js.Value {
	return b.wrapper.Call("querySelector", "."+boxClass)
}

func (b *SuggestionBox) Exists() bool {
	return b.box().Truthy()
}

func (b *SuggestionBox) Create() {
	box := b.doc.Call("createElement", "div")
	box.Set("className", boxClass)
	box.Call("appendChild", b.newList())
	b.wrapper.Call("appendChild", box)
}

func (b *SuggestionBox) Clear() {
	box := b.box()
	if !box.Truthy() {
		return
	}
	b.release()
	box.Set("innerHTML", "")
	box.Call("appendChild", b.newList())
}

func (b *SuggestionBox) Append(name string, onSelect func()) {
	list := b.wrapper.Call("querySelector", "."+boxClass+" ul."+listClass)
	if !list.Truthy() {
		return
	}
	li := b.doc.Call("createElement", "li")
	li.Set("className", itemClass)
	li.Set("textContent", name)

	cb := js.FuncOf(func(js.Value, []js.Value) any {
		b.post(onSelect)
		return nil
	})
	li.Call("addEventListener", "click", cb)
	b.handlers = append(b.handlers, cb)
	list.Call("appendChild", li)
}

func (b *SuggestionBox) Remove() {
	b.release()
	b.wrapper.Set("innerHTML", "")
}

func (b *SuggestionBox) newList() js.Value {
	ul := b.doc.Call("createElement", "ul")
	ul.Set("className", listClass)
	return ul
}

// release must run before the entries leave the DOM.
func (b *SuggestionBox) release() {
	for _, cb := range b.handlers {
		cb.Release()
	}
	b.handlers = nil
}
