//go:build js && wasm

// Command geosuggest-wasm is the browser client. Build with
// GOOS=js GOARCH=wasm and serve the result as geosuggest.wasm next to
// wasm_exec.js.
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/kailas-cloud/geosuggest/internal/transport/jsonp"
	"github.com/kailas-cloud/geosuggest/internal/web/dom"
	"github.com/kailas-cloud/geosuggest/pkg/geosuggest"
)

const (
	mapsScript      = "https://maps.googleapis.com/maps/api/js"
	lastQueryCookie = "lastQuery"
)

func main() {
	doc := dom.Document()
	body := doc.Get("body")

	level := slog.LevelInfo
	if dom.Attr(body, "data-log-level") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(doc, body, logger); err != nil {
		logger.Error("geosuggest client stopped", "err", err)
	}
}

func run(doc, body js.Value, logger *slog.Logger) error {
	ctx := context.Background()
	loop := dom.NewLoop()

	variant, ok := geosuggest.ParseVariant(dom.Attr(body, "data-variant"))
	if !ok {
		logger.Warn("unknown variant, using extended", "variant", dom.Attr(body, "data-variant"))
		variant = geosuggest.VariantExtended
	}
	policy, ok := geosuggest.ParseApplyPolicy(dom.Attr(body, "data-apply-policy"))
	if !ok {
		policy = geosuggest.LastResponseWins
	}
	callback := dom.Attr(body, "data-callback")
	if !jsonp.ValidCallback(callback) {
		callback = jsonp.DefaultCallback
	}

	inputEl, err := dom.ElementByID(doc, "query")
	if err != nil {
		return err
	}
	canvas, err := dom.ElementByID(doc, "mapCanvas")
	if err != nil {
		return err
	}
	input := dom.NewInput(inputEl)

	opts := []geosuggest.Option{
		geosuggest.WithVariant(variant),
		geosuggest.WithApplyPolicy(policy),
		geosuggest.WithInput(input),
		geosuggest.WithMap(dom.NewMapWidget(canvas)),
		geosuggest.WithTransport(dom.NewScriptTransport(doc, callback, loop.Post, logger)),
		geosuggest.WithLocation(dom.Location{}),
		geosuggest.WithLogger(logger),
	}
	if variant == geosuggest.VariantExtended {
		wrapper, err := dom.QuerySelector(doc, ".suggestionBoxWrapper")
		if err != nil {
			return err
		}
		opts = append(opts,
			geosuggest.WithSuggestionBox(dom.NewSuggestionBox(doc, wrapper, loop.Post)),
			geosuggest.WithQueryStore(dom.NewCookieStore(doc, lastQueryCookie)),
		)
	}

	ctrl, err := geosuggest.New(opts...)
	if err != nil {
		return err
	}

	js.Global().Set("initMap", js.FuncOf(func(js.Value, []js.Value) any {
		loop.Post(ctrl.InitMap)
		return nil
	}))
	input.OnKeyUp(func() {
		loop.Post(func() { ctrl.SubmitQuery(ctx) })
	})
	loop.Post(func() { ctrl.Start(ctx) })

	key := dom.Attr(doc.Call("querySelector", `meta[name="google-maps-key"]`), "content")
	if key == "" {
		logger.Warn("google-maps-key meta tag is empty, the map may refuse to load")
	}
	dom.LoadScript(doc, dom.ScriptSource(mapsScript, map[string]string{
		"key":      key,
		"callback": "initMap",
	}))

	logger.Info("geosuggest client started", "variant", variant.String(), "policy", policy.String())
	return loop.Run(ctx)
}
