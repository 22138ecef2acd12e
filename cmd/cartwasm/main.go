//go:build js && wasm

// Command cartwasm is the browser module behind the recipe cards' cart and
// favorite controls. Build with GOOS=js GOARCH=wasm and load it with the Go
// wasm_exec.js loader.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"syscall/js"

	"groceryhelper/internal/config"
	"groceryhelper/internal/dom/jsdom"
	"groceryhelper/internal/interact"
	"groceryhelper/internal/recipeapi"
	"groceryhelper/internal/toast"
)

func main() {
	body, ok := jsdom.Body()
	if !ok {
		slog.Error("document has no body, not binding recipe controls")
		return
	}

	origin := js.Global().Get("location").Get("origin").String()
	cfg, err := config.FromDataset(body.Dataset(), origin)
	if err != nil {
		slog.Error("invalid page configuration", "error", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// net/http only uses fetch when the transport has no custom dialer.
	cfg.API.HTTPClient = &http.Client{}
	api, err := recipeapi.NewClient(cfg.API, logger)
	if err != nil {
		logger.Error("failed to create recipe api client", "error", err)
		return
	}

	var notifier toast.Notifier
	t, err := toast.Find(body, toast.WithShow(jsdom.BootstrapToastShow(toast.Selector)))
	if err != nil {
		logger.Error("toast unavailable, outcomes will only be logged", "error", err)
		notifier = toast.LogNotifier{Logger: logger}
	} else {
		notifier = t
	}

	handler := interact.NewHandler(api, notifier,
		interact.WithMaxDepth(cfg.Handler.MaxDepth),
		interact.WithLogger(logger),
	)

	ctx := context.Background()
	release := body.On("click", func(ev jsdom.Event) {
		target, ok := ev.Target()
		if !ok {
			return
		}
		if handler.Dispatch(ctx, target) > 0 {
			ev.PreventDefault()
		}
	})
	defer release()

	logger.Info("recipe controls bound", "api", cfg.API.BaseURL, "max_depth", cfg.Handler.MaxDepth)
	select {}
}
