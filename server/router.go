package server

import (
	"net/http"

	"checklist/server/domain"
	"checklist/server/handler"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouteConfig struct {
	SiteURL    string
	AuthSecret []byte
	Status     handler.StatusProvider
	Controller handler.Controller
	PubSub     domain.PubSub
	Hub        *domain.Hub
	Endpoint   []domain.EndpointOption
}

func Route(cfg RouteConfig) http.Handler {
	checklist := handler.NewChecklistHandler(cfg.SiteURL, cfg.Status, cfg.Hub, cfg.Controller)
	protect := func(h http.HandlerFunc) http.Handler {
		return handler.RequireToken(cfg.AuthSecret, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", checklist.Redirect)
	mux.HandleFunc("GET /url", checklist.GetURL)
	mux.Handle("PUT /url", protect(checklist.PutURL))
	mux.HandleFunc("GET /state", checklist.GetState)
	mux.Handle("POST /arm", protect(checklist.PostArm))
	mux.Handle("GET /healthz", handler.NewHealthHandler())
	mux.Handle("GET /bridge.js", handler.NewBridgeHandler())
	mux.Handle("/ws", handler.NewAcceptHandler(cfg.PubSub, cfg.Hub, cfg.AuthSecret, cfg.Endpoint...))

	return otelhttp.NewHandler(mux, "checklist",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			// 長寿命の websocket とヘルスチェックはトレースしない
			return r.URL.Path != "/ws" && r.URL.Path != "/healthz"
		}),
	)
}
