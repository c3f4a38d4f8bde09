package httpserver

import (
	"net/http"

	"hotfire/backend/services/runs-service/internal/http/handlers"
	"hotfire/backend/services/runs-service/internal/http/middleware"
	"hotfire/backend/services/runs-service/internal/metrics"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	RunsHandlers  *handlers.RunsHandlers
	HealthHandler http.HandlerFunc
	// Optional.
	WSHandler http.HandlerFunc
	Metrics   *metrics.Metrics
	StaticDir string
}

// NewRouter wires HTTP routes with middleware. Data endpoints go through
// authMiddleware; the run list, health, metrics and static files stay open.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, handler http.HandlerFunc, protected bool) {
		var mw []func(http.Handler) http.Handler
		mw = append(mw, middleware.Observe(deps.Metrics, pattern))
		if protected {
			mw = append(mw, authMiddleware)
		}
		mux.Handle(pattern, method(http.MethodGet, middleware.Chain(handler, mw...)))
	}

	route("/health", deps.HealthHandler, false)
	route("/runs", deps.RunsHandlers.List, false)
	route("/run/{name}", deps.RunsHandlers.Records, true)
	route("/charts/{name}", deps.RunsHandlers.Charts, true)
	route("/download/{name}", deps.RunsHandlers.Download, true)
	route("/access-log", deps.RunsHandlers.AccessLog, true)

	if deps.WSHandler != nil {
		mux.Handle("/ws/runs", method(http.MethodGet, deps.WSHandler))
	}
	if deps.Metrics != nil {
		mux.Handle("/metrics", method(http.MethodGet, deps.Metrics.Handler()))
	}
	if deps.StaticDir != "" {
		mux.Handle("/", method(http.MethodGet, http.FileServer(http.Dir(deps.StaticDir))))
	}
	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected && !(expected == http.MethodGet && r.Method == http.MethodHead) {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
