package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"backoffice-console/middleware"
	"backoffice-console/queries"
)

// RouterOptions wires the console's outer surface.
type RouterOptions struct {
	Limiter    middleware.Limiter
	LoginLimit middleware.RateLimitConfig
	Gatherer   prometheus.Gatherer
	// Ping reports the health of the session backend; nil means in-process.
	Ping func(ctx context.Context) error
}

func (c *Console) NewRouter(opts RouterOptions) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.Logging(c.log))

	startTime := time.Now()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status     string `json:"status"`
			Time       string `json:"time"`
			Sessions   string `json:"sessions"`
			Workspaces int    `json:"workspaces"`
			Uptime     string `json:"uptime"`
			GoVersion  string `json:"go_version"`
		}{
			Status:     "ok",
			Time:       time.Now().Format(time.RFC3339),
			Sessions:   "connected",
			Workspaces: c.registry.Len(),
			Uptime:     time.Since(startTime).Round(time.Second).String(),
			GoVersion:  runtime.Version(),
		}
		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := opts.Ping(ctx); err != nil {
				health.Status = "degraded"
				health.Sessions = "error"
			}
		}
		SendJSON(w, http.StatusOK, health)
	}).Methods(http.MethodGet)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	router.HandleFunc(middleware.LoginPath, c.LoginPage).Methods(http.MethodGet)
	login := http.Handler(http.HandlerFunc(c.Login))
	if opts.Limiter != nil {
		login = middleware.RateLimit(opts.Limiter, opts.LoginLimit, c.log)(login)
	}
	router.Handle("/auth/login", login).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", c.Logout).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireWorkspace(c.cookies, c.cookieName, c.registry, c.log))
	api.HandleFunc("/me", c.Me).Methods(http.MethodGet)
	api.HandleFunc("/users/export", export(c, "users", (*queries.Queries).ExportUsers)).Methods(http.MethodGet)
	api.HandleFunc("/transactions/export", export(c, "transactions", (*queries.Queries).ExportTransactions)).Methods(http.MethodGet)
	c.registerViews(api)
	c.registerWrites(api)

	return router
}
