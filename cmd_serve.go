package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"backoffice-console/api"
	"backoffice-console/handlers"
	"backoffice-console/middleware"
	"backoffice-console/query"
	"backoffice-console/session"
	"backoffice-console/worker"
	"backoffice-console/workspace"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web console",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log := cli.cfg, cli.log
	if cfg.Session.SecretGenerated {
		log.Warn("SESSION_SECRET not set, cookies will not survive a restart")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var (
		redisClient *redis.Client
		newStore    workspace.StoreFactory
		limiter     middleware.Limiter = middleware.NewMemoryLimiter()
		ping        func(ctx context.Context) error
	)
	if cfg.Session.Backend == "redis" {
		client, err := session.Connect(cli.ctx(cmd), cfg.Session.RedisURL)
		if err != nil {
			return err
		}
		redisClient = client
		newStore = func(id string) session.Store { return session.NewRedisStore(client, id) }
		limiter = middleware.NewRedisLimiter(client)
		ping = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		log.Info("Successfully connected to Redis")
	} else {
		log.WithField("backend", cfg.Session.Backend).Info("console sessions kept in memory")
	}

	registry := workspace.NewRegistry(workspace.Options{
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout,
		Stale:        staleTimes(cfg),
		GCTime:       cfg.Cache.GCTime,
		NewStore:     newStore,
		Logger:       log,
		APIMetrics:   api.NewMetrics(reg),
		CacheMetrics: query.NewMetrics(reg),
	})

	cookies := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	console := handlers.NewConsole(registry, cookies, cfg.Session.CookieName, log)
	router := console.NewRouter(handlers.RouterOptions{
		Limiter: limiter,
		LoginLimit: middleware.RateLimitConfig{
			Requests: cfg.Server.LoginAttempts,
			Window:   cfg.Server.LoginWindow,
			Message:  "Too many login attempts. Please try again later.",
		},
		Gatherer: reg,
		Ping:     ping,
	})

	revalidator := worker.NewRevalidator(registry.Queries, worker.Options{
		Interval:      cfg.Cache.UnreadInterval,
		SweepInterval: cfg.Cache.GCTime,
		Timeout:       cfg.API.Timeout,
		Logger:        log,
	})
	revalidator.Start()
	defer revalidator.Stop()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   cfg.API.Timeout + 15*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Server.Port).WithField("api", cfg.API.BaseURL).Info("console starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
		log.Info("Shutdown signal received, gracefully shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Server forced to shutdown")
	}

	log.Info("Stopping revalidator...")
	revalidator.Stop()

	if redisClient != nil {
		log.Info("Closing Redis connections...")
		redisClient.Close()
	}

	log.Info("Console exited properly")
	return nil
}
