// Package workspace keeps one backend client, query cache and token store per
// signed-in console session.
package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"backoffice-console/api"
	"backoffice-console/logger"
	"backoffice-console/queries"
	"backoffice-console/query"
	"backoffice-console/session"
)

// Workspace is everything one operator's browser session reads through.
type Workspace struct {
	ID      string
	Queries *queries.Queries
	Store   session.Store
}

// StoreFactory returns the token store of one session id.
type StoreFactory func(id string) session.Store

type Options struct {
	BaseURL      string
	Timeout      time.Duration
	Stale        queries.StaleTimes
	GCTime       time.Duration
	NewStore     StoreFactory
	Logger       logrus.FieldLogger
	APIMetrics   *api.Metrics
	CacheMetrics *query.Metrics
}

// Registry owns the live workspaces. A workspace leaves the registry at
// logout or the first time its backend client sees a 401.
type Registry struct {
	opts Options
	log  *logrus.Entry

	mu    sync.RWMutex
	items map[string]*Workspace
}

func NewRegistry(opts Options) *Registry {
	if opts.NewStore == nil {
		opts.NewStore = func(string) session.Store { return session.NewMemoryStore() }
	}
	return &Registry{
		opts:  opts,
		log:   logger.Component(opts.Logger, "workspace"),
		items: make(map[string]*Workspace),
	}
}

// Create starts an empty workspace under a fresh id. It holds no token until
// its Queries.Login succeeds.
func (r *Registry) Create() *Workspace {
	ws := r.build(uuid.NewString())
	r.mu.Lock()
	r.items[ws.ID] = ws
	r.mu.Unlock()
	return ws
}

// Get returns the workspace of id. A session that survives in a shared store
// (Redis) across a console restart is resumed.
func (r *Registry) Get(ctx context.Context, id string) (*Workspace, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	ws, ok := r.items[id]
	r.mu.RUnlock()
	if ok {
		return ws, true
	}

	store := r.opts.NewStore(id)
	s, err := store.Get(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			r.log.WithError(err).Warn("failed to resume session")
		}
		return nil, false
	}
	if s.Expired(time.Now()) {
		_ = store.Clear(ctx)
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[id]; ok {
		return existing, true
	}
	ws = r.build(id)
	r.items[id] = ws
	r.log.WithField("admin", s.Email).Info("session resumed")
	return ws, true
}

// Drop forgets the workspace and clears its token store.
func (r *Registry) Drop(ctx context.Context, id string) {
	r.mu.Lock()
	ws, ok := r.items[id]
	delete(r.items, id)
	r.mu.Unlock()
	if !ok {
		return
	}
	if err := ws.Store.Clear(ctx); err != nil {
		r.log.WithError(err).Warn("failed to clear session store")
	}
	ws.Queries.Cache().Clear()
}

// Queries lists the live workspaces for background revalidation.
func (r *Registry) Queries() []*queries.Queries {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*queries.Queries, 0, len(r.items))
	for _, ws := range r.items {
		out = append(out, ws.Queries)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Registry) build(id string) *Workspace {
	store := r.opts.NewStore(id)
	log := r.log.WithField("session", shortID(id))

	client := api.NewClient(api.Options{
		BaseURL: r.opts.BaseURL,
		Timeout: r.opts.Timeout,
		Store:   store,
		Navigator: api.NavigatorFunc(func() {
			log.Info("backend rejected session, signing out")
			r.mu.Lock()
			delete(r.items, id)
			r.mu.Unlock()
		}),
		Logger:  log,
		Metrics: r.opts.APIMetrics,
	})
	cache := query.NewCache(query.Options{
		GCTime:  r.opts.GCTime,
		Logger:  log,
		Metrics: r.opts.CacheMetrics,
	})
	q := queries.New(client, cache, queries.Options{
		Stale:   r.opts.Stale,
		Session: store,
		Logger:  log,
	})
	return &Workspace{ID: id, Queries: q, Store: store}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
