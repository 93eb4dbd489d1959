// Package queries binds every service function to the query cache: reads get
// a namespace and a stale time, writes get the namespaces they invalidate.
package queries

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"backoffice-console/logger"
	"backoffice-console/models"
	"backoffice-console/query"
	"backoffice-console/services"
	"backoffice-console/session"
)

// Cache namespaces.
const (
	NSProfile             = "profile"
	NSDashboardStats      = "dashboard-stats"
	NSUsers               = "users"
	NSUser                = "user"
	NSUserStats           = "user-stats"
	NSUserTransactions    = "user-transactions"
	NSTransactions        = "transactions"
	NSTransaction         = "transaction"
	NSTransactionStats    = "transaction-stats"
	NSServiceTransactions = "service-transactions"
	NSServiceStats        = "service-stats"
	NSNetworks            = "networks"
	NSDataPlans           = "data-plans"
	NSDiscos              = "discos"
	NSTVProviders         = "tv-providers"
	NSAdmins              = "admins"
	NSAdmin               = "admin"
	NSAdminStats          = "admin-stats"
	NSRoles               = "roles"
	NSPermissions         = "permissions"
	NSNewsletters         = "newsletters"
	NSNewsletter          = "newsletter"
	NSNotifications       = "notifications"
	NSUnread              = "notifications-unread"
)

// StaleTimes groups reads by how quickly their data changes.
type StaleTimes struct {
	Default   time.Duration // lists and details
	Stats     time.Duration
	Reference time.Duration // networks, plans, discos, providers, permissions
	Unread    time.Duration
}

func DefaultStaleTimes() StaleTimes {
	return StaleTimes{
		Default:   time.Minute,
		Stats:     5 * time.Minute,
		Reference: 30 * time.Minute,
		Unread:    30 * time.Second,
	}
}

type Options struct {
	Stale    StaleTimes
	Session  session.Store
	Notifier query.Notifier
	Logger   logrus.FieldLogger
}

// Queries is the read/write surface the CLI and the console server use.
type Queries struct {
	client   services.Client
	cache    *query.Cache
	stale    StaleTimes
	session  session.Store
	notifier query.Notifier
	log      *logrus.Entry
}

func New(client services.Client, cache *query.Cache, opts Options) *Queries {
	stale := opts.Stale
	defaults := DefaultStaleTimes()
	if stale.Default <= 0 {
		stale.Default = defaults.Default
	}
	if stale.Stats <= 0 {
		stale.Stats = defaults.Stats
	}
	if stale.Reference <= 0 {
		stale.Reference = defaults.Reference
	}
	if stale.Unread <= 0 {
		stale.Unread = defaults.Unread
	}
	store := opts.Session
	if store == nil {
		store = session.NewMemoryStore()
	}
	return &Queries{
		client:   client,
		cache:    cache,
		stale:    stale,
		session:  store,
		notifier: opts.Notifier,
		log:      logger.Component(opts.Logger, "queries"),
	}
}

// WithNotifier returns a copy whose mutations report to n. The cache is
// shared with q.
func (q *Queries) WithNotifier(n query.Notifier) *Queries {
	c := *q
	c.notifier = n
	return &c
}

func (q *Queries) Cache() *query.Cache {
	return q.cache
}

func (q *Queries) Stale() StaleTimes {
	return q.stale
}

// read fetches the data part of an envelope through the cache.
func read[T any](ctx context.Context, q *Queries, key query.Key, stale time.Duration, fn func(ctx context.Context, c services.Client) (models.Envelope[T], error)) (T, error) {
	return query.Fetch(ctx, q.cache, key, stale, func(ctx context.Context) (T, error) {
		env, err := fn(ctx, q.client)
		return env.Data, err
	})
}

// write runs one service call as a mutation and reports the backend message.
func write[Req, Res any](ctx context.Context, q *Queries, name string, req Req, fn func(ctx context.Context, c services.Client, req Req) (models.Envelope[Res], error), invalidates ...string) (models.Envelope[Res], error) {
	m := query.Mutation[Req, models.Envelope[Res]]{
		Name: name,
		Do: func(ctx context.Context, req Req) (models.Envelope[Res], error) {
			return fn(ctx, q.client, req)
		},
		Invalidates: invalidates,
		Describe:    func(env models.Envelope[Res]) string { return env.Message },
	}
	return m.Run(ctx, q.cache, q.notifier, req)
}
