package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"backoffice-console/api"
	"backoffice-console/logger"
	"backoffice-console/queries"
)

// Source lists the signed-in workspaces whose caches the revalidator keeps
// warm.
type Source func() []*queries.Queries

// Revalidator refetches the notification unread count on a short fixed
// interval and sweeps cache entries that outlived the GC window.
type Revalidator struct {
	source        Source
	interval      time.Duration
	sweepInterval time.Duration
	timeout       time.Duration
	log           *logrus.Entry

	mu        sync.Mutex
	shutdown  chan struct{}
	wg        sync.WaitGroup
	isRunning bool
}

type Options struct {
	Interval      time.Duration
	SweepInterval time.Duration
	// Timeout bounds one refresh of one workspace.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

func NewRevalidator(source Source, opts Options) *Revalidator {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 10 * time.Minute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = api.RequestTimeout
	}
	return &Revalidator{
		source:        source,
		interval:      opts.Interval,
		sweepInterval: opts.SweepInterval,
		timeout:       opts.Timeout,
		log:           logger.Component(opts.Logger, "revalidator"),
	}
}

// Start launches the refresh and sweep loops.
func (r *Revalidator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isRunning {
		return
	}
	r.shutdown = make(chan struct{})
	r.isRunning = true

	r.wg.Add(2)
	go r.loop(r.interval, r.RefreshOnce)
	go r.loop(r.sweepInterval, func() { r.SweepOnce() })

	r.log.WithFields(logrus.Fields{"interval": r.interval.String(), "sweep_interval": r.sweepInterval.String()}).Info("revalidator started")
}

// Stop signals both loops and waits for them to return.
func (r *Revalidator) Stop() {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return
	}
	r.log.Info("stopping revalidator")
	close(r.shutdown)
	r.isRunning = false
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Revalidator) loop(every time.Duration, fn func()) {
	defer r.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-r.shutdown:
			return
		case <-ticker.C:
			fn()
		}
	}
}

// RefreshOnce refetches the unread count of every workspace.
func (r *Revalidator) RefreshOnce() {
	for _, q := range r.source() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		count, err := q.RefreshUnreadCount(ctx)
		cancel()

		switch {
		case err == nil:
			r.log.WithField("unread", count).Debug("unread count refreshed")
		case errors.Is(err, api.ErrUnauthorized):
			// the client already cleared that session
		default:
			r.log.WithError(err).Warn("unread count refresh failed")
		}
	}
}

// SweepOnce drops expired cache entries and returns how many were removed.
func (r *Revalidator) SweepOnce() int {
	removed := 0
	for _, q := range r.source() {
		removed += q.Cache().Sweep()
	}
	if removed > 0 {
		r.log.WithField("removed", removed).Debug("cache swept")
	}
	return removed
}
