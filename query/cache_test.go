package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice-console/api"
	"backoffice-console/models"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache() (*Cache, *clock) {
	clk := &clock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewCache(Options{Now: clk.Now, GCTime: time.Hour}), clk
}

func countingFetcher(calls *atomic.Int32, value string) Fetcher[string] {
	return func(ctx context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestKeyIdentity(t *testing.T) {
	a := NewKey("users", models.ListParams{Page: 1, Filters: map[string]string{"kyc": "1", "country": "NG"}})
	b := NewKey("users", models.ListParams{Page: 1, Filters: map[string]string{"country": "NG", "kyc": "1"}})
	c := NewKey("users", models.ListParams{Page: 1, Filters: map[string]string{"country": "GH", "kyc": "1"}})
	d := NewKey("transactions", models.ListParams{Page: 1, Filters: map[string]string{"country": "NG", "kyc": "1"}})

	assert.Equal(t, a.String(), b.String())
	assert.NotEqual(t, a.String(), c.String())
	assert.NotEqual(t, a.String(), d.String())
	assert.Equal(t, "unread", NewKey("unread").String())
	assert.Equal(t, `user|[7,"x"]`, NewKey("user", 7, "x").String())
}

func TestFetchIdenticalKeysHitOnce(t *testing.T) {
	cache, _ := newTestCache()
	var calls atomic.Int32
	key := NewKey("users", models.ListParams{Page: 2, Status: "ACTIVE"})

	for i := 0; i < 3; i++ {
		v, err := Fetch(context.Background(), cache, key, time.Minute, countingFetcher(&calls, "page-2"))
		require.NoError(t, err)
		assert.Equal(t, "page-2", v)
	}
	assert.Equal(t, int32(1), calls.Load())

	other := NewKey("users", models.ListParams{Page: 2, Status: "SUSPENDED"})
	_, err := Fetch(context.Background(), cache, other, time.Minute, countingFetcher(&calls, "suspended"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchDeduplicatesConcurrentReads(t *testing.T) {
	cache, _ := newTestCache()
	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const readers = 10
	var wg sync.WaitGroup
	results := make([]int, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), cache, NewKey("admin-stats"), time.Minute, fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestFetchStaleTime(t *testing.T) {
	cache, clk := newTestCache()
	var calls atomic.Int32
	key := NewKey("networks")

	_, err := Fetch(context.Background(), cache, key, 30*time.Minute, countingFetcher(&calls, "v"))
	require.NoError(t, err)

	clk.Advance(29 * time.Minute)
	_, err = Fetch(context.Background(), cache, key, 30*time.Minute, countingFetcher(&calls, "v"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	clk.Advance(time.Minute)
	_, err = Fetch(context.Background(), cache, key, 30*time.Minute, countingFetcher(&calls, "v"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchErrorsAreNotCached(t *testing.T) {
	cache, _ := newTestCache()
	var calls atomic.Int32
	boom := errors.New("boom")
	fail := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", boom
	}
	key := NewKey("dashboard-stats")

	_, err := Fetch(context.Background(), cache, key, time.Minute, fail)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, cache.Len())

	v, err := Fetch(context.Background(), cache, key, time.Minute, countingFetcher(&calls, "ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidateForcesRefetch(t *testing.T) {
	cache, _ := newTestCache()
	var calls atomic.Int32
	admins := NewKey("admins", models.ListParams{Page: 1})
	stats := NewKey("admin-stats")
	roles := NewKey("roles")

	for _, k := range []Key{admins, stats, roles} {
		_, err := Fetch(context.Background(), cache, k, time.Minute, countingFetcher(&calls, k.Namespace))
		require.NoError(t, err)
	}
	require.Equal(t, int32(3), calls.Load())

	cache.Invalidate("admins", "admin-stats")

	v, ok := Peek[string](cache, admins)
	assert.True(t, ok, "invalidated entries remain readable")
	assert.Equal(t, "admins", v)

	for _, k := range []Key{admins, stats, roles} {
		_, err := Fetch(context.Background(), cache, k, time.Minute, countingFetcher(&calls, k.Namespace))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(5), calls.Load(), "roles stayed fresh")
}

func TestInvalidateDuringFetchKeepsResultStale(t *testing.T) {
	cache, _ := newTestCache()
	key := NewKey("notifications-unread")
	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 1, nil
	}

	done := make(chan int)
	go func() {
		v, _ := Fetch(context.Background(), cache, key, time.Minute, slow)
		done <- v
	}()
	<-started
	cache.Invalidate("notifications-unread")
	close(release)
	assert.Equal(t, 1, <-done, "the waiting caller still gets its answer")

	var calls atomic.Int32
	_, err := Fetch(context.Background(), cache, key, time.Minute, func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchCallerCancellation(t *testing.T) {
	cache, _ := newTestCache()
	release := make(chan struct{})
	var sawCanceled atomic.Bool
	fn := func(ctx context.Context) (string, error) {
		<-release
		sawCanceled.Store(ctx.Err() != nil)
		return "late", nil
	}
	key := NewKey("transactions")

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error)
	go func() {
		_, err := Fetch(ctx, cache, key, time.Minute, fn)
		errc <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		_, ok := Peek[string](cache, key)
		return ok
	}, time.Second, 10*time.Millisecond)
	assert.False(t, sawCanceled.Load())
}

func TestClearAndSweep(t *testing.T) {
	cache, clk := newTestCache()
	var calls atomic.Int32

	_, _ = Fetch(context.Background(), cache, NewKey("users"), time.Minute, countingFetcher(&calls, "a"))
	clk.Advance(45 * time.Minute)
	_, _ = Fetch(context.Background(), cache, NewKey("roles"), time.Hour, countingFetcher(&calls, "b"))
	clk.Advance(30 * time.Minute)

	assert.Equal(t, 1, cache.Sweep())
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Zero(t, cache.Len())
	_, ok := Peek[string](cache, NewKey("roles"))
	assert.False(t, ok)
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (r *recordingNotifier) Success(name, msg string) { r.successes = append(r.successes, msg) }
func (r *recordingNotifier) Error(name, msg string)   { r.errors = append(r.errors, msg) }

func TestMutationInvalidatesOnSuccessOnly(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	cache := NewCache(Options{Metrics: metrics})
	var calls atomic.Int32
	key := NewKey("admins")
	_, err := Fetch(context.Background(), cache, key, time.Minute, countingFetcher(&calls, "list"))
	require.NoError(t, err)

	failing := Mutation[string, models.Ack]{
		Name:        "create admin",
		Invalidates: []string{"admins"},
		Do: func(ctx context.Context, req string) (models.Ack, error) {
			return models.Ack{}, &api.Error{StatusCode: 422, Message: "The email has already been taken."}
		},
	}
	n := &recordingNotifier{}
	_, err = failing.Run(context.Background(), cache, n, "ada")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"The email has already been taken."}, n.errors)

	_, err = Fetch(context.Background(), cache, key, time.Minute, countingFetcher(&calls, "list"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "failed mutation left the cache alone")

	ok := failing
	ok.Do = func(ctx context.Context, req string) (models.Ack, error) {
		return models.Ack{Success: true, Message: "Admin created"}, nil
	}
	ok.Describe = func(res models.Ack) string { return res.Message }
	_, err = ok.Run(context.Background(), cache, n, "ada")
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin created"}, n.successes)

	_, err = Fetch(context.Background(), cache, key, time.Minute, countingFetcher(&calls, "list"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.invalidations.WithLabelValues("admins")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.hits.WithLabelValues("admins")))
}
