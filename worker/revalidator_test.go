package worker

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice-console/api"
	"backoffice-console/queries"
	"backoffice-console/query"
	"backoffice-console/session"
)

func newWorkspace(t *testing.T, status int, hits *atomic.Int32, now func() time.Time) *queries.Queries {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		io.WriteString(w, `{"success":true,"message":"","data":{"count":2}}`)
	}))
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), session.Session{Token: "tok"}))
	client := api.NewClient(api.Options{BaseURL: srv.URL, Store: store})
	cache := query.NewCache(query.Options{GCTime: time.Minute, Now: now})
	return queries.New(client, cache, queries.Options{Session: store})
}

func TestRevalidatorRefreshesUnreadCount(t *testing.T) {
	var hits atomic.Int32
	ws := newWorkspace(t, http.StatusOK, &hits, nil)

	r := NewRevalidator(func() []*queries.Queries { return []*queries.Queries{ws} }, Options{Interval: 10 * time.Millisecond})
	r.Start()
	r.Start()
	require.Eventually(t, func() bool { return hits.Load() >= 3 }, time.Second, 5*time.Millisecond)
	r.Stop()
	r.Stop()

	settled := hits.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, hits.Load(), "no refresh after Stop")
}

func TestRevalidatorToleratesExpiredSession(t *testing.T) {
	var hits atomic.Int32
	ws := newWorkspace(t, http.StatusUnauthorized, &hits, nil)

	r := NewRevalidator(func() []*queries.Queries { return []*queries.Queries{ws} }, Options{})
	r.RefreshOnce()
	r.RefreshOnce()
	assert.Equal(t, int32(2), hits.Load())
}

func TestRevalidatorSweep(t *testing.T) {
	var hits atomic.Int32
	current := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ws := newWorkspace(t, http.StatusOK, &hits, func() time.Time { return current })

	_, err := ws.UnreadCount(context.Background())
	require.NoError(t, err)
	r := NewRevalidator(func() []*queries.Queries { return []*queries.Queries{ws} }, Options{})
	assert.Zero(t, r.SweepOnce())

	current = current.Add(2 * time.Minute)
	assert.Equal(t, 1, r.SweepOnce())
	assert.Zero(t, ws.Cache().Len())
}
