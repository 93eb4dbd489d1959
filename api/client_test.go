package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice-console/models"
	"backoffice-console/session"
)

type countingNavigator struct {
	calls atomic.Int32
}

func (n *countingNavigator) RedirectToLogin() { n.calls.Add(1) }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.MemoryStore, *countingNavigator) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	nav := &countingNavigator{}
	c := NewClient(Options{BaseURL: srv.URL + "/", Store: store, Navigator: nav})
	return c, store, nav
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClientInjectsBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotRequestID string
	c, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotRequestID = r.Header.Get(RequestIDKey)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "ok", "data": map[string]int{"count": 3}})
	})
	ctx := context.Background()

	var out models.Envelope[models.UnreadCount]
	require.NoError(t, c.Get(ctx, "/admin/notifications/unread-count", nil, &out))
	assert.Empty(t, gotAuth, "no token stored yet")
	assert.Equal(t, 3, out.Data.Count)

	require.NoError(t, store.Set(ctx, session.Session{Token: "tok-1"}))
	require.NoError(t, c.Get(ctx, "/admin/users", map[string][]string{"page": {"2"}}, &out))
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "/api/v1/admin/users?page=2", gotPath)
	assert.NotEmpty(t, gotRequestID)
}

func TestClientUnauthorizedClearsSessionOnce(t *testing.T) {
	c, store, nav := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
	})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, session.Session{Token: "stale"}))

	paths := []string{"/admin/users", "/admin/transactions", "/admin/roles", "/admin/notifications"}
	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Get(ctx, paths[i%len(paths)], nil, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Equal(t, int32(1), nav.calls.Load())
	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	// a new login re-arms the handler
	require.NoError(t, store.Set(ctx, session.Session{Token: "fresh"}))
	assert.ErrorIs(t, c.Get(ctx, "/admin/users", nil, nil), ErrUnauthorized)
	assert.Equal(t, int32(2), nav.calls.Load())
}

func TestClientUnauthorizedWithoutTokenIsPlainError(t *testing.T) {
	c, _, nav := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
	})

	err := c.Send(context.Background(), http.MethodPost, "/admin/login", models.LoginRequest{Email: "a@b.co", Password: "nope"}, nil)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", Message(err))
	assert.Zero(t, nav.calls.Load())
}

func TestClientWithoutTokenIgnoresStoredSession(t *testing.T) {
	var gotAuth string
	c, store, nav := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
	})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, session.Session{Token: "stale"}))

	err := c.Send(WithoutToken(ctx), http.MethodPost, "/admin/login", models.LoginRequest{Email: "a@b.co", Password: "nope"}, nil)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", Message(err))
	assert.Empty(t, gotAuth)
	assert.Zero(t, nav.calls.Load())

	s, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stale", s.Token)
}

func TestClientErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantFields  map[string][]string
	}{
		{
			name:        "server error carries backend message",
			status:      http.StatusInternalServerError,
			body:        `{"success":false,"message":"Ledger unavailable"}`,
			wantMessage: "Ledger unavailable",
		},
		{
			name:        "validation errors are kept",
			status:      http.StatusUnprocessableEntity,
			body:        `{"message":"The email has already been taken.","errors":{"email":["The email has already been taken."]}}`,
			wantMessage: "The email has already been taken.",
			wantFields:  map[string][]string{"email": {"The email has already been taken."}},
		},
		{
			name:        "forbidden without body falls back",
			status:      http.StatusForbidden,
			body:        ``,
			wantMessage: genericMessage,
		},
		{
			name:        "success false on 200",
			status:      http.StatusOK,
			body:        `{"success":false,"message":"Role is in use","data":null}`,
			wantMessage: "Role is in use",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, nav := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			var out models.Envelope[models.Role]
			err := c.Send(context.Background(), http.MethodDelete, "/admin/roles/4", nil, &out)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, Message(err))
			assert.Equal(t, tt.wantFields, apiErr.Errors)
			assert.NotEmpty(t, apiErr.RequestID)
			assert.Zero(t, nav.calls.Load())
		})
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	err := c.Get(context.Background(), "/admin/dashboard/stats", nil, nil)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, networkMessage, Message(err))
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: url})
	err := c.Get(context.Background(), "/admin/users", nil, nil)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, networkMessage, Message(err))
}

func TestClientCanceledContextPassesThrough(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/admin/users", nil, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrNetwork))
}

func TestClientSendFormEncodesMultipart(t *testing.T) {
	var fields map[string][]string
	var fileName, fileBody string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = r.MultipartForm.Value
		fh := r.MultipartForm.File["avatar"][0]
		fileName = fh.Filename
		f, err := fh.Open()
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		fileBody = string(b)
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Admin created", "data": map[string]any{"id": 9}})
	})

	req := models.CreateAdminRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Password:    "secret-pass",
		RoleID:      2,
		Permissions: []string{"users.view", "users.edit"},
		Avatar:      &models.Upload{Filename: "ada.png", Reader: strings.NewReader("png-bytes")},
	}
	var out models.Envelope[models.Admin]
	require.NoError(t, c.SendForm(context.Background(), http.MethodPost, "/admin/admin-management", req.Form(), &out))

	assert.Equal(t, 9, out.Data.ID)
	assert.Equal(t, "Admin created", out.Message)
	assert.Equal(t, []string{"Ada"}, fields["first_name"])
	assert.Equal(t, []string{"2"}, fields["role_id"])
	assert.Equal(t, []string{"users.view", "users.edit"}, fields["permissions[]"])
	assert.Equal(t, []string{"0"}, fields["is_super_admin"])
	assert.Equal(t, "ada.png", fileName)
	assert.Equal(t, "png-bytes", fileBody)
}

func TestClientMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL, Metrics: NewMetrics(reg)})
	require.NoError(t, c.Get(context.Background(), "/admin/roles", nil, nil))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "backoffice_api_request_duration_seconds", families[0].GetName())
	assert.Equal(t, uint64(1), families[0].GetMetric()[0].GetHistogram().GetSampleCount())
}
