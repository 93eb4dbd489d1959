package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice-console/api"
	"backoffice-console/models"
	"backoffice-console/utils"
)

type recorded struct {
	method      string
	path        string
	query       string
	contentType string
	body        []byte
}

type fakeBackend struct {
	calls    []recorded
	response string
}

func newBackend(t *testing.T, response string) (*fakeBackend, *api.Client) {
	t.Helper()
	b := &fakeBackend{response: response}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.calls = append(b.calls, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, b.response)
	}))
	t.Cleanup(srv.Close)
	return b, api.NewClient(api.Options{BaseURL: srv.URL})
}

const userPage = `{
  "success": true,
  "message": "Users retrieved",
  "data": {
    "current_page": 2,
    "data": [
      {"id": 11, "first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com", "status": "ACTIVE", "kyc_verified": true},
      {"id": 12, "first_name": "Alan", "last_name": "Turing", "email": "alan@example.com", "status": "SUSPENDED"}
    ],
    "first_page_url": "http://backend/api/v1/admin/user-management?page=1",
    "from": 11,
    "last_page": 3,
    "last_page_url": "http://backend/api/v1/admin/user-management?page=3",
    "links": [{"url": null, "label": "&laquo; Previous", "active": false}],
    "next_page_url": "http://backend/api/v1/admin/user-management?page=3",
    "path": "http://backend/api/v1/admin/user-management",
    "per_page": 10,
    "prev_page_url": "http://backend/api/v1/admin/user-management?page=1",
    "to": 12,
    "total": 22
  }
}`

func TestListUsersPaginationEnvelope(t *testing.T) {
	b, c := newBackend(t, userPage)

	params := models.ListParams{Page: 2, Search: "a", Status: "ACTIVE", Filters: map[string]string{"kyc": "1"}}
	env, err := ListUsers(context.Background(), c, params)
	require.NoError(t, err)

	require.Len(t, b.calls, 1)
	assert.Equal(t, http.MethodGet, b.calls[0].method)
	assert.Equal(t, "/api/v1/admin/user-management", b.calls[0].path)
	assert.Equal(t, "kyc=1&page=2&per_page=10&search=a&status=ACTIVE", b.calls[0].query)

	page := env.Data
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, 22, page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, models.UserStatusSuspended, page.Data[1].Status)
	assert.True(t, page.HasNext())
	assert.True(t, page.HasPrev())
	assert.Equal(t, 2, params.Page, "caller params are not modified")
}

func TestListRejectsReservedFilterKeys(t *testing.T) {
	b, c := newBackend(t, userPage)

	for _, key := range []string{"page", "per_page", "search", "start_date"} {
		_, err := ListUsers(context.Background(), c, models.ListParams{Filters: map[string]string{key: "5"}})
		var verr *utils.ValidationError
		require.ErrorAs(t, err, &verr, key)
		assert.Contains(t, verr.Error(), "must not be "+key)
	}
	assert.Empty(t, b.calls)
}

func TestListRejectsInconsistentPage(t *testing.T) {
	_, c := newBackend(t, `{"success":true,"message":"","data":{"current_page":1,"data":[{"id":1},{"id":2}],"from":1,"to":2,"per_page":1,"total":2,"last_page":2}}`)

	_, err := ListUsers(context.Background(), c, models.ListParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid page")
}

func TestValidationHappensBeforeNetwork(t *testing.T) {
	b, c := newBackend(t, `{"success":true}`)
	ctx := context.Background()

	_, err := CreateAdmin(ctx, c, models.CreateAdminRequest{Email: "not-an-email"})
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "FirstName")
	assert.Contains(t, verr.Fields, "Email")

	_, err = ListTransactions(ctx, c, models.ListParams{PerPage: 500})
	require.ErrorAs(t, err, &verr)

	_, err = ServiceStats(ctx, c, models.ServiceKind("gas"))
	require.ErrorAs(t, err, &verr)

	_, err = Login(ctx, c, models.LoginRequest{Email: "a@b.co"})
	require.ErrorAs(t, err, &verr)

	assert.Empty(t, b.calls)
}

func TestWritesUseExpectedEncoding(t *testing.T) {
	tests := []struct {
		name      string
		call      func(ctx context.Context, c Client) error
		method    string
		path      string
		multipart bool
		override  string
	}{
		{
			name: "create user is multipart",
			call: func(ctx context.Context, c Client) error {
				_, err := CreateUser(ctx, c, models.CreateUserRequest{FirstName: "A", LastName: "B", Email: "a@b.co", Phone: "0800", Password: "password1"})
				return err
			},
			method: http.MethodPost, path: "/api/v1/admin/user-management", multipart: true,
		},
		{
			name: "update admin overrides method",
			call: func(ctx context.Context, c Client) error {
				_, err := UpdateAdmin(ctx, c, models.UpdateAdminRequest{ID: 7, FirstName: "New"})
				return err
			},
			method: http.MethodPost, path: "/api/v1/admin/admin-management/7", multipart: true, override: "PUT",
		},
		{
			name: "update newsletter overrides method",
			call: func(ctx context.Context, c Client) error {
				_, err := UpdateNewsletter(ctx, c, models.NewsletterRequest{ID: 3, Title: "T", Medium: models.MediumSMS, Content: "C"})
				return err
			},
			method: http.MethodPost, path: "/api/v1/admin/newsletters/3", multipart: true, override: "PUT",
		},
		{
			name: "role create is json",
			call: func(ctx context.Context, c Client) error {
				_, err := CreateRole(ctx, c, models.RoleRequest{Name: "Support", Permissions: []string{"users.view"}})
				return err
			},
			method: http.MethodPost, path: "/api/v1/admin/roles",
		},
		{
			name: "user status is json patch",
			call: func(ctx context.Context, c Client) error {
				_, err := UpdateUserStatus(ctx, c, models.UpdateUserStatusRequest{ID: 5, Status: models.UserStatusSuspended, Reason: "fraud review"})
				return err
			},
			method: http.MethodPatch, path: "/api/v1/admin/user-management/5/status",
		},
		{
			name: "toggle admin status",
			call: func(ctx context.Context, c Client) error {
				_, err := ToggleAdminStatus(ctx, c, 9)
				return err
			},
			method: http.MethodPatch, path: "/api/v1/admin/admin-management/9/toggle-status",
		},
		{
			name: "mark all notifications read",
			call: func(ctx context.Context, c Client) error {
				_, err := MarkAllNotificationsRead(ctx, c)
				return err
			},
			method: http.MethodPatch, path: "/api/v1/admin/notifications/read-all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, c := newBackend(t, `{"success":true,"message":"done","data":null}`)
			require.NoError(t, tt.call(context.Background(), c))

			require.Len(t, b.calls, 1)
			got := b.calls[0]
			assert.Equal(t, tt.method, got.method)
			assert.Equal(t, tt.path, got.path)
			if tt.multipart {
				assert.True(t, strings.HasPrefix(got.contentType, "multipart/form-data"), got.contentType)
			} else if len(got.body) > 0 {
				assert.Equal(t, "application/json", got.contentType)
				assert.True(t, json.Valid(got.body))
			}
			if tt.override != "" {
				assert.Contains(t, string(got.body), `name="_method"`)
				assert.Contains(t, string(got.body), tt.override)
			}
		})
	}
}

func TestRoleRequestBody(t *testing.T) {
	b, c := newBackend(t, `{"success":true,"message":"Role updated","data":{"id":4,"name":"Support","permissions":"[\"users.view\"]"}}`)

	env, err := UpdateRole(context.Background(), c, models.RoleRequest{ID: 4, Name: "Support", Permissions: []string{"users.view"}})
	require.NoError(t, err)
	assert.Equal(t, models.Permissions{"users.view"}, env.Data.Permissions)

	require.Len(t, b.calls, 1)
	assert.Equal(t, http.MethodPut, b.calls[0].method)
	assert.JSONEq(t, `{"name":"Support","description":"","permissions":["users.view"]}`, string(b.calls[0].body))
}

func TestTransactionStatsDropsPaging(t *testing.T) {
	b, c := newBackend(t, `{"success":true,"message":"","data":{"total_transactions":4}}`)

	_, err := TransactionStats(context.Background(), c, models.ListParams{From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)
	assert.Equal(t, "end_date=2024-01-31&start_date=2024-01-01", b.calls[0].query)
}

func TestReferenceData(t *testing.T) {
	b, c := newBackend(t, `{"success":true,"message":"","data":[{"id":1,"name":"MTN","code":"mtn","amount":100}]}`)
	ctx := context.Background()

	nets, err := ListNetworks(ctx, c)
	require.NoError(t, err)
	require.Len(t, nets.Data, 1)
	assert.Equal(t, "MTN", nets.Data[0].Name)

	_, err = ListDataPlans(ctx, c, "mtn")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/admin/services/data/plans", b.calls[1].path)
	assert.Equal(t, "network=mtn", b.calls[1].query)
}
