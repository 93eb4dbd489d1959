package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"backoffice-console/api"
	"backoffice-console/middleware"
	"backoffice-console/models"
	"backoffice-console/queries"
	"backoffice-console/utils"
)

const maxUploadSize = 10 << 20

// formReader reads a multipart or urlencoded write form and collects field
// errors as it goes.
type formReader struct {
	r      *http.Request
	files  []multipart.File
	errors map[string]string
}

func newFormReader(r *http.Request) (*formReader, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &formReader{r: r, errors: map[string]string{}}, nil
}

func (f *formReader) String(key string) string {
	return strings.TrimSpace(f.r.PostFormValue(key))
}

func (f *formReader) Int(key string) int {
	raw := f.String(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.errors[key] = "must be a number"
	}
	return n
}

func (f *formReader) Bool(key string) bool {
	switch strings.ToLower(f.String(key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Strings accepts both key[] and a comma separated key.
func (f *formReader) Strings(key string) []string {
	if values := f.r.PostForm[key+"[]"]; len(values) > 0 {
		return values
	}
	raw := f.String(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (f *formReader) File(field string) *models.Upload {
	if f.r.MultipartForm == nil {
		return nil
	}
	file, header, err := f.r.FormFile(field)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			f.errors[field] = "could not read upload"
		}
		return nil
	}
	f.files = append(f.files, file)
	return &models.Upload{Filename: header.Filename, Reader: file}
}

func (f *formReader) Err() error {
	if len(f.errors) == 0 {
		return nil
	}
	return &utils.ValidationError{Fields: f.errors}
}

func (f *formReader) Close() {
	for _, file := range f.files {
		file.Close()
	}
	if f.r.MultipartForm != nil {
		f.r.MultipartForm.RemoveAll()
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v); err != nil {
		return &utils.ValidationError{Fields: map[string]string{"body": "invalid JSON body"}}
	}
	return nil
}

// mutate runs a write, pushes its outcome as a flash and answers with the
// backend's envelope data.
func mutate[T any](c *Console, status int, do func(r *http.Request, q *queries.Queries) (models.Envelope[T], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := middleware.WorkspaceFromContext(r.Context())
		n := &flashNotifier{}
		env, err := do(r, ws.Queries.WithNotifier(n))
		flashes := n.Messages()
		if err != nil {
			if !errors.Is(err, api.ErrUnauthorized) {
				c.flash(w, r, flashes...)
			}
			c.fail(w, r, err, flashes)
			return
		}
		c.flash(w, r, flashes...)
		SendJSON(w, status, Response{Success: true, Message: env.Message, Data: env.Data, Flashes: flashes})
	}
}

// PermManageAdmins guards admin and role writes.
const PermManageAdmins = "admin-management"

// requires refuses the write with 403 unless the signed-in admin holds tag.
func (c *Console) requires(tag string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := middleware.WorkspaceFromContext(r.Context())
		ok, err := ws.Queries.Allowed(r.Context(), tag)
		if err != nil {
			c.fail(w, r, err, nil)
			return
		}
		if !ok {
			c.log.WithFields(logrus.Fields{"path": r.URL.Path, "permission": tag}).Warn("write refused")
			SendErrorResponse(w, http.StatusForbidden, "You do not have permission to perform this action")
			return
		}
		next(w, r)
	}
}

// withForm parses the write form, builds the request and closes uploads once
// the write is done.
func withForm[Req, Res any](build func(f *formReader, r *http.Request) Req, do func(q *queries.Queries, r *http.Request, req Req) (models.Envelope[Res], error)) func(r *http.Request, q *queries.Queries) (models.Envelope[Res], error) {
	return func(r *http.Request, q *queries.Queries) (models.Envelope[Res], error) {
		f, err := newFormReader(r)
		if err != nil {
			return models.Envelope[Res]{}, &utils.ValidationError{Fields: map[string]string{"form": "invalid form data"}}
		}
		defer f.Close()
		req := build(f, r)
		if err := f.Err(); err != nil {
			return models.Envelope[Res]{}, err
		}
		return do(q, r, req)
	}
}

func withJSON[Req, Res any](prepare func(r *http.Request, req *Req) error, do func(q *queries.Queries, r *http.Request, req Req) (models.Envelope[Res], error)) func(r *http.Request, q *queries.Queries) (models.Envelope[Res], error) {
	return func(r *http.Request, q *queries.Queries) (models.Envelope[Res], error) {
		var req Req
		if err := decodeJSON(r, &req); err != nil {
			return models.Envelope[Res]{}, err
		}
		if prepare != nil {
			if err := prepare(r, &req); err != nil {
				return models.Envelope[Res]{}, err
			}
		}
		return do(q, r, req)
	}
}

func withID[Res any](do func(q *queries.Queries, r *http.Request, id int) (models.Envelope[Res], error)) func(r *http.Request, q *queries.Queries) (models.Envelope[Res], error) {
	return func(r *http.Request, q *queries.Queries) (models.Envelope[Res], error) {
		id, err := pathID(r)
		if err != nil {
			return models.Envelope[Res]{}, err
		}
		return do(q, r, id)
	}
}

func adminForm(f *formReader, r *http.Request) models.CreateAdminRequest {
	return models.CreateAdminRequest{
		FirstName:    f.String("first_name"),
		LastName:     f.String("last_name"),
		Email:        f.String("email"),
		Phone:        f.String("phone"),
		Password:     f.String("password"),
		RoleID:       f.Int("role_id"),
		Permissions:  f.Strings("permissions"),
		IsSuperAdmin: f.Bool("is_super_admin"),
		Avatar:       f.File("avatar"),
	}
}

func adminUpdateForm(f *formReader, r *http.Request) models.UpdateAdminRequest {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return models.UpdateAdminRequest{
		ID:          id,
		FirstName:   f.String("first_name"),
		LastName:    f.String("last_name"),
		Email:       f.String("email"),
		Phone:       f.String("phone"),
		RoleID:      f.Int("role_id"),
		Permissions: f.Strings("permissions"),
		Avatar:      f.File("avatar"),
	}
}

func userForm(f *formReader, r *http.Request) models.CreateUserRequest {
	return models.CreateUserRequest{
		FirstName: f.String("first_name"),
		LastName:  f.String("last_name"),
		Email:     f.String("email"),
		Phone:     f.String("phone"),
		Password:  f.String("password"),
		Avatar:    f.File("avatar"),
	}
}

func userUpdateForm(f *formReader, r *http.Request) models.UpdateUserRequest {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return models.UpdateUserRequest{
		ID:        id,
		FirstName: f.String("first_name"),
		LastName:  f.String("last_name"),
		Email:     f.String("email"),
		Phone:     f.String("phone"),
		Avatar:    f.File("avatar"),
	}
}

func newsletterForm(f *formReader, r *http.Request) models.NewsletterRequest {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return models.NewsletterRequest{
		ID:            id,
		Title:         f.String("title"),
		Medium:        models.NewsletterMedium(f.String("medium")),
		Content:       f.String("content"),
		ScheduledDate: f.String("scheduled_date"),
		ScheduledTime: f.String("scheduled_time"),
		IsActive:      f.Bool("is_active"),
		Image:         f.File("image"),
	}
}

func setIDFromPath[Req any](set func(req *Req, id int)) func(r *http.Request, req *Req) error {
	return func(r *http.Request, req *Req) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}
		set(req, id)
		return nil
	}
}

func call[Req, Res any](fn func(q *queries.Queries, ctx context.Context, req Req) (models.Envelope[Res], error)) func(q *queries.Queries, r *http.Request, req Req) (models.Envelope[Res], error) {
	return func(q *queries.Queries, r *http.Request, req Req) (models.Envelope[Res], error) {
		return fn(q, r.Context(), req)
	}
}

func callID[Res any](fn func(q *queries.Queries, ctx context.Context, id int) (models.Envelope[Res], error)) func(q *queries.Queries, r *http.Request, id int) (models.Envelope[Res], error) {
	return func(q *queries.Queries, r *http.Request, id int) (models.Envelope[Res], error) {
		return fn(q, r.Context(), id)
	}
}

func (c *Console) registerWrites(api *mux.Router) {
	api.HandleFunc("/admins", c.requires(PermManageAdmins, mutate(c, http.StatusCreated, withForm(adminForm, call((*queries.Queries).CreateAdmin))))).Methods(http.MethodPost)
	api.HandleFunc("/admins/{id:[0-9]+}", c.requires(PermManageAdmins, mutate(c, http.StatusOK, withForm(adminUpdateForm, call((*queries.Queries).UpdateAdmin))))).Methods(http.MethodPost, http.MethodPut)
	api.HandleFunc("/admins/{id:[0-9]+}", c.requires(PermManageAdmins, mutate(c, http.StatusOK, withID(callID((*queries.Queries).DeleteAdmin))))).Methods(http.MethodDelete)
	api.HandleFunc("/admins/{id:[0-9]+}/toggle-status", c.requires(PermManageAdmins, mutate(c, http.StatusOK, withID(callID((*queries.Queries).ToggleAdminStatus))))).Methods(http.MethodPatch)

	setRoleID := setIDFromPath(func(req *models.RoleRequest, id int) { req.ID = id })
	api.HandleFunc("/roles", c.requires(PermManageAdmins, mutate(c, http.StatusCreated, withJSON[models.RoleRequest](nil, call((*queries.Queries).CreateRole))))).Methods(http.MethodPost)
	api.HandleFunc("/roles/{id:[0-9]+}", c.requires(PermManageAdmins, mutate(c, http.StatusOK, withJSON(setRoleID, call((*queries.Queries).UpdateRole))))).Methods(http.MethodPut)
	api.HandleFunc("/roles/{id:[0-9]+}", c.requires(PermManageAdmins, mutate(c, http.StatusOK, withID(callID((*queries.Queries).DeleteRole))))).Methods(http.MethodDelete)

	setUserID := setIDFromPath(func(req *models.UpdateUserStatusRequest, id int) { req.ID = id })
	api.HandleFunc("/users", mutate(c, http.StatusCreated, withForm(userForm, call((*queries.Queries).CreateUser)))).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}", mutate(c, http.StatusOK, withForm(userUpdateForm, call((*queries.Queries).UpdateUser)))).Methods(http.MethodPost, http.MethodPut)
	api.HandleFunc("/users/{id:[0-9]+}/status", mutate(c, http.StatusOK, withJSON(setUserID, call((*queries.Queries).UpdateUserStatus)))).Methods(http.MethodPatch)
	api.HandleFunc("/users/{id:[0-9]+}", mutate(c, http.StatusOK, withID(callID((*queries.Queries).DeleteUser)))).Methods(http.MethodDelete)

	api.HandleFunc("/newsletters", mutate(c, http.StatusCreated, withForm(newsletterForm, call((*queries.Queries).CreateNewsletter)))).Methods(http.MethodPost)
	api.HandleFunc("/newsletters/{id:[0-9]+}", mutate(c, http.StatusOK, withForm(newsletterForm, call((*queries.Queries).UpdateNewsletter)))).Methods(http.MethodPost, http.MethodPut)
	api.HandleFunc("/newsletters/{id:[0-9]+}", mutate(c, http.StatusOK, withID(callID((*queries.Queries).DeleteNewsletter)))).Methods(http.MethodDelete)

	api.HandleFunc("/notifications/read-all", mutate(c, http.StatusOK, func(r *http.Request, q *queries.Queries) (models.Ack, error) {
		return q.MarkAllNotificationsRead(r.Context())
	})).Methods(http.MethodPatch)
	api.HandleFunc("/notifications/{id}/read", mutate(c, http.StatusOK, func(r *http.Request, q *queries.Queries) (models.Ack, error) {
		return q.MarkNotificationRead(r.Context(), mux.Vars(r)["id"])
	})).Methods(http.MethodPatch)

	api.HandleFunc("/profile/password", mutate(c, http.StatusOK, withJSON[models.ChangePasswordRequest](nil, call((*queries.Queries).ChangePassword)))).Methods(http.MethodPost)
}
