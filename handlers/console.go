package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"backoffice-console/api"
	"backoffice-console/logger"
	"backoffice-console/middleware"
	"backoffice-console/models"
	"backoffice-console/workspace"
)

// Console serves the back-office over the query layer. Every signed-in cookie
// session owns one workspace of the registry.
type Console struct {
	registry   *workspace.Registry
	cookies    sessions.Store
	cookieName string
	log        *logrus.Entry
}

func NewConsole(reg *workspace.Registry, cookies sessions.Store, cookieName string, log logrus.FieldLogger) *Console {
	return &Console{
		registry:   reg,
		cookies:    cookies,
		cookieName: cookieName,
		log:        logger.Component(log, "console"),
	}
}

// flashNotifier collects mutation outcomes for the response body and the
// cookie flashes.
type flashNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *flashNotifier) Success(_, message string) { f.add(message) }
func (f *flashNotifier) Error(_, message string)   { f.add(message) }

func (f *flashNotifier) add(message string) {
	if message == "" {
		return
	}
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
}

func (f *flashNotifier) Messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func (c *Console) session(r *http.Request) *sessions.Session {
	sess, err := c.cookies.Get(r, c.cookieName)
	if err != nil {
		c.log.WithError(err).Debug("discarding unreadable session cookie")
	}
	return sess
}

// flash stores messages in the cookie session. The caller writes the
// response afterwards.
func (c *Console) flash(w http.ResponseWriter, r *http.Request, messages ...string) {
	if len(messages) == 0 {
		return
	}
	sess := c.session(r)
	for _, m := range messages {
		sess.AddFlash(m)
	}
	if err := sess.Save(r, w); err != nil {
		c.log.WithError(err).Warn("failed to save flash")
	}
}

// takeFlashes pops the pending flashes of the cookie session.
func (c *Console) takeFlashes(w http.ResponseWriter, r *http.Request) []string {
	sess := c.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		c.log.WithError(err).Warn("failed to save session")
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// signOut forgets the cookie's workspace; only the flashes survive.
func (c *Console) signOut(w http.ResponseWriter, r *http.Request, messages ...string) {
	sess := c.session(r)
	if id, _ := sess.Values[middleware.SessionIDKey].(string); id != "" {
		c.registry.Drop(r.Context(), id)
	}
	delete(sess.Values, middleware.SessionIDKey)
	delete(sess.Values, middleware.DisplayNameKey)
	for _, m := range messages {
		sess.AddFlash(m)
	}
	if err := sess.Save(r, w); err != nil {
		c.log.WithError(err).Warn("failed to save session")
	}
}

// fail writes err. An expired backend session signs the operator out.
func (c *Console) fail(w http.ResponseWriter, r *http.Request, err error, flashes []string) {
	if errors.Is(err, api.ErrUnauthorized) {
		c.signOut(w, r, api.Message(err))
		middleware.Unauthenticated(w, r, api.Message(err))
		return
	}
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		c.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	SendJSON(w, status, Response{
		Success: false,
		Message: api.Message(err),
		Errors:  errorFields(err),
		Flashes: flashes,
	})
}

// LoginPage reports pending flashes to a signed-out operator.
func (c *Console) LoginPage(w http.ResponseWriter, r *http.Request) {
	flashes := c.takeFlashes(w, r)
	SendJSON(w, http.StatusOK, Response{Success: true, Message: "Please sign in", Flashes: flashes})
}

// Login signs in against the backend in a fresh workspace. JSON and form
// posts are accepted.
func (c *Console) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			SendErrorResponse(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		req.Email = r.PostForm.Get("email")
		req.Password = r.PostForm.Get("password")
	}
	req.Email = strings.TrimSpace(req.Email)

	ws := c.registry.Create()
	resp, err := ws.Queries.Login(r.Context(), req)
	if err != nil {
		c.registry.Drop(r.Context(), ws.ID)
		c.log.WithError(err).WithFields(logrus.Fields{
			"email": req.Email,
			"ip":    middleware.ClientIP(r),
		}).Warn("console login failed")
		c.fail(w, r, err, nil)
		return
	}

	sess := c.session(r)
	if old, _ := sess.Values[middleware.SessionIDKey].(string); old != "" && old != ws.ID {
		c.registry.Drop(r.Context(), old)
	}
	sess.Values[middleware.SessionIDKey] = ws.ID
	sess.Values[middleware.DisplayNameKey] = resp.Admin.FullName()
	if err := sess.Save(r, w); err != nil {
		c.registry.Drop(r.Context(), ws.ID)
		c.log.WithError(err).Error("failed to save session cookie")
		SendErrorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	SendSuccessResponse(w, "Login successful", resp.Admin)
}

// Logout revokes the token upstream when there is one and always clears the
// console session.
func (c *Console) Logout(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	id, _ := sess.Values[middleware.SessionIDKey].(string)
	if ws, ok := c.registry.Get(r.Context(), id); ok {
		if err := ws.Queries.Logout(r.Context()); err != nil && !errors.Is(err, api.ErrUnauthorized) {
			c.log.WithError(err).Warn("backend logout failed")
		}
	}
	c.signOut(w, r, "You have been signed out")

	if middleware.WantsJSON(r) {
		SendSuccessResponse(w, "Logged out", nil)
		return
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

type me struct {
	DisplayName string       `json:"display_name"`
	Admin       models.Admin `json:"admin"`
	Unread      int          `json:"unread_notifications"`
}

// Me returns the signed-in admin, the unread badge and pending flashes.
func (c *Console) Me(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromContext(r.Context())
	admin, err := ws.Queries.Profile(r.Context())
	if err != nil {
		c.fail(w, r, err, nil)
		return
	}
	unread, err := ws.Queries.UnreadCount(r.Context())
	if err != nil {
		c.fail(w, r, err, nil)
		return
	}
	sess := c.session(r)
	name, _ := sess.Values[middleware.DisplayNameKey].(string)
	if name == "" {
		name = admin.FullName()
	}
	SendJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    me{DisplayName: name, Admin: admin, Unread: unread},
		Flashes: c.takeFlashes(w, r),
	})
}
