package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"backoffice-console/workspace"
)

type contextKey string

const (
	WorkspaceContextKey contextKey = "workspace"

	// SessionIDKey and DisplayNameKey are the cookie session values.
	SessionIDKey   = "sid"
	DisplayNameKey = "display_name"

	LoginPath = "/login"
)

// RequireWorkspace resolves the cookie session to a live workspace and puts it
// in the request context. Without one, browsers are sent to the login page
// and API callers get 401.
func RequireWorkspace(store sessions.Store, cookieName string, reg *workspace.Registry, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Get(r, cookieName)
			if err != nil {
				log.WithError(err).Debug("discarding unreadable session cookie")
			}

			id, _ := sess.Values[SessionIDKey].(string)
			ws, ok := reg.Get(r.Context(), id)
			if !ok {
				if id != "" {
					sess.Options.MaxAge = -1
					_ = sess.Save(r, w)
				}
				Unauthenticated(w, r, "Please sign in to continue")
				return
			}

			ctx := context.WithValue(r.Context(), WorkspaceContextKey, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WorkspaceFromContext returns the workspace set by RequireWorkspace.
func WorkspaceFromContext(ctx context.Context) *workspace.Workspace {
	ws, ok := ctx.Value(WorkspaceContextKey).(*workspace.Workspace)
	if !ok {
		return nil
	}
	return ws
}

// WantsJSON reports whether the caller is a script rather than a browser
// navigation.
func WantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// Unauthenticated answers with 401 for API callers and a redirect to the
// login page for browsers.
func Unauthenticated(w http.ResponseWriter, r *http.Request, message string) {
	if WantsJSON(r) {
		sendJSONError(w, http.StatusUnauthorized, message)
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
