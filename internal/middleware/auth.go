package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"member-portal/internal/auth/authz"
	"member-portal/internal/logger"
	"member-portal/internal/session"
	"member-portal/internal/users"
)

// unexported, collision-proof context keys
type sessionContextKeyType struct{}
type adminContextKeyType struct{}

var (
	sessionKey = sessionContextKeyType{}
	adminKey   = adminContextKeyType{}
)

// SessionFromContext returns the snapshot attached by LoadSession.
func SessionFromContext(ctx context.Context) session.Session {
	s, ok := ctx.Value(sessionKey).(session.Session)
	if !ok {
		return session.Anonymous()
	}
	return s
}

// AdminFromContext returns the live admin record attached by RequireAdmin.
func AdminFromContext(ctx context.Context) (users.User, bool) {
	u, ok := ctx.Value(adminKey).(users.User)
	return u, ok
}

func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

type AuthMiddleware struct {
	Sessions  *session.Manager
	Gate      *authz.Gate
	LoginPath string
}

func NewAuthMiddleware(sessions *session.Manager, gate *authz.Gate) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions, Gate: gate, LoginPath: "/login"}
}

// LoadSession resolves the session cookie once per request.
func (a *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := a.Sessions.Load(r.Context(), r)
		if err != nil {
			logger.Error("session load failed", map[string]any{
				"path":  r.URL.Path,
				"error": err.Error(),
			})
			writeHTML(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RequireAuth redirects anonymous clients to the login page.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if err := a.Gate.RequireAuthenticated(sess); err != nil {
			http.Redirect(w, r, a.LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin re-reads the user's role from the store on every request.
func (a *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())

		admin, err := a.Gate.RequireAdmin(r.Context(), sess)
		switch {
		case errors.Is(err, authz.ErrNotAuthenticated):
			http.Redirect(w, r, a.LoginPath, http.StatusFound)
			return
		case errors.Is(err, authz.ErrNotAuthorized):
			logger.Warn("admin access denied", map[string]any{
				"email": sess.UserEmail,
				"path":  r.URL.Path,
			})
			writeHTML(w, http.StatusForbidden, "Not Authorized. <a href='/'>Home</a>")
			return
		case err != nil:
			logger.Error("admin check failed", map[string]any{
				"email": sess.UserEmail,
				"error": err.Error(),
			})
			writeHTML(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}

		ctx := context.WithValue(r.Context(), adminKey, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, body)
}
