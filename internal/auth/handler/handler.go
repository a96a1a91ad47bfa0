package handler

import (
	"net/http"

	"member-portal/internal/auth/authz"
	"member-portal/internal/auth/credentials"
	"member-portal/internal/auth/provider"
	"member-portal/internal/auth/resolver"
	"member-portal/internal/auth/roles"
	"member-portal/internal/logger"
	"member-portal/internal/middleware"
	"member-portal/internal/session"
	"member-portal/internal/users"
	"member-portal/internal/web"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators a Handler is built from.
type Deps struct {
	Credentials *credentials.Service
	Sessions    *session.Manager
	Gate        *authz.Gate
	Roles       *roles.Mutator
	Users       users.Store
	Providers   *provider.Registry
	Resolver    resolver.Resolver

	// PickImage chooses the members page image; defaults to web.PickImage.
	PickImage func() string

	// CookieSecure marks the short-lived OAuth state/PKCE cookies Secure.
	CookieSecure bool
}

type Handler struct {
	credentials  *credentials.Service
	sessions     *session.Manager
	gate         *authz.Gate
	roles        *roles.Mutator
	users        users.Store
	providers    *provider.Registry
	resolver     resolver.Resolver
	auth         *middleware.AuthMiddleware
	pickImage    func() string
	cookieSecure bool
}

func NewHandler(d Deps) *Handler {
	pick := d.PickImage
	if pick == nil {
		pick = func() string { return web.PickImage(nil) }
	}
	providers := d.Providers
	if providers == nil {
		providers = provider.NewRegistry()
	}

	return &Handler{
		credentials:  d.Credentials,
		sessions:     d.Sessions,
		gate:         d.Gate,
		roles:        d.Roles,
		users:        d.Users,
		providers:    providers,
		resolver:     d.Resolver,
		auth:         middleware.NewAuthMiddleware(d.Sessions, d.Gate),
		pickImage:    pick,
		cookieSecure: d.CookieSecure,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// Emails in /promote and /demote may carry escaped '/', '?' or '#'.
	r.UseRawPath = true
	r.UnescapePathValues = true

	pages := r.Group("/", middleware.Gin(h.auth.LoadSession))
	{
		pages.GET("/", h.Home)
		pages.GET("/home", h.Home)

		pages.GET("/signup", h.SignupForm)
		pages.POST("/submitUser", h.Register)

		pages.GET("/login", h.LoginForm)
		pages.POST("/login", h.Login)


		members := pages.Group("/", middleware.Gin(h.auth.RequireAuth))
		members.GET("/members", h.Members)

		admin := pages.Group("/", middleware.Gin(h.auth.RequireAdmin))
		admin.GET("/admin", h.Admin)
		admin.GET("/promote/:email", h.Promote)
		admin.GET("/demote/:email", h.Demote)

		if !h.providers.Empty() {
			pages.GET("/oauth/login/:provider", h.oauthLogin)
			pages.GET("/oauth/callback/:provider", h.oauthCallback)
		}
	}

	// Logout loads the session itself so a store failure still clears the cookie.
	r.GET("/logout", h.Logout)

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Page not found - 404")
	})

	for _, route := range r.Routes() {
		logger.Info("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}

func currentSession(c *gin.Context) session.Session {
	return middleware.SessionFromContext(c.Request.Context())
}

func (h *Handler) message(c *gin.Context, status int, msg, link, linkText string) {
	c.HTML(status, "message.html", gin.H{
		"Message":  msg,
		"Link":     link,
		"LinkText": linkText,
	})
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	logger.Error(msg, map[string]any{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	h.message(c, http.StatusInternalServerError, "Something went wrong. Please try again.", "/", "Home")
}
