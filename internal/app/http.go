package app

import (
	"context"
	"fmt"

	"member-portal/internal/auth/authz"
	"member-portal/internal/auth/credentials"
	"member-portal/internal/auth/handler"
	"member-portal/internal/auth/provider"
	"member-portal/internal/auth/provider/oidc"
	"member-portal/internal/auth/resolver"
	"member-portal/internal/auth/roles"
	"member-portal/internal/config"
	"member-portal/internal/middleware"
	"member-portal/internal/session"
	"member-portal/internal/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	router, err := buildRouter(ctx, cfg, infra)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}

func buildRouter(ctx context.Context, cfg config.Config, infra *Infra) (*gin.Engine, error) {

	// ----------------------------
	// Dependencies
	// ----------------------------

	credentialService, err := credentials.NewService(
		infra.Users,
		credentials.NewBcryptHasher(cfg.BcryptCost),
		credentials.NewValidator(),
	)
	if err != nil {
		return nil, err
	}

	sessionManager := session.NewManager(
		session.NewRedisStore(infra.Redis.Client),
		cfg.SessionTTL,
		session.DefaultCookieOptions(cfg.SessionCookieSecure),
	)

	gate := authz.NewGate(infra.Users)

	if err := roles.EnsureAdmin(ctx, infra.Users, cfg.AdminEmail); err != nil {
		return nil, err
	}

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		return nil, err
	}

	authHandler := handler.NewHandler(handler.Deps{
		Credentials:  credentialService,
		Sessions:     sessionManager,
		Gate:         gate,
		Roles:        roles.NewMutator(infra.Users, gate),
		Users:        infra.Users,
		Providers:    registry,
		Resolver:     resolver.NewStoreResolver(infra.Users),
		CookieSecure: cfg.SessionCookieSecure,
	})

	// ----------------------------
	// Router
	// ----------------------------

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
		router.Use(cors.New(corsConfig))
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	router.StaticFS("/static", web.Static())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(router)

	return router, nil
}

func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleEnabled() {
		p, err := oidc.New(ctx, oidc.Options{
			Name:         "google",
			Issuer:       oidc.GoogleIssuer,
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		})
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.KeycloakEnabled() {
		p, err := oidc.New(ctx, oidc.Options{
			Name:        "keycloak",
			Issuer:      cfg.KeycloakIssuer,
			ClientID:    cfg.KeycloakClientID,
			RedirectURL: cfg.KeycloakRedirectURL,
			AuthURL:     cfg.KeycloakPublicBaseURL + keycloakAuthPath(cfg.KeycloakIssuer),
		})
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	return provider.NewRegistry(list...), nil
}
