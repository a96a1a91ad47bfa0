package handler

import (
	"errors"
	"net/http"

	"member-portal/internal/auth/resolver"
	"member-portal/internal/logger"

	"github.com/gin-gonic/gin"
)

func (h *Handler) oauthLogin(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		h.message(c, http.StatusNotFound, "Unknown sign-in provider.", "/login", "Back")
		return
	}

	state, err := h.generateState(c)
	if err != nil {
		h.internalError(c, "oauth state generation failed", err)
		return
	}
	_, challenge, err := h.generatePKCE(c)
	if err != nil {
		h.internalError(c, "oauth pkce generation failed", err)
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, challenge))
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		h.message(c, http.StatusNotFound, "Unknown sign-in provider.", "/login", "Back")
		return
	}

	if !validateState(c) {
		h.message(c, http.StatusUnauthorized, "Sign-in expired.", "/login", "Try again")
		return
	}

	// The IdP reports cancellations and errors through the query string.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		h.clearFlowCookies(c)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	verifier := getPKCEVerifier(c)
	if code == "" || verifier == "" {
		h.message(c, http.StatusBadRequest, "Sign-in failed.", "/login", "Try again")
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, verifier)
	if err != nil {
		logger.Warn("oidc exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		h.message(c, http.StatusUnauthorized, "Sign-in failed.", "/login", "Try again")
		return
	}

	u, err := h.resolver.Resolve(c.Request.Context(), identity)
	if errors.Is(err, resolver.ErrUnverifiedEmail) {
		h.message(c, http.StatusForbidden, "Your email address is not verified with this provider.", "/login", "Back")
		return
	}
	if err != nil {
		h.internalError(c, "oidc resolve failed", err)
		return
	}

	if _, err := h.sessions.Issue(c.Request.Context(), c.Writer, currentSession(c), u.Name, u.Email); err != nil {
		h.internalError(c, "oidc session failed", err)
		return
	}
	h.clearFlowCookies(c)

	logger.Info("oidc login succeeded", map[string]any{
		"provider": providerName,
		"email":    u.Email,
		"ip":       c.ClientIP(),
	})

	c.Redirect(http.StatusFound, "/members")
}
