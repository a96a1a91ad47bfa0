package handler

import (
	"errors"
	"net/http"

	"member-portal/internal/auth/credentials"
	"member-portal/internal/logger"

	"github.com/gin-gonic/gin"
)

const invalidCredentialsMessage = "Invalid email or password."

func (h *Handler) Login(c *gin.Context) {
	var req credentials.LoginInput
	if err := c.ShouldBind(&req); err != nil {
		h.message(c, http.StatusBadRequest, "Invalid request.", "/login", "Try again")
		return
	}

	u, err := h.credentials.Authenticate(c.Request.Context(), req)

	var verr *credentials.ValidationError
	switch {
	case errors.As(err, &verr):
		h.message(c, http.StatusBadRequest, verr.Message+".", "/login", "Try again")
		return
	case errors.Is(err, credentials.ErrInvalidCredentials):
		logger.Warn("login rejected", map[string]any{
			"ip": c.ClientIP(),
		})
		h.message(c, http.StatusUnauthorized, invalidCredentialsMessage, "/login", "Try again")
		return
	case err != nil:
		h.internalError(c, "login failed", err)
		return
	}

	if _, err := h.sessions.Issue(c.Request.Context(), c.Writer, currentSession(c), u.Name, u.Email); err != nil {
		h.internalError(c, "login session failed", err)
		return
	}

	logger.Info("login succeeded", map[string]any{
		"email": u.Email,
		"ip":    c.ClientIP(),
	})

	c.Redirect(http.StatusFound, "/members")
}
