package handler

import (
	"errors"
	"net/http"

	"member-portal/internal/auth/credentials"
	"member-portal/internal/logger"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var req credentials.SignupInput
	if err := c.ShouldBind(&req); err != nil {
		h.message(c, http.StatusBadRequest, "Invalid request.", "/signup", "Try again")
		return
	}

	u, err := h.credentials.Register(c.Request.Context(), req)

	var verr *credentials.ValidationError
	switch {
	case errors.As(err, &verr):
		h.message(c, http.StatusBadRequest, verr.Message+".", "/signup", "Try again")
		return
	case errors.Is(err, credentials.ErrAlreadyRegistered):
		h.message(c, http.StatusConflict, "Email is already registered.", "/signup", "Try again")
		return
	case err != nil:
		h.internalError(c, "signup failed", err)
		return
	}

	if _, err := h.sessions.Issue(c.Request.Context(), c.Writer, currentSession(c), u.Name, u.Email); err != nil {
		h.internalError(c, "signup session failed", err)
		return
	}

	logger.Info("user registered", map[string]any{
		"email": u.Email,
		"ip":    c.ClientIP(),
	})

	c.Redirect(http.StatusFound, "/members")
}
