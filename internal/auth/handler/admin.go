package handler

import (
	"context"
	"errors"
	"net/http"

	"member-portal/internal/auth/authz"
	"member-portal/internal/auth/roles"
	"member-portal/internal/middleware"
	"member-portal/internal/session"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Admin(c *gin.Context) {
	admin, _ := middleware.AdminFromContext(c.Request.Context())

	list, err := h.users.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "list users failed", err)
		return
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Title": "Admin",
		"Users": list,
		"Self":  admin.Email,
	})
}

func (h *Handler) Promote(c *gin.Context) {
	h.changeRole(c, h.roles.Promote)
}

func (h *Handler) Demote(c *gin.Context) {
	h.changeRole(c, h.roles.Demote)
}

func (h *Handler) changeRole(
	c *gin.Context,
	change func(ctx context.Context, actor session.Session, targetEmail string) error,
) {
	err := change(c.Request.Context(), currentSession(c), c.Param("email"))

	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/admin")
	case errors.Is(err, roles.ErrSelfRoleChange):
		h.message(c, http.StatusBadRequest, "You cannot change your own role.", "/admin", "Back")
	case errors.Is(err, roles.ErrUserNotFound):
		h.message(c, http.StatusNotFound, "User not found.", "/admin", "Back")
	case errors.Is(err, authz.ErrNotAuthenticated):
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, authz.ErrNotAuthorized):
		h.message(c, http.StatusForbidden, "Not Authorized.", "/", "Home")
	default:
		h.internalError(c, "role change failed", err)
	}
}
