package handler

import (
	"errors"
	"net/http"

	"member-portal/internal/logger"

	"github.com/gin-gonic/gin"
)

// Logout is idempotent for anonymous clients. A store failure, while loading
// or deleting the session, is reported as a 500 but the cookie is cleared
// either way.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	sess, loadErr := h.sessions.Load(ctx, c.Request)
	_, destroyErr := h.sessions.Destroy(ctx, c.Writer, sess)

	if err := errors.Join(loadErr, destroyErr); err != nil {
		logger.Error("logout failed", map[string]any{
			"email": sess.UserEmail,
			"error": err.Error(),
		})
		h.message(c, http.StatusInternalServerError, "Error logging out.", "/", "Home")
		return
	}

	c.Redirect(http.StatusFound, "/")
}
