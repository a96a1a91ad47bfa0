package handler

import (
	"errors"
	"net/http"

	"member-portal/internal/users"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Home(c *gin.Context) {
	sess := currentSession(c)
	if h.gate.RequireAuthenticated(sess) != nil {
		c.HTML(http.StatusOK, "home.html", gin.H{"Authenticated": false})
		return
	}

	isAdmin := false
	u, err := h.users.FindByEmail(c.Request.Context(), sess.UserEmail)
	switch {
	case err == nil:
		isAdmin = u.IsAdmin()
	case !errors.Is(err, users.ErrNotFound):
		h.internalError(c, "home user lookup failed", err)
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Authenticated": true,
		"Name":          sess.UserName,
		"IsAdmin":       isAdmin,
	})
}

func (h *Handler) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"Title": "Sign up"})
}

func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":     "Log in",
		"Providers": h.providers.Names(),
	})
}

func (h *Handler) Members(c *gin.Context) {
	sess := currentSession(c)
	c.HTML(http.StatusOK, "members.html", gin.H{
		"Title": "Members",
		"Name":  sess.UserName,
		"Image": h.pickImage(),
	})
}
