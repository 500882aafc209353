package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/service/auth"
)

// SessionCookie is the name of the signed session cookie.
const SessionCookie = "outletdesk_session"

// ContextSessionKey is the gin context key holding the resolved session ID.
const ContextSessionKey = "session_id"

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Outlet   string `form:"outlet" binding:"required"`
}

// AuthHandler serves the login and logout endpoints.
type AuthHandler struct {
	svc          *auth.Service
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler constructs the login handler.
func NewAuthHandler(svc *auth.Service, secureCookie bool, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, secureCookie: secureCookie, logger: logger}
}

// ShowLogin renders the login page, or forwards signed-in users to the dashboard.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		if _, err := h.svc.Resolve(token); err == nil {
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}
	}
	h.renderLogin(c, http.StatusOK, loginForm{Outlet: models.Outlets[0]}, "")
}

// Login checks the credentials and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, http.StatusBadRequest, form, "Username, password and outlet are required.")
		return
	}

	token, err := h.svc.Login(form.Username, form.Password, form.Outlet)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.renderLogin(c, http.StatusUnauthorized, form, "Invalid username or password.")
		return
	case errors.Is(err, auth.ErrUnknownOutlet):
		h.renderLogin(c, http.StatusBadRequest, form, "Please choose an outlet from the list.")
		return
	case err != nil:
		h.logger.Error("login failed", zap.Error(err))
		h.renderLogin(c, http.StatusInternalServerError, form, "Login is unavailable right now.")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, 0, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout resets the session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		if id, err := h.svc.Resolve(token); err == nil {
			h.svc.Logout(id)
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// RequireSession rejects requests without a live session.
func (h *AuthHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		id, err := h.svc.Resolve(token)
		if err != nil {
			h.logger.Debug("session rejected", zap.Error(err))
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, id)
		c.Next()
	}
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, form loginForm, message string) {
	c.HTML(status, "login.html", gin.H{
		"Title":    "Outlet Login",
		"Outlets":  models.Outlets,
		"Outlet":   form.Outlet,
		"Username": form.Username,
		"Error":    message,
	})
}
