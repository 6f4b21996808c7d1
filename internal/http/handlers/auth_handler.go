// Auth HTTP handlers.
//
//   - POST /auth/login   (issue session cookie)
//   - POST /auth/logout  (revoke session, always clears cookie)
//   - GET  /auth/me      (report current identity)
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockrakh/stockrakh/internal/services"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"s3cret"`
}

// LoginResponse is returned on successful login; the token itself travels
// only in the HttpOnly cookie.
type LoginResponse struct {
	Success   bool              `json:"success" example:"true"`
	User      services.Identity `json:"user"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// MeResponse reports whether the caller holds a valid session.
type MeResponse struct {
	Authenticated bool               `json:"authenticated"`
	User          *services.Identity `json:"user,omitempty"`
}

// SuccessResponse is a bare acknowledgement.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

func (h *Handlers) setSessionCookie(c *gin.Context, value string, expires time.Time) {
	ck := &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
	}
	http.SetCookie(c.Writer, ck)
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Checks the admin credential and sets an HttpOnly session cookie valid for 7 days.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  handlers.LoginResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Missing fields"
// @Failure     401   {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500   {object}  handlers.ErrorResponse  "Misconfigured or store error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	sess, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, services.ErrMissingCredentials):
		fail(c, http.StatusBadRequest, ErrCodeMissingFields, err.Error())
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
		return
	case errors.Is(err, services.ErrAuthMisconfigured):
		fail(c, http.StatusInternalServerError, ErrCodeAuthMisconfig, "server configuration error")
		return
	case err != nil:
		internal(c, ErrCodeInternal, err)
		return
	}

	h.setSessionCookie(c, sess.Token, sess.ExpiresAt)
	ok(c, http.StatusOK, LoginResponse{
		Success:   true,
		User:      services.Identity{Username: sess.UserID},
		ExpiresAt: sess.ExpiresAt,
	})
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Description Deletes the session (if any) and clears the cookie, even on error.
// @Tags        Auth
// @Produce     json
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", time.Time{})
	if token, err := c.Cookie(h.opts.CookieName); err == nil && token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			internal(c, ErrCodeInternal, err)
			return
		}
	}
	ok(c, http.StatusOK, SuccessResponse{Success: true})
}

// Me godoc
// @ID          me
// @Summary     Current identity
// @Tags        Auth
// @Produce     json
// @Success     200  {object}  handlers.MeResponse
// @Failure     401  {object}  handlers.MeResponse
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	token, _ := c.Cookie(h.opts.CookieName)
	id, valid := h.auth.Verify(c.Request.Context(), token)
	if !valid {
		c.JSON(http.StatusUnauthorized, MeResponse{Authenticated: false})
		return
	}
	ok(c, http.StatusOK, MeResponse{Authenticated: true, User: &id})
}
