package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/middleware/auth"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/service"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

type AuthHTTP struct {
	Svc   *service.AuthService
	Users *service.UserService
}

func sessionCookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func deleteCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHTTP) setSession(c echo.Context, res *service.LoginResult) {
	c.SetCookie(sessionCookie(auth.AccessCookie, res.AccessToken, res.AccessExp))
	c.SetCookie(sessionCookie(auth.RefreshCookie, res.RefreshToken, res.RefreshExp))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	user, err := h.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	res, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	h.setSession(c, res)
	return c.JSON(http.StatusOK, res.User)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(auth.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}
	res, err := h.Svc.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		c.SetCookie(deleteCookie(auth.AccessCookie))
		c.SetCookie(deleteCookie(auth.RefreshCookie))
		return toHTTPError(err)
	}
	h.setSession(c, res)
	return c.JSON(http.StatusOK, res.User)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.RefreshCookie); err == nil {
		if err := h.Svc.Logout(c.Request().Context(), cookie.Value); err != nil {
			return toHTTPError(err)
		}
	}
	c.SetCookie(deleteCookie(auth.AccessCookie))
	c.SetCookie(deleteCookie(auth.RefreshCookie))
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	user, err := h.Users.Get(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Svc.ChangePassword(c.Request().Context(), userID, req); err != nil {
		return toHTTPError(err)
	}
	c.SetCookie(deleteCookie(auth.AccessCookie))
	c.SetCookie(deleteCookie(auth.RefreshCookie))
	return c.NoContent(http.StatusNoContent)
}
