package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/server/auth"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func newRequestID() string {
	return uuid.NewString()
}

// sessionGate admits requests carrying a valid session cookie and puts the
// username on the context under common.UserContextKey. Everyone else is sent
// to the entry page.
func (s *HTTPServer) sessionGate() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + common.SessionCookieName,
		ContextKey:  common.UserContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (any, error) {
			return auth.GetUsernameFromToken(token, s.jwtSecret)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.Redirect(http.StatusFound, "/")
		},
	})
}

// sessionUser reads the session cookie on routes outside the gate.
func (s *HTTPServer) sessionUser(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(common.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	username, err := auth.GetUsernameFromToken(cookie.Value, s.jwtSecret)
	if err != nil {
		return "", false
	}
	return username, true
}

func username(c echo.Context) string {
	u, _ := c.Get(common.UserContextKey).(string)
	return u
}

func (s *HTTPServer) setSession(c echo.Context, token string) {
	validity := s.users.SessionValidity()
	c.SetCookie(&http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(validity),
		MaxAge:   int(validity.Seconds()),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) clearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if u := username(c); u != "" {
				args = append(args, "user", u)
			}
			if v.Error != nil {
				args = append(args, "error", v.Error)
			}
			s.logger.Info(c.Request().Context(), "request", args...)
			return nil
		},
	})
}
