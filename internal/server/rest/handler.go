package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/server/levels"
	"github.com/labstack/echo/v4"
)

// Plain-text bodies of the account endpoints, kept from the original game.
const (
	msgIncompleteData     = "Datos incompletos"
	msgUserExists         = "Usuario ya existe"
	msgInvalidCredentials = "Credenciales incorrectas"
)

const maxValidateBody = 64 << 10

type successResponse struct {
	Success bool `json:"success"`
}

type validateResponse struct {
	OK       bool   `json:"ok"`
	Redirect string `json:"redirect,omitempty"`
}

type sessionStatusResponse struct {
	LoggedIn bool    `json:"logged_in"`
	LastPage *string `json:"last_page"`
}

// register creates the account and logs the player in straight away.
func (s *HTTPServer) register(c echo.Context) error {
	ctx := c.Request().Context()

	u, err := s.users.Register(ctx, c.FormValue("user"), c.FormValue("pass"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			return c.String(http.StatusBadRequest, msgIncompleteData)
		case errors.Is(err, common.ErrorAlreadyExists):
			return c.String(http.StatusBadRequest, msgUserExists)
		}
		return err
	}

	token, err := s.users.IssueToken(u.Username)
	if err != nil {
		return err
	}
	s.setSession(c, token)

	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (s *HTTPServer) login(c echo.Context) error {
	ctx := c.Request().Context()

	token, err := s.users.Login(ctx, c.FormValue("user"), c.FormValue("pass"))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return c.String(http.StatusForbidden, msgInvalidCredentials)
		}
		return err
	}
	s.setSession(c, token)

	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (s *HTTPServer) logout(c echo.Context) error {
	s.clearSession(c)
	return c.Redirect(http.StatusFound, "/")
}

// validate accepts the submission as JSON whatever the Content-Type says.
// Anything unparsable is an ordinary rejection.
func (s *HTTPServer) validate(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxValidateBody))
	if err != nil {
		return c.JSON(http.StatusOK, validateResponse{})
	}
	var sub levels.Submission
	if err := json.Unmarshal(body, &sub); err != nil || sub == nil {
		return c.JSON(http.StatusOK, validateResponse{})
	}

	res, err := s.progression.Validate(ctx, username(c), sub.Field("level"), sub)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.clearSession(c)
			return c.Redirect(http.StatusFound, "/")
		}
		return err
	}
	if !res.Accepted {
		return c.JSON(http.StatusOK, validateResponse{})
	}

	return c.JSON(http.StatusOK, validateResponse{OK: true, Redirect: res.Next})
}

func (s *HTTPServer) sessionStatus(c echo.Context) error {
	name, ok := s.sessionUser(c)
	if !ok {
		return c.JSON(http.StatusOK, map[string]bool{"logged_in": false})
	}

	st, err := s.progress.State(c.Request().Context(), name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionStatusResponse{LoggedIn: true, LastPage: st.LastPage})
}

func (s *HTTPServer) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
