package rest

import (
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/server/assets"
	"github.com/labstack/echo/v4"
)

// Locations below the web root.
const (
	entryPage = "pages/entry/index.html"
	pagesDir  = "pages"
	coreDir   = "core"
	audioDir  = "core/audio"
)

// wildcard returns the unescaped "*" parameter and whether it is a usable
// relative path. An empty value means the directory itself.
func wildcard(c echo.Context) (raw, name string, ok bool) {
	raw, err := url.PathUnescape(c.Param("*"))
	if err != nil {
		return "", "", false
	}
	name = strings.Trim(raw, "/")
	if name != "" && !fs.ValidPath(name) {
		return "", "", false
	}
	return raw, name, true
}

func (s *HTTPServer) open(c echo.Context, name string) (*assets.Asset, error) {
	a, err := s.assets.Open(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, echo.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *HTTPServer) serve(c echo.Context, dir string) error {
	_, name, ok := wildcard(c)
	if !ok {
		return echo.ErrNotFound
	}
	a, err := s.open(c, path.Join(dir, name))
	if err != nil {
		return err
	}
	return writeAsset(c, a)
}

func writeAsset(c echo.Context, a *assets.Asset) error {
	defer a.Body.Close()

	h := c.Response().Header()
	if !a.ModTime.IsZero() {
		h.Set(echo.HeaderLastModified, a.ModTime.UTC().Format(http.TimeFormat))
	}
	if a.Size > 0 {
		h.Set(echo.HeaderContentLength, strconv.FormatInt(a.Size, 10))
	}
	return c.Stream(http.StatusOK, a.ContentType, a.Body)
}

func (s *HTTPServer) entry(c echo.Context) error {
	a, err := s.open(c, entryPage)
	if err != nil {
		return err
	}
	return writeAsset(c, a)
}

// pages serves a level page and remembers it as the player's last page. A
// page that does not exist is not remembered.
func (s *HTTPServer) pages(c echo.Context) error {
	raw, name, ok := wildcard(c)
	if !ok {
		return echo.ErrNotFound
	}

	a, err := s.open(c, path.Join(pagesDir, name))
	if err != nil {
		return err
	}

	if err := s.progress.RecordPageVisit(c.Request().Context(), username(c), common.PagesPrefix+raw); err != nil {
		_ = a.Body.Close()
		if errors.Is(err, common.ErrorUnauthorized) {
			s.clearSession(c)
			return c.Redirect(http.StatusFound, "/")
		}
		return err
	}

	return writeAsset(c, a)
}

// core is public except for core/audio, which stays behind the session gate
// whichever route reaches it.
func (s *HTTPServer) core(c echo.Context) error {
	if _, name, ok := wildcard(c); ok && underAudio(name) {
		if _, logged := s.sessionUser(c); !logged {
			return c.Redirect(http.StatusFound, "/")
		}
	}
	return s.serve(c, coreDir)
}

func underAudio(name string) bool {
	rel := strings.TrimPrefix(audioDir, coreDir+"/")
	return name == rel || strings.HasPrefix(name, rel+"/")
}

func (s *HTTPServer) audio(c echo.Context) error {
	return s.serve(c, audioDir)
}
