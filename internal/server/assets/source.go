// Package assets serves the game's static files (level pages, shared scripts
// and audio) from a local directory or an S3-compatible bucket.
package assets

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"
	"time"
)

// IndexFile is served for directory requests.
const IndexFile = "index.html"

// Asset is an opened file. The caller must close Body.
type Asset struct {
	Name        string
	Body        io.ReadCloser
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Source opens files by slash-separated name relative to the web root, e.g.
// "pages/level1/index.html". Missing files and names that are not valid
// fs paths are reported as common.ErrorNotFound.
type Source interface {
	Open(ctx context.Context, name string) (*Asset, error)
}

func cleanName(name string) string {
	return strings.Trim(name, "/")
}

// Types the game ships that are missing from Go's builtin table.
var gameTypes = map[string]string{
	".mp3": "audio/mpeg",
	".ogg": "audio/ogg",
	".wav": "audio/wav",
	".txt": "text/plain; charset=utf-8",
}

func contentType(name, fallback string) string {
	ext := strings.ToLower(path.Ext(name))
	if ct, ok := gameTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	if fallback != "" {
		return fallback
	}
	return "application/octet-stream"
}
