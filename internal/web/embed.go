// Package web provides embedded frontend static files for air-gapped deployment.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed dist/*
var staticFiles embed.FS

// GetFileSystem returns the embedded filesystem with the dist folder as root.
func GetFileSystem() (fs.FS, error) {
	return fs.Sub(staticFiles, "dist")
}

// RegisterStaticRoutes registers the embedded frontend with Echo.
// The API routes should be registered before calling this function.
func RegisterStaticRoutes(e *echo.Echo) error {
	staticFS, err := GetFileSystem()
	if err != nil {
		return err
	}
	RegisterFS(e, staticFS)
	return nil
}

// RegisterFS serves staticFS for every route not matched by the API.
// Paths that do not name a file get index.html so the page can pick the
// screen itself.
func RegisterFS(e *echo.Echo, staticFS fs.FS) {
	e.GET("/*", func(c echo.Context) error {
		name := strings.TrimPrefix(path.Clean("/"+c.Request().URL.Path), "/")

		// Unknown API paths stay JSON 404s
		if name == "api" || strings.HasPrefix(name, "api/") {
			return echo.ErrNotFound
		}

		if name == "" {
			return serveIndexHTML(c, staticFS)
		}
		info, err := fs.Stat(staticFS, name)
		if err != nil || info.IsDir() {
			return serveIndexHTML(c, staticFS)
		}
		return echo.StaticFileHandler(name, staticFS)(c)
	})
}

// serveIndexHTML serves the main index.html for SPA routing
func serveIndexHTML(c echo.Context, staticFS fs.FS) error {
	content, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "index.html not found")
	}
	return c.HTMLBlob(http.StatusOK, content)
}

// HasEmbeddedFiles returns true if the frontend has been built and embedded.
func HasEmbeddedFiles() bool {
	_, err := fs.Stat(staticFiles, "dist/index.html")
	return err == nil
}
