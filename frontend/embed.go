package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

// FS holds the production build of the dashboard front end. The dist
// directory is populated by the front end build before go build runs.
//
//go:embed all:dist
var FS embed.FS

const indexFile = "index.html"

// GetHTTPFS returns the embedded build for HTTP serving. It fails with
// fs.ErrNotExist when the build was not embedded, so callers can fall back.
func GetHTTPFS() (http.FileSystem, error) {
	dist, err := fs.Sub(FS, "dist")
	if err != nil {
		return nil, err
	}

	if _, err := fs.Stat(dist, indexFile); err != nil {
		return nil, &fs.PathError{Op: "stat", Path: indexFile, Err: fs.ErrNotExist}
	}

	return http.FS(dist), nil
}
