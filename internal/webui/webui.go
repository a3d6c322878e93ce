// Package webui provides the embedded dashboard served next to the REST API.
package webui

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// Static returns the embedded files rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embed path is fixed at compile time.
		panic(err)
	}
	return sub
}

// Handler serves the dashboard.
func Handler() http.Handler {
	return http.FileServerFS(Static())
}
