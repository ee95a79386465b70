package frontend

import "embed"

// Templates holds the server rendered pages
//
//go:embed templates/*.html
var Templates embed.FS

// StaticFiles holds assets served below /static/
//
//go:embed static
var StaticFiles embed.FS
