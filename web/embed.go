// Package web holds the embedded HTML templates.
package web

import "embed"

// TemplatesFS contains templates/*.html; every page is parsed together with base.html.
//
//go:embed templates/*.html
var TemplatesFS embed.FS
