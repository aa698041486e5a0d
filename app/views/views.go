// Package views holds the HTML templates for the board pages.
package views

import "embed"

//go:embed *.html
var FS embed.FS
