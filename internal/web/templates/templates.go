// Package templates embeds the index page and its static assets.
package templates

import "embed"

//go:embed *.html static
var FS embed.FS
