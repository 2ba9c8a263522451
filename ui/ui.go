// Package ui holds the embedded template assets for the web frontend.
package ui

import "embed"

//go:embed templates
var Files embed.FS
