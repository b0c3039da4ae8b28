// Package web embeds the single-page front end.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html css js
var assets embed.FS

// FS returns the embedded front-end files rooted at index.html.
func FS() fs.FS {
	return assets
}
