package site

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// TemplatesFS exposes the page templates rooted at the templates directory.
func TemplatesFS() fs.FS {
	return mustSub(templatesFS, "templates")
}

// StaticFS exposes the stylesheet and scripts served under /static/.
func StaticFS() fs.FS {
	return mustSub(staticFS, "static")
}
