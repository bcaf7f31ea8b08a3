// Package views embeds the gateway's HTML templates.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"

	"github.com/skyops/crew-admin/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Engine returns the template engine backed by the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("orgName", domain.OrgUnitName)
	return engine
}
